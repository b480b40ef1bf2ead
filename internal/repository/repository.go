package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fisker/crm-backend/internal/model"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// containsPattern 大小写不敏感的子串匹配参数，配合 LOWER(col) LIKE ? 使用
func containsPattern(q string) string {
	return "%" + strings.ToLower(q) + "%"
}

// notFound 把 gorm 的记录不存在转换为领域错误
func notFound(err error, entity string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.NewNotFound(entity)
	}
	return err
}

// duplicate 把唯一索引冲突转换为领域错误（需要 gorm.Config.TranslateError）
func duplicate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %v", model.ErrDuplicateKey, err)
	}
	return err
}

// pageAndCount 并发执行分页查询和计数，两者之间不保证一致
func pageAndCount(ctx context.Context, db *gorm.DB, find, count func(*gorm.DB) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return find(db.WithContext(gctx)) })
	g.Go(func() error { return count(db.WithContext(gctx)) })
	return g.Wait()
}
