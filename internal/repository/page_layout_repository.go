package repository

import (
	"context"
	"errors"
	"time"

	"github.com/fisker/crm-backend/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PageLayoutRepository struct {
	db *gorm.DB
}

func NewPageLayoutRepository(db *gorm.DB) *PageLayoutRepository {
	return &PageLayoutRepository{db: db}
}

// FindByObjectType 查询对象类型的布局，不存在时返回 nil, nil
func (r *PageLayoutRepository) FindByObjectType(ctx context.Context, objectType model.ObjectType) (*model.PageLayout, error) {
	var layout model.PageLayout
	err := r.db.WithContext(ctx).Where("object_type = ?", objectType).First(&layout).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &layout, nil
}

// Upsert 整体替换对象类型的布局
func (r *PageLayoutRepository) Upsert(ctx context.Context, objectType model.ObjectType, sections []model.PageLayoutSection) (*model.PageLayout, error) {
	layout := model.NewPageLayout(objectType, sections)
	now := time.Now()
	layout.CreatedAt = now
	layout.UpdatedAt = now

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "object_type"}},
		DoUpdates: clause.AssignmentColumns([]string{"sections", "updated_at"}),
	}).Create(layout).Error
	if err != nil {
		return nil, err
	}
	return r.FindByObjectType(ctx, objectType)
}
