package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/fisker/crm-backend/internal/model"
	"gorm.io/gorm"
)

type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create 创建客户
func (r *AccountRepository) Create(ctx context.Context, account *model.Account) error {
	return r.db.WithContext(ctx).Create(account).Error
}

// CreateBatch 批量创建
func (r *AccountRepository) CreateBatch(ctx context.Context, accounts []model.Account) error {
	if len(accounts) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&accounts).Error
}

// FindByID 根据ID查找客户
func (r *AccountRepository) FindByID(ctx context.Context, id string) (*model.Account, error) {
	var account model.Account
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&account).Error; err != nil {
		return nil, notFound(err, "Account")
	}
	return &account, nil
}

// Exists 客户是否存在
func (r *AccountRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Account{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// NamesByIDs 批量查询客户名称，不存在的ID不出现在结果中
func (r *AccountRepository) NamesByIDs(ctx context.Context, ids []string) (map[string]string, error) {
	names := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	var rows []struct {
		ID   string
		Name string
	}
	if err := r.db.WithContext(ctx).Model(&model.Account{}).Select("id, name").Where("id IN ?", ids).Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		names[row.ID] = row.Name
	}
	return names, nil
}

func accountFilterScope(filter model.AccountFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter.Industry != "" {
			db = db.Where("accounts.industry = ?", filter.Industry)
		}
		if filter.Country != "" {
			db = db.Where("accounts.country = ?", filter.Country)
		}
		return db
	}
}

// List 分页查询，按名称排序
func (r *AccountRepository) List(ctx context.Context, filter model.AccountFilter, page model.Pagination) ([]model.Account, int64, error) {
	accounts := []model.Account{}
	var total int64

	err := pageAndCount(ctx, r.db,
		func(db *gorm.DB) error {
			return db.Scopes(accountFilterScope(filter)).
				Order("accounts.name ASC, accounts.id ASC").
				Offset(page.Offset()).Limit(page.Limit).
				Find(&accounts).Error
		},
		func(db *gorm.DB) error {
			return db.Model(&model.Account{}).Scopes(accountFilterScope(filter)).Count(&total).Error
		},
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, total, nil
}

func accountSearchScope(q string) func(*gorm.DB) *gorm.DB {
	pattern := containsPattern(q)
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("LOWER(accounts.name) LIKE ? OR LOWER(accounts.industry) LIKE ?", pattern, pattern)
	}
}

// Search 按名称/行业模糊搜索
func (r *AccountRepository) Search(ctx context.Context, q string, limit int) ([]model.Account, int64, error) {
	accounts := []model.Account{}
	var total int64

	err := pageAndCount(ctx, r.db,
		func(db *gorm.DB) error {
			return db.Scopes(accountSearchScope(q)).Order("accounts.name ASC").Limit(limit).Find(&accounts).Error
		},
		func(db *gorm.DB) error {
			return db.Model(&model.Account{}).Scopes(accountSearchScope(q)).Count(&total).Error
		},
	)
	if err != nil {
		return nil, 0, fmt.Errorf("search accounts: %w", err)
	}
	return accounts, total, nil
}

// Update 部分更新，updates 的 key 为列名
func (r *AccountRepository) Update(ctx context.Context, id string, updates map[string]interface{}) (*model.Account, error) {
	var account model.Account
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&account).Error; err != nil {
			return notFound(err, "Account")
		}
		updates["updated_at"] = time.Now()
		if err := tx.Model(&account).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).First(&account).Error
	})
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// Delete 删除客户：关联联系人的 account_id 置空，商机保持原引用
func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ?", id).Delete(&model.Account{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return model.NewNotFound("Account")
		}
		return tx.Model(&model.Contact{}).
			Where("account_id = ?", id).
			Update("account_id", nil).Error
	})
}

// DistinctValues 行业和国家的去重值（排除空值）
func (r *AccountRepository) DistinctValues(ctx context.Context) (*model.AccountDistinctValues, error) {
	values := &model.AccountDistinctValues{Industries: []string{}, Countries: []string{}}
	db := r.db.WithContext(ctx).Model(&model.Account{})

	if err := db.Session(&gorm.Session{}).
		Where("industry IS NOT NULL AND industry <> ''").
		Distinct().Order("industry ASC").Pluck("industry", &values.Industries).Error; err != nil {
		return nil, fmt.Errorf("distinct industries: %w", err)
	}
	if err := db.Session(&gorm.Session{}).
		Where("country IS NOT NULL AND country <> ''").
		Distinct().Order("country ASC").Pluck("country", &values.Countries).Error; err != nil {
		return nil, fmt.Errorf("distinct countries: %w", err)
	}
	return values, nil
}

// Count 客户总数
func (r *AccountRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Account{}).Count(&count).Error
	return count, err
}
