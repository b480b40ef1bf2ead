package repository

import (
	"context"

	"github.com/fisker/crm-backend/internal/model"
	"gorm.io/gorm"
)

// TestDataRepository 测试数据清理，字段定义和页面布局不受影响
type TestDataRepository struct {
	db *gorm.DB
}

func NewTestDataRepository(db *gorm.DB) *TestDataRepository {
	return &TestDataRepository{db: db}
}

// WipeAll 在一个事务内删除全部商机、联系人、客户
func (r *TestDataRepository) WipeAll(ctx context.Context) (*model.TestDataStats, error) {
	stats := &model.TestDataStats{}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Opportunity{})
		if res.Error != nil {
			return res.Error
		}
		stats.Opportunities = res.RowsAffected

		res = tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Contact{})
		if res.Error != nil {
			return res.Error
		}
		stats.Contacts = res.RowsAffected

		res = tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Account{})
		if res.Error != nil {
			return res.Error
		}
		stats.Accounts = res.RowsAffected
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}
