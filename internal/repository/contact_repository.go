package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/fisker/crm-backend/internal/model"
	"gorm.io/gorm"
)

type ContactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

// withContactAccountName 左连接客户表取 accountName，不修改存储的记录
func withContactAccountName(db *gorm.DB) *gorm.DB {
	return db.Table("contacts").
		Select("contacts.*, accounts.name AS account_name").
		Joins("LEFT JOIN accounts ON accounts.id = contacts.account_id")
}

// Create 创建联系人
func (r *ContactRepository) Create(ctx context.Context, contact *model.Contact) error {
	return r.db.WithContext(ctx).Create(contact).Error
}

// CreateBatch 批量创建
func (r *ContactRepository) CreateBatch(ctx context.Context, contacts []model.Contact) error {
	if len(contacts) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&contacts).Error
}

// FindByID 根据ID查找联系人（附带客户名称）
func (r *ContactRepository) FindByID(ctx context.Context, id string) (*model.ContactWithAccount, error) {
	var contact model.ContactWithAccount
	err := r.db.WithContext(ctx).Scopes(withContactAccountName).
		Where("contacts.id = ?", id).
		Take(&contact).Error
	if err != nil {
		return nil, notFound(err, "Contact")
	}
	return &contact, nil
}

func contactFilterScope(filter model.ContactFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter.AccountID != "" {
			db = db.Where("contacts.account_id = ?", filter.AccountID)
		}
		return db
	}
}

// List 分页查询，按姓氏、名字排序
func (r *ContactRepository) List(ctx context.Context, filter model.ContactFilter, page model.Pagination) ([]model.ContactWithAccount, int64, error) {
	contacts := []model.ContactWithAccount{}
	var total int64

	err := pageAndCount(ctx, r.db,
		func(db *gorm.DB) error {
			return db.Scopes(withContactAccountName, contactFilterScope(filter)).
				Order("contacts.last_name ASC, contacts.first_name ASC, contacts.id ASC").
				Offset(page.Offset()).Limit(page.Limit).
				Find(&contacts).Error
		},
		func(db *gorm.DB) error {
			return db.Model(&model.Contact{}).Scopes(contactFilterScope(filter)).Count(&total).Error
		},
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list contacts: %w", err)
	}
	return contacts, total, nil
}

func contactSearchScope(q string) func(*gorm.DB) *gorm.DB {
	pattern := containsPattern(q)
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("LOWER(contacts.first_name) LIKE ? OR LOWER(contacts.last_name) LIKE ? OR LOWER(contacts.email) LIKE ?",
			pattern, pattern, pattern)
	}
}

// Search 按姓名/邮箱模糊搜索
func (r *ContactRepository) Search(ctx context.Context, q string, limit int) ([]model.ContactWithAccount, int64, error) {
	contacts := []model.ContactWithAccount{}
	var total int64

	err := pageAndCount(ctx, r.db,
		func(db *gorm.DB) error {
			return db.Scopes(withContactAccountName, contactSearchScope(q)).
				Order("contacts.last_name ASC, contacts.first_name ASC").
				Limit(limit).
				Find(&contacts).Error
		},
		func(db *gorm.DB) error {
			return db.Model(&model.Contact{}).Scopes(contactSearchScope(q)).Count(&total).Error
		},
	)
	if err != nil {
		return nil, 0, fmt.Errorf("search contacts: %w", err)
	}
	return contacts, total, nil
}

// Update 部分更新，返回附带客户名称的最新记录
func (r *ContactRepository) Update(ctx context.Context, id string, updates map[string]interface{}) (*model.ContactWithAccount, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var contact model.Contact
		if err := tx.Where("id = ?", id).First(&contact).Error; err != nil {
			return notFound(err, "Contact")
		}
		updates["updated_at"] = time.Now()
		return tx.Model(&contact).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

// Delete 删除联系人
func (r *ContactRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Contact{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return model.NewNotFound("Contact")
	}
	return nil
}

// Count 联系人总数
func (r *ContactRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Contact{}).Count(&count).Error
	return count, err
}
