package repository

import (
	"context"
	"time"

	"github.com/fisker/crm-backend/internal/model"
	"gorm.io/gorm"
)

type FieldDefinitionRepository struct {
	db *gorm.DB
}

func NewFieldDefinitionRepository(db *gorm.DB) *FieldDefinitionRepository {
	return &FieldDefinitionRepository{db: db}
}

// Create 创建字段定义，(objectType, fieldName) 已存在时返回 model.ErrDuplicateKey
func (r *FieldDefinitionRepository) Create(ctx context.Context, field *model.FieldDefinition) error {
	if err := r.db.WithContext(ctx).Create(field).Error; err != nil {
		return duplicate(err)
	}
	return nil
}

// FindByID 根据ID查找
func (r *FieldDefinitionRepository) FindByID(ctx context.Context, id string) (*model.FieldDefinition, error) {
	var field model.FieldDefinition
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&field).Error; err != nil {
		return nil, notFound(err, "Field definition")
	}
	return &field, nil
}

// List objectType 为空时返回全部，按对象类型、排序号排序
func (r *FieldDefinitionRepository) List(ctx context.Context, objectType model.ObjectType) ([]model.FieldDefinition, error) {
	fields := []model.FieldDefinition{}
	query := r.db.WithContext(ctx)
	if objectType != "" {
		query = query.Where("object_type = ?", objectType)
	}
	err := query.Order("object_type ASC, sort_order ASC, field_name ASC").Find(&fields).Error
	return fields, err
}

// ListByObjectType 指定对象类型的全部字段（内置与自定义），按排序号排序
func (r *FieldDefinitionRepository) ListByObjectType(ctx context.Context, objectType model.ObjectType) ([]model.FieldDefinition, error) {
	return r.List(ctx, objectType)
}

// Exists (objectType, fieldName) 是否已存在
func (r *FieldDefinitionRepository) Exists(ctx context.Context, objectType model.ObjectType, fieldName string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.FieldDefinition{}).
		Where("object_type = ? AND field_name = ?", objectType, fieldName).
		Count(&count).Error
	return count > 0, err
}

// MaxSortOrder 当前最大排序号，没有字段时为0
func (r *FieldDefinitionRepository) MaxSortOrder(ctx context.Context, objectType model.ObjectType) (int, error) {
	var max struct {
		MaxSort *int
	}
	err := r.db.WithContext(ctx).Model(&model.FieldDefinition{}).
		Select("MAX(sort_order) AS max_sort").
		Where("object_type = ?", objectType).
		Scan(&max).Error
	if err != nil || max.MaxSort == nil {
		return 0, err
	}
	return *max.MaxSort, nil
}

// Update 部分更新
func (r *FieldDefinitionRepository) Update(ctx context.Context, id string, updates map[string]interface{}) (*model.FieldDefinition, error) {
	var field model.FieldDefinition
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&field).Error; err != nil {
			return notFound(err, "Field definition")
		}
		updates["updated_at"] = time.Now()
		if err := tx.Model(&field).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).First(&field).Error
	})
	if err != nil {
		return nil, err
	}
	return &field, nil
}

// Delete 删除字段定义（是否允许删除由调用方判断）
func (r *FieldDefinitionRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.FieldDefinition{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return model.NewNotFound("Field definition")
	}
	return nil
}
