package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// FieldDefinition 对象字段定义（内置或自定义）
type FieldDefinition struct {
	ID          string                      `gorm:"type:varchar(36);primaryKey" json:"id"`
	ObjectType  ObjectType                  `gorm:"type:varchar(50);not null;uniqueIndex:idx_field_definitions_object_field,priority:1" json:"objectType"`
	FieldName   string                      `gorm:"type:varchar(100);not null;uniqueIndex:idx_field_definitions_object_field,priority:2" json:"fieldName"`
	Label       string                      `gorm:"type:varchar(255);not null" json:"label"`
	FieldType   FieldType                   `gorm:"type:varchar(50);not null" json:"fieldType"`
	Required    bool                        `gorm:"not null;default:false" json:"required"`
	IsCustom    bool                        `gorm:"not null" json:"isCustom"`
	Options     datatypes.JSONSlice[string] `json:"options"`
	Validations datatypes.JSONMap           `json:"validations"`
	SortOrder   int                         `gorm:"not null;default:0" json:"sortOrder"`
	CreatedAt   time.Time                   `json:"createdAt"`
	UpdatedAt   time.Time                   `json:"updatedAt"`
}

// TableName 指定表名
func (FieldDefinition) TableName() string {
	return "field_definitions"
}

func (f *FieldDefinition) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	if f.Options == nil {
		f.Options = datatypes.JSONSlice[string]{}
	}
	if f.Validations == nil {
		f.Validations = datatypes.JSONMap{}
	}
	return nil
}

// HasOption 选项是否存在（picklist）
func (f FieldDefinition) HasOption(v string) bool {
	for _, opt := range f.Options {
		if opt == v {
			return true
		}
	}
	return false
}

// CreateFieldDefinitionRequest 创建自定义字段
type CreateFieldDefinitionRequest struct {
	ObjectType  string         `json:"objectType" validate:"required,oneof=account contact opportunity"`
	FieldName   string         `json:"fieldName" validate:"required,max=100,identifier"`
	Label       string         `json:"label" validate:"required,max=255"`
	FieldType   string         `json:"fieldType" validate:"required,oneof=text number date boolean picklist lookup"`
	Required    bool           `json:"required"`
	Options     []string       `json:"options" validate:"omitempty,dive,required"`
	Validations map[string]any `json:"validations"`
	SortOrder   *int           `json:"sortOrder" validate:"omitempty,min=0"`
}

// UpdateFieldDefinitionRequest 部分更新字段定义，未提供的字段保持不变
type UpdateFieldDefinitionRequest struct {
	Label       *string         `json:"label" validate:"omitempty,min=1,max=255"`
	FieldType   *string         `json:"fieldType" validate:"omitempty,oneof=text number date boolean picklist lookup"`
	Required    *bool           `json:"required"`
	Options     *[]string       `json:"options" validate:"omitempty,dive,required"`
	Validations *map[string]any `json:"validations"`
	SortOrder   *int            `json:"sortOrder" validate:"omitempty,min=0"`
}
