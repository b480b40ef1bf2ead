package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Account 客户（公司）
type Account struct {
	ID           string            `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name         string            `gorm:"type:varchar(255);not null;index" json:"name"`
	Industry     *string           `gorm:"type:varchar(255);index" json:"industry"`
	Country      *string           `gorm:"type:varchar(255);index" json:"country"`
	Phone        *string           `gorm:"type:varchar(50)" json:"phone"`
	Website      *string           `gorm:"type:varchar(500)" json:"website"`
	CustomFields datatypes.JSONMap `gorm:"not null" json:"customFields"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

// TableName 指定表名
func (Account) TableName() string {
	return "accounts"
}

// BeforeCreate 生成ID并保证 customFields 不为 null
func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.CustomFields == nil {
		a.CustomFields = datatypes.JSONMap{}
	}
	return nil
}

// AccountInput 创建/更新客户的请求体
type AccountInput struct {
	Name         Optional[string]         `json:"name"`
	Industry     Optional[string]         `json:"industry"`
	Country      Optional[string]         `json:"country"`
	Phone        Optional[string]         `json:"phone"`
	Website      Optional[string]         `json:"website"`
	CustomFields Optional[map[string]any] `json:"customFields"`
}

// AccountFilter 客户列表过滤条件
type AccountFilter struct {
	Industry string
	Country  string
}

// AccountDistinctValues 过滤下拉框的候选值
type AccountDistinctValues struct {
	Industries []string `json:"industries"`
	Countries  []string `json:"countries"`
}
