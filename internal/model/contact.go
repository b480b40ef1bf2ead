package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Contact 联系人，可选关联客户（客户删除时置空）
type Contact struct {
	ID           string            `gorm:"type:varchar(36);primaryKey" json:"id"`
	FirstName    string            `gorm:"type:varchar(255);not null" json:"firstName"`
	LastName     string            `gorm:"type:varchar(255);not null;index" json:"lastName"`
	Email        *string           `gorm:"type:varchar(255)" json:"email"`
	Phone        *string           `gorm:"type:varchar(50)" json:"phone"`
	AccountID    *string           `gorm:"type:varchar(36);index" json:"accountId"`
	CustomFields datatypes.JSONMap `gorm:"not null" json:"customFields"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

// TableName 指定表名
func (Contact) TableName() string {
	return "contacts"
}

func (c *Contact) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.CustomFields == nil {
		c.CustomFields = datatypes.JSONMap{}
	}
	return nil
}

// ContactWithAccount 列表/详情返回的联系人，附带关联客户名称
type ContactWithAccount struct {
	Contact
	AccountName *string `gorm:"->;column:account_name" json:"accountName"`
}

// ContactInput 创建/更新联系人的请求体
type ContactInput struct {
	FirstName    Optional[string]         `json:"firstName"`
	LastName     Optional[string]         `json:"lastName"`
	Email        Optional[string]         `json:"email"`
	Phone        Optional[string]         `json:"phone"`
	AccountID    Optional[string]         `json:"accountId"`
	CustomFields Optional[map[string]any] `json:"customFields"`
}

// ContactFilter 联系人列表过滤条件
type ContactFilter struct {
	AccountID string
}
