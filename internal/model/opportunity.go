package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Opportunity 商机。account_id 不建外键：客户删除后保留原引用
type Opportunity struct {
	ID           string              `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name         string              `gorm:"type:varchar(255);not null;index" json:"name"`
	AccountID    string              `gorm:"type:varchar(36);not null;index" json:"accountId"`
	Amount       decimal.NullDecimal `gorm:"type:decimal(15,2)" json:"amount"`
	Stage        string              `gorm:"type:varchar(100);not null;default:Prospecting;index" json:"stage"`
	CloseDate    *Date               `gorm:"type:date;index" json:"closeDate"`
	CustomFields datatypes.JSONMap   `gorm:"not null" json:"customFields"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}

// TableName 指定表名
func (Opportunity) TableName() string {
	return "opportunities"
}

func (o *Opportunity) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	if o.Stage == "" {
		o.Stage = StageProspecting
	}
	if o.CustomFields == nil {
		o.CustomFields = datatypes.JSONMap{}
	}
	return nil
}

// OpportunityWithAccount 附带关联客户名称
type OpportunityWithAccount struct {
	Opportunity
	AccountName *string `gorm:"->;column:account_name" json:"accountName"`
}

// OpportunityInput 创建/更新商机的请求体，amount 接受字符串或数字，保留原文避免浮点误差
type OpportunityInput struct {
	Name         Optional[string]          `json:"name"`
	AccountID    Optional[string]          `json:"accountId"`
	Amount       Optional[json.RawMessage] `json:"amount"`
	Stage        Optional[string]          `json:"stage"`
	CloseDate    Optional[string]          `json:"closeDate"`
	CustomFields Optional[map[string]any]  `json:"customFields"`
}

// CloseDateRange 预置的关闭日期区间
type CloseDateRange string

const (
	CloseDateThisWeek    CloseDateRange = "this_week"
	CloseDateThisMonth   CloseDateRange = "this_month"
	CloseDateThisQuarter CloseDateRange = "this_quarter"
	CloseDateThisYear    CloseDateRange = "this_year"
	CloseDateOverdue     CloseDateRange = "overdue"
)

// Valid 是否为已知区间
func (r CloseDateRange) Valid() bool {
	switch r {
	case CloseDateThisWeek, CloseDateThisMonth, CloseDateThisQuarter, CloseDateThisYear, CloseDateOverdue:
		return true
	}
	return false
}

// OpportunityFilter 商机列表过滤条件，金额区间为闭区间
type OpportunityFilter struct {
	AccountID      string
	Stage          string
	AmountMin      *decimal.Decimal
	AmountMax      *decimal.Decimal
	CloseDateRange CloseDateRange
	// Today 计算日期区间的基准日，为零值时取当天
	Today Date
}
