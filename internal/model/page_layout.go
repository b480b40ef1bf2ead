package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PageLayoutSection 布局中的一个分组
type PageLayoutSection struct {
	Title   string   `json:"title" validate:"required,max=255"`
	Columns int      `json:"columns" validate:"min=1,max=3"`
	Fields  []string `json:"fields" validate:"dive,required"`
}

// PageLayout 每个对象类型唯一的页面布局，整体替换
type PageLayout struct {
	ID         string                                  `gorm:"type:varchar(36);primaryKey" json:"id"`
	ObjectType ObjectType                              `gorm:"type:varchar(50);not null;uniqueIndex" json:"objectType"`
	Sections   datatypes.JSONType[[]PageLayoutSection] `gorm:"not null" json:"sections"`
	CreatedAt  time.Time                               `json:"createdAt"`
	UpdatedAt  time.Time                               `json:"updatedAt"`
}

// TableName 指定表名
func (PageLayout) TableName() string {
	return "page_layouts"
}

func (p *PageLayout) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// SectionList 取出分组列表
func (p *PageLayout) SectionList() []PageLayoutSection {
	sections := p.Sections.Data()
	if sections == nil {
		return []PageLayoutSection{}
	}
	return sections
}

// NewPageLayout 构造布局
func NewPageLayout(objectType ObjectType, sections []PageLayoutSection) *PageLayout {
	return &PageLayout{
		ObjectType: objectType,
		Sections:   datatypes.NewJSONType(sections),
	}
}

// SectionInput 布局分组请求体，columns 缺省为 2
type SectionInput struct {
	Title   string   `json:"title" validate:"required,max=255"`
	Columns *int     `json:"columns" validate:"omitempty,min=1,max=3"`
	Fields  []string `json:"fields" validate:"dive,required"`
}

// UpsertPageLayoutRequest 整体替换布局
type UpsertPageLayoutRequest struct {
	Sections []SectionInput `json:"sections" validate:"required,dive"`
}

// ToSections 补齐默认值
func (r UpsertPageLayoutRequest) ToSections() []PageLayoutSection {
	sections := make([]PageLayoutSection, 0, len(r.Sections))
	for _, s := range r.Sections {
		columns := 2
		if s.Columns != nil {
			columns = *s.Columns
		}
		fields := s.Fields
		if fields == nil {
			fields = []string{}
		}
		sections = append(sections, PageLayoutSection{Title: s.Title, Columns: columns, Fields: fields})
	}
	return sections
}

// PageLayoutView 带是否已持久化标记的布局
type PageLayoutView struct {
	ObjectType ObjectType          `json:"objectType"`
	Sections   []PageLayoutSection `json:"sections"`
	Persisted  bool                `json:"persisted"`
	UpdatedAt  *time.Time          `json:"updatedAt,omitempty"`
}
