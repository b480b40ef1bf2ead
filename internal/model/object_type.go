package model

import "fmt"

// ObjectType 可定制字段/布局的业务对象
type ObjectType string

const (
	ObjectTypeAccount     ObjectType = "account"
	ObjectTypeContact     ObjectType = "contact"
	ObjectTypeOpportunity ObjectType = "opportunity"
)

// ObjectTypes 所有对象类型，顺序固定
var ObjectTypes = []ObjectType{ObjectTypeAccount, ObjectTypeContact, ObjectTypeOpportunity}

// Valid 是否为已知对象类型
func (t ObjectType) Valid() bool {
	switch t {
	case ObjectTypeAccount, ObjectTypeContact, ObjectTypeOpportunity:
		return true
	}
	return false
}

// ParseObjectType 解析对象类型，未知值返回 ErrInvalidObjectType
func ParseObjectType(s string) (ObjectType, error) {
	t := ObjectType(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidObjectType, s)
	}
	return t, nil
}

// FieldType 字段类型（封闭枚举）
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeNumber   FieldType = "number"
	FieldTypeDate     FieldType = "date"
	FieldTypeBoolean  FieldType = "boolean"
	FieldTypePicklist FieldType = "picklist"
	FieldTypeLookup   FieldType = "lookup"
)

// FieldTypes 所有字段类型
var FieldTypes = []FieldType{
	FieldTypeText,
	FieldTypeNumber,
	FieldTypeDate,
	FieldTypeBoolean,
	FieldTypePicklist,
	FieldTypeLookup,
}

func (t FieldType) Valid() bool {
	for _, ft := range FieldTypes {
		if ft == t {
			return true
		}
	}
	return false
}

// Opportunity stages
const (
	StageProspecting   = "Prospecting"
	StageQualification = "Qualification"
	StageNeedsAnalysis = "Needs Analysis"
	StageProposal      = "Proposal"
	StageNegotiation   = "Negotiation"
	StageClosedWon     = "Closed Won"
	StageClosedLost    = "Closed Lost"
)

// OpportunityStages 阶段选项，按销售流程排序
var OpportunityStages = []string{
	StageProspecting,
	StageQualification,
	StageNeedsAnalysis,
	StageProposal,
	StageNegotiation,
	StageClosedWon,
	StageClosedLost,
}

// ClosedStages 已关闭阶段
var ClosedStages = []string{StageClosedWon, StageClosedLost}

// AccountIndustries 行业选项
var AccountIndustries = []string{"Technology", "Finance", "Healthcare", "Manufacturing", "Retail", "Education", "Other"}
