package model

import "gorm.io/datatypes"

// 内置字段，顺序即展示顺序
var builtinFields = map[ObjectType][]FieldDefinition{
	ObjectTypeAccount: {
		{FieldName: "name", Label: "Account Name", FieldType: FieldTypeText, Required: true},
		{FieldName: "industry", Label: "Industry", FieldType: FieldTypePicklist, Options: AccountIndustries},
		{FieldName: "country", Label: "Country", FieldType: FieldTypeText},
		{FieldName: "phone", Label: "Phone", FieldType: FieldTypeText},
		{FieldName: "website", Label: "Website", FieldType: FieldTypeText},
	},
	ObjectTypeContact: {
		{FieldName: "firstName", Label: "First Name", FieldType: FieldTypeText, Required: true},
		{FieldName: "lastName", Label: "Last Name", FieldType: FieldTypeText, Required: true},
		{FieldName: "email", Label: "Email", FieldType: FieldTypeText},
		{FieldName: "phone", Label: "Phone", FieldType: FieldTypeText},
		{FieldName: "accountId", Label: "Account", FieldType: FieldTypeLookup},
	},
	ObjectTypeOpportunity: {
		{FieldName: "name", Label: "Opportunity Name", FieldType: FieldTypeText, Required: true},
		{FieldName: "accountId", Label: "Account", FieldType: FieldTypeLookup, Required: true},
		{FieldName: "amount", Label: "Amount", FieldType: FieldTypeNumber},
		{FieldName: "stage", Label: "Stage", FieldType: FieldTypePicklist, Required: true, Options: OpportunityStages},
		{FieldName: "closeDate", Label: "Close Date", FieldType: FieldTypeDate},
	},
}

var defaultSectionTitles = map[ObjectType]string{
	ObjectTypeAccount:     "Account Information",
	ObjectTypeContact:     "Contact Information",
	ObjectTypeOpportunity: "Opportunity Information",
}

// BuiltinFields 返回内置字段描述的副本（isCustom=false，sortOrder 从1开始）
func BuiltinFields(objectType ObjectType) []FieldDefinition {
	defs := builtinFields[objectType]
	out := make([]FieldDefinition, 0, len(defs))
	for i, def := range defs {
		f := def
		f.ObjectType = objectType
		f.IsCustom = false
		f.SortOrder = i + 1
		f.Options = append(datatypes.JSONSlice[string]{}, def.Options...)
		f.Validations = datatypes.JSONMap{}
		out = append(out, f)
	}
	return out
}

// IsBuiltinField 是否为内置字段名
func IsBuiltinField(objectType ObjectType, fieldName string) bool {
	for _, f := range builtinFields[objectType] {
		if f.FieldName == fieldName {
			return true
		}
	}
	return false
}

// DefaultLayoutSections 默认布局：一个两列分组，包含全部内置字段
func DefaultLayoutSections(objectType ObjectType) []PageLayoutSection {
	fields := make([]string, 0, len(builtinFields[objectType]))
	for _, f := range builtinFields[objectType] {
		fields = append(fields, f.FieldName)
	}
	return []PageLayoutSection{{Title: defaultSectionTitles[objectType], Columns: 2, Fields: fields}}
}
