package model

// 内置列按字段名读取，null 列返回 nil

func stringOrNil(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

func (a *Account) ObjectType() ObjectType { return ObjectTypeAccount }

func (a *Account) CustomFieldValues() map[string]interface{} { return a.CustomFields }

func (a *Account) BuiltinValue(fieldName string) (interface{}, bool) {
	switch fieldName {
	case "name":
		return a.Name, true
	case "industry":
		return stringOrNil(a.Industry), true
	case "country":
		return stringOrNil(a.Country), true
	case "phone":
		return stringOrNil(a.Phone), true
	case "website":
		return stringOrNil(a.Website), true
	}
	return nil, false
}

func (c *Contact) ObjectType() ObjectType { return ObjectTypeContact }

func (c *Contact) CustomFieldValues() map[string]interface{} { return c.CustomFields }

func (c *Contact) BuiltinValue(fieldName string) (interface{}, bool) {
	switch fieldName {
	case "firstName":
		return c.FirstName, true
	case "lastName":
		return c.LastName, true
	case "email":
		return stringOrNil(c.Email), true
	case "phone":
		return stringOrNil(c.Phone), true
	case "accountId":
		return stringOrNil(c.AccountID), true
	}
	return nil, false
}

func (o *Opportunity) ObjectType() ObjectType { return ObjectTypeOpportunity }

func (o *Opportunity) CustomFieldValues() map[string]interface{} { return o.CustomFields }

func (o *Opportunity) BuiltinValue(fieldName string) (interface{}, bool) {
	switch fieldName {
	case "name":
		return o.Name, true
	case "accountId":
		return o.AccountID, true
	case "amount":
		if !o.Amount.Valid {
			return nil, true
		}
		return o.Amount.Decimal, true
	case "stage":
		return o.Stage, true
	case "closeDate":
		if o.CloseDate == nil {
			return nil, true
		}
		return *o.CloseDate, true
	}
	return nil, false
}

// ValuesRecord 尚未保存的记录（表单提交的值），内置与自定义字段混在同一个 map 中
type ValuesRecord struct {
	Type   ObjectType
	Values map[string]interface{}
}

func (r ValuesRecord) ObjectType() ObjectType { return r.Type }

func (r ValuesRecord) BuiltinValue(fieldName string) (interface{}, bool) {
	if !IsBuiltinField(r.Type, fieldName) {
		return nil, false
	}
	return r.Values[fieldName], true
}

func (r ValuesRecord) CustomFieldValues() map[string]interface{} {
	custom := make(map[string]interface{}, len(r.Values))
	for k, v := range r.Values {
		if !IsBuiltinField(r.Type, k) {
			custom[k] = v
		}
	}
	return custom
}
