// Package validate 封装 go-playground/validator，错误统一转换为按字段归集的 ValidationError
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/fisker/crm-backend/internal/model"
	"github.com/go-playground/validator/v10"
)

var identifierPattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)

var (
	once     sync.Once
	instance *validator.Validate
)

// Validator 返回共享实例
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("identifier", func(fl validator.FieldLevel) bool {
			return IsIdentifier(fl.Field().String())
		})
		instance = v
	})
	return instance
}

// IsIdentifier 字母开头，仅含字母数字下划线
func IsIdentifier(s string) bool {
	return identifierPattern.MatchString(s)
}

// Struct 校验结构体
func Struct(s interface{}) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}
	return translate(err)
}

// Email 校验邮箱格式
func Email(s string) bool {
	return Validator().Var(s, "email") == nil
}

// UUID 校验 UUID 格式
func UUID(s string) bool {
	return Validator().Var(s, "uuid") == nil
}

func translate(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	result := model.NewValidationError()
	for _, fe := range fieldErrs {
		result.Add(fieldPath(fe), message(fe))
	}
	return result
}

// fieldPath 去掉最外层结构体名：CreateFieldDefinitionRequest.fieldName -> fieldName
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Required"
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "identifier":
		return "Must start with a letter and contain only letters, digits and underscores"
	case "email":
		return "Invalid email"
	case "uuid":
		return "Invalid uuid"
	case "min":
		return fmt.Sprintf("Must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s", fe.Param())
	}
	return fmt.Sprintf("Failed %s validation", fe.Tag())
}
