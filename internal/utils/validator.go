package utils

import (
	"fmt"
	"reflect"
	"strings"

	"itam-go/internal/apperr"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

// InitValidator 初始化验证器
func InitValidator() {
	validate = validator.New()

	// 错误信息使用 JSON 字段名
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	// 注册自定义验证函数
	validate.RegisterValidation("username", validateUsername)
	validate.RegisterValidation("telephone", validateTelephone)
}

// GetValidator 获取验证器实例
func GetValidator() *validator.Validate {
	if validate == nil {
		InitValidator()
	}
	return validate
}

// validateUsername 验证用户名
func validateUsername(fl validator.FieldLevel) bool {
	username := fl.Field().String()
	if len(username) < 3 || len(username) > 150 {
		return false
	}
	for _, r := range username {
		if !(r == '_' || r == '.' || r == '@' || r == '+' || r == '-' ||
			(r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')) {
			return false
		}
	}
	return true
}

// validateTelephone 电话号码只能包含数字
func validateTelephone(fl validator.FieldLevel) bool {
	return IsDigits(fl.Field().String())
}

// IsDigits 非空且全部为数字
func IsDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ValidateStruct 验证结构体, 失败时返回 ValidationError
func ValidateStruct(s interface{}) error {
	v := GetValidator()
	if err := v.Struct(s); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// formatValidationError 格式化验证错误
func formatValidationError(err error) error {
	var messages []string

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			field := e.Field()
			param := e.Param()

			var message string
			switch e.Tag() {
			case "required":
				message = fmt.Sprintf("%s is required.", field)
			case "min":
				message = fmt.Sprintf("%s must be at least %s.", field, param)
			case "max":
				message = fmt.Sprintf("%s must be at most %s.", field, param)
			case "email":
				message = fmt.Sprintf("%s must be a valid email address.", field)
			case "oneof":
				message = fmt.Sprintf("%s must be one of: %s.", field, param)
			case "datetime":
				message = fmt.Sprintf("%s must be a date in YYYY-MM-DD format.", field)
			case "uuid":
				message = fmt.Sprintf("%s must be a valid UUID.", field)
			case "telephone":
				message = "Telephone number must contain only digits."
			case "username":
				message = fmt.Sprintf("%s may only contain letters, digits and @/./+/-/_ (3-150 characters).", field)
			default:
				message = fmt.Sprintf("%s failed validation: %s.", field, e.Tag())
			}

			messages = append(messages, message)
		}
	}

	if len(messages) > 0 {
		return apperr.Wrap(apperr.KindValidation, strings.Join(messages, " "), err)
	}

	return apperr.Wrap(apperr.KindValidation, "invalid request payload", err)
}
