package service

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"itam-go/internal/apperr"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// storeError 将数据库错误转换为业务错误
func storeError(err error, notFound string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.Wrap(apperr.KindNotFound, notFound, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperr.Wrap(apperr.KindConflict, "A record with the same unique value already exists.", err)
	default:
		return fmt.Errorf("数据库操作失败: %w", err)
	}
}

// parseDate 解析 YYYY-MM-DD 日期
func parseDate(field, value string) (datatypes.Date, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return datatypes.Date{}, apperr.Wrap(apperr.KindValidation,
			fmt.Sprintf("%s must be a date in YYYY-MM-DD format.", field), err)
	}
	return datatypes.Date(t), nil
}

// notBlank 更新请求中必填字段不能置空
func notBlank(field string, value *string) error {
	if value != nil && *value == "" {
		return apperr.Validation(fmt.Sprintf("%s may not be blank.", field))
	}
	return nil
}

// firstError 返回第一个非 nil 错误
func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// mustExist 引用的记录必须存在, 否则返回 ValidationError
func mustExist(field string, exists bool, err error) error {
	if err != nil {
		return fmt.Errorf("检查%s失败: %w", field, err)
	}
	if !exists {
		return apperr.Validation(fmt.Sprintf("%s: referenced object does not exist.", field))
	}
	return nil
}

func idKey(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
