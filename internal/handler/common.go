package handler

import (
	"errors"
	"io"
	"strconv"

	"itam-go/internal/apperr"

	"github.com/gin-gonic/gin"
)

// bindJSON 解析请求体, 空请求体按空对象处理
// 字段校验由服务层完成
func bindJSON(c *gin.Context, obj interface{}) error {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return nil
	}
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		return apperr.Wrap(apperr.KindValidation, "Malformed JSON payload.", err)
	}
	return nil
}

// uintParam 解析路径中的数字ID, 非法ID视为不存在
func uintParam(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.NotFound("Not found.")
	}
	return uint(id), nil
}
