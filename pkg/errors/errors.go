package errors

import (
	"errors"
	"strings"
)

// ValidationError 字段校验失败
// Messages 每条对应一个被违反的字段约束，直接返回给调用方
type ValidationError struct {
	Messages []string
}

// NewValidationError 创建校验错误
func NewValidationError(messages ...string) *ValidationError {
	return &ValidationError{Messages: messages}
}

func (e *ValidationError) Error() string {
	return "校验失败: " + strings.Join(e.Messages, "; ")
}

// AsValidation 判断 err 链中是否包含 ValidationError
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
