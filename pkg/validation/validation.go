package validation

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	apperrors "coligo-portal/pkg/errors"
)

// Messenger 由模型实现，提供 "字段.规则" → 提示文案 的映射
type Messenger interface {
	ValidationMessages() map[string]string
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Struct 按 validate 标签校验模型
// 失败时返回 *apperrors.ValidationError，每个被违反的约束一条消息
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	var table map[string]string
	if m, ok := v.(Messenger); ok {
		table = m.ValidationMessages()
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, message(table, fe))
	}
	return apperrors.NewValidationError(messages...)
}

func message(table map[string]string, fe validator.FieldError) string {
	if msg, ok := table[fe.StructField()+"."+fe.Tag()]; ok {
		return msg
	}
	if fe.Param() != "" {
		return fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param())
	}
	return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
}
