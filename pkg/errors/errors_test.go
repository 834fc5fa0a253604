package errors

import (
	"fmt"
	"testing"
)

func TestAsValidation(t *testing.T) {
	wrapped := fmt.Errorf("创建公告: %w", NewValidationError("Please add a title", "Please add content"))

	ve, ok := AsValidation(wrapped)
	if !ok {
		t.Fatal("应能从包装错误中取出 ValidationError")
	}
	if len(ve.Messages) != 2 {
		t.Errorf("期望 2 条消息，实际=%d", len(ve.Messages))
	}

	if _, ok := AsValidation(fmt.Errorf("boom")); ok {
		t.Error("普通错误不应被识别为 ValidationError")
	}
}
