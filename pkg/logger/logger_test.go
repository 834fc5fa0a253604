package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"coligo-portal/config"
)

func TestNewLogger(t *testing.T) {
	for _, format := range []string{FormatJSON, FormatConsole} {
		l, err := NewLogger(&config.LogConfig{Level: "debug", Format: format})
		if err != nil {
			t.Fatalf("format=%s 初始化失败: %v", format, err)
		}
		l.Debug("ok")
	}
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	if _, err := NewLogger(&config.LogConfig{Level: "loud", Format: FormatJSON}); err == nil {
		t.Error("无效级别应返回错误")
	}
}

func TestNewLogger_InvalidFormat(t *testing.T) {
	if _, err := NewLogger(&config.LogConfig{Level: "info", Format: "xml"}); err == nil {
		t.Error("无效格式应返回错误")
	}
}

func TestBuildConfig_Sampling(t *testing.T) {
	tests := []struct {
		name     string
		sampling bool
		wantNil  bool
	}{
		{"开启", true, false},
		{"关闭", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, format := range []string{FormatJSON, FormatConsole} {
				zapCfg, err := buildConfig(&config.LogConfig{Level: "info", Format: format, Sampling: tt.sampling})
				if err != nil {
					t.Fatalf("format=%s 构建失败: %v", format, err)
				}
				if (zapCfg.Sampling == nil) != tt.wantNil {
					t.Errorf("format=%s Sampling=%v, 期望为 nil=%v", format, zapCfg.Sampling, tt.wantNil)
				}
			}
		})
	}
}

func TestNewLogger_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portal.log")

	l, err := NewLogger(&config.LogConfig{Level: "info", Format: FormatJSON, Output: []string{path}})
	if err != nil {
		t.Fatalf("初始化失败: %v", err)
	}
	l.Info("written")
	_ = l.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("读取日志文件失败: %v", err)
	}
	for _, want := range []string{`"msg":"written"`, `"service":"coligo-portal"`, `"time":`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("日志缺少 %s: %s", want, data)
		}
	}
}
