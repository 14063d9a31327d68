// Package logger 封装 zerolog.Logger，提供 docsite 各包使用的构造函数。
package logger

import (
	"io"
	"os"
	"runtime"

	"github.com/rs/zerolog"
)

// Logger 内嵌 zerolog.Logger，可直接使用完整的 zerolog API。
type Logger struct {
	zerolog.Logger
}

// New 返回输出到 stdout、带 role 字段的 JSON 日志器。
func New(role string) *Logger {
	return NewWithWriter(role, os.Stdout)
}

// NewWithWriter 同 New，但指定输出目标。
func NewWithWriter(role string, w io.Writer) *Logger {
	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		return runtime.FuncForPC(pc).Name()
	}
	zerolog.CallerFieldName = "func"

	l := zerolog.New(w).With().
		Str("role", role).
		Timestamp().
		Caller().
		Logger()
	return &Logger{l}
}

// SetLevel 解析 level（"debug"、"info" 等）并全局生效。
func SetLevel(level string) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(lvl)
	return nil
}

// Nop 丢弃所有日志，用于测试。
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}

// Child 返回带 component 字段的子日志器。
func (l *Logger) Child(component string) *Logger {
	return &Logger{l.With().Str("component", component).Logger()}
}
