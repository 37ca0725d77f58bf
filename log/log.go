package log

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	ENC_JSON    = "json"
	ENC_CONSOLE = "console"
)

// 日志配置
type Config struct {
	Level       string   `yaml:"level"`    // debug/info/warn/error
	Encoding    string   `yaml:"encoding"` // json/console
	OutputPaths []string `yaml:"output_paths"`
	Development bool     `yaml:"development"`
}

func parseLevel(s string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// 按配置构建zap日志器，每个组件持有自己的日志器，不设全局单例
func New(c Config) (logger *zap.Logger, err error) {
	zc := zap.NewProductionConfig()
	if c.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(parseLevel(c.Level))
	switch c.Encoding {
	case ENC_CONSOLE:
		zc.Encoding = ENC_CONSOLE
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	case ENC_JSON:
		zc.Encoding = ENC_JSON
	}
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if len(c.OutputPaths) > 0 {
		zc.OutputPaths = c.OutputPaths
	}
	logger, err = zc.Build()
	return
}

// 不输出任何内容的日志器，作为各组件默认值
func Nop() *zap.Logger {
	return zap.NewNop()
}

// 取非空日志器
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
