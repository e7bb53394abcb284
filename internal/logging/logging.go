package logging

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level is a zap level name (debug, info, warn, error).
type Level string

// Style selects the output encoding.
type Style string

const (
	StyleTerminal Style = "terminal"
	StyleLogfmt   Style = "logfmt"
	StyleJSON     Style = "json"
	StyleNoop     Style = "noop"
)

type Config struct {
	Level Level
	Style Style
}

// NewLogger builds a logger writing to stderr. Unknown levels fall back to
// info and unknown styles to terminal.
func NewLogger(cfg *Config) *zap.Logger {
	if cfg == nil {
		cfg = &Config{}
	}
	style := Style(strings.ToLower(string(cfg.Style)))
	if style == StyleNoop {
		return zap.NewNop()
	}

	lvl := zapcore.InfoLevel
	if cfg.Level != "" {
		if l, err := zapcore.ParseLevel(string(cfg.Level)); err == nil {
			lvl = l
		}
	}

	var enc zapcore.Encoder
	switch style {
	case StyleJSON:
		ec := zap.NewProductionEncoderConfig()
		ec.EncodeTime = zapcore.ISO8601TimeEncoder
		enc = zapcore.NewJSONEncoder(ec)
	case StyleLogfmt:
		ec := zap.NewProductionEncoderConfig()
		ec.EncodeTime = zapcore.ISO8601TimeEncoder
		ec.ConsoleSeparator = " "
		enc = zapcore.NewConsoleEncoder(ec)
	default:
		ec := zap.NewDevelopmentEncoderConfig()
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		ec.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		enc = zapcore.NewConsoleEncoder(ec)
	}

	core := zapcore.NewCore(enc, zapcore.Lock(os.Stderr), lvl)
	return zap.New(core, zap.AddCaller())
}
