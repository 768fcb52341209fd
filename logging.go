package sceneedit

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger interface {
	DebugEnabled() bool
	SetDebug(enabled bool)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// DefaultLogger is a Logger over zap. Zap exposes the structured logger the
// scene store writes to.
type DefaultLogger struct {
	level zap.AtomicLevel
	zap   *zap.Logger
	sugar *zap.SugaredLogger
}

type LogConfig struct {
	Debug    bool   `yaml:"debug" toml:"debug"`
	Encoding string `yaml:"encoding" toml:"encoding"` // "console" or "json"
	Prefix   string `yaml:"prefix" toml:"prefix"`
}

func NewLogger(cfg LogConfig) (*DefaultLogger, error) {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if cfg.Debug {
		level.SetLevel(zapcore.DebugLevel)
	}

	encoding := cfg.Encoding
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	switch encoding {
	case "", "console":
		encoding = "console"
	case "json":
		encoderConfig = zap.NewProductionEncoderConfig()
	default:
		return nil, fmt.Errorf("unknown log encoding %q", cfg.Encoding)
	}

	config := zap.Config{
		Level:             level,
		Encoding:          encoding,
		EncoderConfig:     encoderConfig,
		OutputPaths:       []string{"stdout"},
		ErrorOutputPaths:  []string{"stderr"},
		DisableCaller:     true,
		DisableStacktrace: true,
	}
	z, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	if cfg.Prefix != "" {
		z = z.Named(cfg.Prefix)
	}
	return &DefaultLogger{level: level, zap: z, sugar: z.Sugar()}, nil
}

// NewDefaultLogger builds a console logger. It falls back to a no-op zap
// core if the logger cannot be built.
func NewDefaultLogger(prefix string, debug bool) *DefaultLogger {
	l, err := NewLogger(LogConfig{Prefix: prefix, Debug: debug})
	if err != nil {
		z := zap.NewNop()
		return &DefaultLogger{level: zap.NewAtomicLevel(), zap: z, sugar: z.Sugar()}
	}
	return l
}

func (l *DefaultLogger) Zap() *zap.Logger {
	return l.zap
}

func (l *DefaultLogger) DebugEnabled() bool {
	return l.level.Enabled(zapcore.DebugLevel)
}

func (l *DefaultLogger) SetDebug(enabled bool) {
	if enabled {
		l.level.SetLevel(zapcore.DebugLevel)
	} else {
		l.level.SetLevel(zapcore.InfoLevel)
	}
}

func (l *DefaultLogger) Debugf(format string, args ...any) {
	l.sugar.Debugf(format, args...)
}

func (l *DefaultLogger) Infof(format string, args ...any) {
	l.sugar.Infof(format, args...)
}

func (l *DefaultLogger) Warnf(format string, args ...any) {
	l.sugar.Warnf(format, args...)
}

func (l *DefaultLogger) Errorf(format string, args ...any) {
	l.sugar.Errorf(format, args...)
}

func (l *DefaultLogger) Sync() error {
	return l.zap.Sync()
}

// LoggingModule installs a logger as a resource. Logger, when set, is used
// as is; otherwise one is built from Config.
type LoggingModule struct {
	Config LogConfig
	Logger *DefaultLogger
}

func (m LoggingModule) Install(app *App, cmd *Commands) {
	logger := m.Logger
	if logger == nil {
		logger = NewDefaultLogger(m.Config.Prefix, m.Config.Debug)
	}
	app.addResources(logger)
}

// Nop logger and App helper accessor

type nopLogger struct{}

func NewNopLogger() Logger                              { return &nopLogger{} }
func (n *nopLogger) DebugEnabled() bool                { return false }
func (n *nopLogger) SetDebug(enabled bool)             {}
func (n *nopLogger) Debugf(format string, args ...any) {}
func (n *nopLogger) Infof(format string, args ...any)  {}
func (n *nopLogger) Warnf(format string, args ...any)  {}
func (n *nopLogger) Errorf(format string, args ...any) {}

// Logger returns the first Logger resource if present, otherwise a no-op logger.
// Safe to call at any time; never returns nil.
func (app *App) Logger() Logger {
	if app == nil {
		return NewNopLogger()
	}
	if app.resources != nil {
		for _, r := range app.resources {
			if l, ok := r.(Logger); ok {
				return l
			}
		}
	}
	return NewNopLogger()
}
