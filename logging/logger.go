package logging

import (
	"strings"

	"go.uber.org/zap"
)

// Logger is the narrow leveled-logging surface consumed across this
// module; loaders accept this interface rather than *zap.Logger directly
// so callers can substitute a test double.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// zapLogger adapts a *zap.SugaredLogger to Logger.
type zapLogger struct {
	sugared *zap.SugaredLogger
}

// New builds a zap-backed Logger. mode selects zap's production config
// (JSON, info level) or development config (console, debug level);
// anything other than "prod"/"production" is treated as development.
func New(mode string) (Logger, func(), error) {
	var cfg zap.Config
	switch strings.ToLower(mode) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}

	built, err := cfg.Build()
	if err != nil {
		return nil, func() {}, err
	}
	sugar := built.Sugar()
	return &zapLogger{sugared: sugar}, func() { _ = built.Sync() }, nil
}

func (l *zapLogger) Debug(msg string, kv ...interface{}) { l.sugared.Debugw(msg, kv...) }
func (l *zapLogger) Info(msg string, kv ...interface{})  { l.sugared.Infow(msg, kv...) }
func (l *zapLogger) Warn(msg string, kv ...interface{})  { l.sugared.Warnw(msg, kv...) }
func (l *zapLogger) Error(msg string, kv ...interface{}) { l.sugared.Errorw(msg, kv...) }

// Nop is a Logger that discards everything, useful in tests and library
// call sites that have not wired a real logger yet.
type Nop struct{}

func (Nop) Debug(string, ...interface{}) {}
func (Nop) Info(string, ...interface{})  {}
func (Nop) Warn(string, ...interface{})  {}
func (Nop) Error(string, ...interface{}) {}
