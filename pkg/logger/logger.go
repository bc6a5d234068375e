// Package logger wraps zap behind package-level helpers. Before Init runs
// all helpers are no-ops, so library code and tests can log unconditionally.
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kruczeks/collectd/pkg/config"
)

var (
	mu         sync.RWMutex
	baseLogger = zap.NewNop()
	initOnce   sync.Once
)

// Init builds the process logger: a console core on stdout plus a JSON core
// writing to daily-rotated files under cfg.Path. Safe to call once; later
// calls are ignored.
func Init(cfg config.LogConfig) error {
	var err error
	initOnce.Do(func() {
		level := parseLevel(cfg.Level)

		if err = os.MkdirAll(cfg.Path, 0o755); err != nil {
			return
		}

		writer, wErr := rotatelogs.New(
			filepath.Join(cfg.Path, "collectd-%Y%m%d.log"),
			rotatelogs.WithMaxAge(time.Duration(cfg.MaxAge)*24*time.Hour),
			rotatelogs.WithRotationTime(24*time.Hour),
			rotatelogs.WithRotationSize(int64(cfg.MaxSize)*1024*1024),
		)
		if wErr != nil {
			err = wErr
			return
		}

		consoleCfg := zap.NewDevelopmentEncoderConfig()
		consoleCfg.ConsoleSeparator = " "
		consoleCfg.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString(t.Format("2006-01-02 15:04:05.000 -07:00"))
		}
		consoleCfg.EncodeCaller = func(c zapcore.EntryCaller, enc zapcore.PrimitiveArrayEncoder) {
			rel := filepath.Join(filepath.Base(filepath.Dir(c.File)), filepath.Base(c.File))
			enc.AppendString(fmt.Sprintf("%s:%d", rel, c.Line))
		}

		jsonCfg := zap.NewProductionEncoderConfig()
		jsonCfg.TimeKey = "timestamp"
		jsonCfg.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString(t.Format("2006-01-02 15:04:05.000 -07:00"))
		}
		jsonCfg.EncodeLevel = zapcore.LowercaseLevelEncoder

		var consoleEncoder zapcore.Encoder
		if cfg.Format == "json" {
			consoleEncoder = zapcore.NewJSONEncoder(jsonCfg)
		} else {
			consoleEncoder = zapcore.NewConsoleEncoder(consoleCfg)
		}

		core := zapcore.NewTee(
			zapcore.NewCore(consoleEncoder, zapcore.AddSync(os.Stdout), level),
			zapcore.NewCore(zapcore.NewJSONEncoder(jsonCfg), zapcore.AddSync(writer), level),
		)

		l := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1), zap.AddStacktrace(zapcore.ErrorLevel))

		mu.Lock()
		baseLogger = l
		mu.Unlock()
	})
	return err
}

func parseLevel(s string) zapcore.Level {
	switch strings.ToLower(s) {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func get() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return baseLogger
}

func Debug(msg string, fields ...zap.Field) { get().Debug(msg, fields...) }
func Info(msg string, fields ...zap.Field)  { get().Info(msg, fields...) }
func Warn(msg string, fields ...zap.Field)  { get().Warn(msg, fields...) }
func Error(msg string, fields ...zap.Field) { get().Error(msg, fields...) }
func Fatal(msg string, fields ...zap.Field) { get().Fatal(msg, fields...) }

// Sync flushes buffered log entries. Called on shutdown.
func Sync() error {
	return get().Sync()
}

// GetLogger exposes the underlying zap logger for components that take a
// *zap.Logger dependency.
func GetLogger() *zap.Logger {
	// AddCallerSkip(1) above compensates for the package-level helpers;
	// direct users want the caller reported as themselves.
	return get().WithOptions(zap.AddCallerSkip(-1))
}
