// internal/logger/logger.go
//
// Structured JSON logger (Zap + Lumberjack).
//
// Context
// -------
// Landlord writes lifecycle and error events to `<root>/logs/landlord.log`
// as JSON.  When running in an interactive TTY the same events are teed,
// colorized, to stdout.  Rotation, compression, and retention are handled
// by Lumberjack; no external log-rotate job is required.
//
// The returned SugaredLogger is what gets threaded explicitly into the
// provider, resolver, and landlord packages — the core never reaches for
// hidden global logging state.  It is also installed as the zap global so
// stray zap.S() calls during early boot still land somewhere sensible.
//
// Usage
// -----
//
//	log, err := logger.New(cfg.Paths.Root, runningInTTY())
//	if err != nil { … }
//	log.Infow("tenants resolved", "count", n)
//
// Notes
// -----
// • ISO-8601 timestamps, lowercase levels.
// • LANDLORD_LOG_LEVEL=debug switches both sinks to debug.

package logger

import (
	"os"
	"path/filepath"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a *zap.SugaredLogger writing JSON to <rootDir>/logs.  With
// tee == true a colored console core is attached as well.
func New(rootDir string, tee bool) (*zap.SugaredLogger, error) {
	logDir := filepath.Join(rootDir, "logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, err
	}

	fileSink := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, "landlord.log"),
		MaxSize:    25, // MB
		MaxBackups: 5,
		MaxAge:     30, // days
		Compress:   true,
	}

	level := zap.InfoLevel
	if os.Getenv("LANDLORD_LOG_LEVEL") == "debug" {
		level = zap.DebugLevel
	}

	encCfg := zapcore.EncoderConfig{
		TimeKey:      "ts",
		LevelKey:     "level",
		MessageKey:   "msg",
		CallerKey:    "caller",
		EncodeTime:   zapcore.ISO8601TimeEncoder,
		EncodeLevel:  zapcore.LowercaseLevelEncoder,
		EncodeCaller: zapcore.ShortCallerEncoder,
	}

	cores := []zapcore.Core{
		zapcore.NewCore(
			zapcore.NewJSONEncoder(encCfg),
			zapcore.AddSync(fileSink),
			level,
		),
	}
	if tee {
		consoleEnc := encCfg
		consoleEnc.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(consoleEnc),
			zapcore.AddSync(os.Stdout),
			level,
		))
	}

	z := zap.New(
		zapcore.NewTee(cores...),
		zap.ErrorOutput(zapcore.AddSync(fileSink)),
	).Sugar()

	zap.ReplaceGlobals(z.Desugar())

	z.Infow("logger online", "tee", tee, "level", level.String())
	return z, nil
}
