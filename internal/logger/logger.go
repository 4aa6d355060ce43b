package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a JSON logger on stdout. level is one of debug, info, warn,
// error; debug forces the debug level regardless of level.
func New(level string, debug bool) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}
	if debug {
		lvl = zapcore.DebugLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encCfg),
		zapcore.Lock(os.Stdout),
		lvl,
	)

	return zap.New(core, zap.AddCaller()), nil
}

// Flush writes out buffered entries. Sync errors on stdout are expected on
// some platforms and are ignored.
func Flush(l *zap.Logger) {
	_ = l.Sync()
}
