package sysutil

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var Log *zap.Logger
var LogSugar *zap.SugaredLogger

// InitLogger sets up the process-wide console logger. Library packages
// derive their loggers from Log; nothing else should build a zap core.
func InitLogger() {
	config := zap.NewDevelopmentConfig()
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(config.EncoderConfig),
		zapcore.AddSync(os.Stdout),
		zap.DebugLevel,
	)
	Log = zap.New(core, zap.AddCaller())
	LogSugar = Log.Sugar()
}
