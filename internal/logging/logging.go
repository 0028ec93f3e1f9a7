// Package logging builds the zap logger shared by the server and CLI.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/skovmand/advent-of-code-2017/internal/config"
)

const logFilename = "balance.log"

// New returns a logger configured from conf. File output rotates through
// lumberjack.
func New(conf config.LogConf) (*zap.Logger, error) {
	var ws zapcore.WriteSyncer
	switch conf.Output {
	case "", "stdout":
		ws = zapcore.Lock(os.Stdout)
	case "stderr":
		ws = zapcore.Lock(os.Stderr)
	case "file":
		if conf.Path == "" {
			return nil, fmt.Errorf("log path is required when output is 'file'")
		}
		ws = zapcore.AddSync(&lumberjack.Logger{
			Filename:   filepath.Join(conf.Path, logFilename),
			MaxSize:    conf.MaxSizeMB,
			MaxBackups: conf.MaxBackups,
			MaxAge:     conf.MaxAgeDays,
			Compress:   true,
		})
	default:
		return nil, fmt.Errorf("unknown log output %q", conf.Output)
	}

	core := zapcore.NewCore(encoder(conf.Encoding), ws, ParseLevel(conf.Level))
	return zap.New(core, zap.AddCaller()), nil
}

func encoder(kind string) zapcore.Encoder {
	ec := zap.NewProductionEncoderConfig()
	ec.TimeKey = "time"
	ec.MessageKey = "msg"
	ec.EncodeTime = timeEncoder
	ec.EncodeDuration = zapcore.MillisDurationEncoder
	ec.EncodeCaller = zapcore.ShortCallerEncoder
	if kind == "json" {
		return zapcore.NewJSONEncoder(ec)
	}
	ec.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewConsoleEncoder(ec)
}

func timeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("2006-01-02 15:04:05"))
}

// ParseLevel converts a case-insensitive level name, defaulting to info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return zapcore.DebugLevel
	case "WARN", "WARNING":
		return zapcore.WarnLevel
	case "ERROR":
		return zapcore.ErrorLevel
	}
	return zapcore.InfoLevel
}
