// Package logger собирает консольный zap-логгер с цветными уровнями.
// Вывод идет в stdout либо в файл, указанный в конфигурации.
package logger

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/purushoth411/callback-sub000/internal/config"
)

const logFilePermissions = 0o644

var levelColors = map[zapcore.Level]func(format string, a ...interface{}) string{
	zapcore.DebugLevel: color.MagentaString,
	zapcore.InfoLevel:  color.BlueString,
	zapcore.WarnLevel:  color.YellowString,
	zapcore.ErrorLevel: color.RedString,
}

func New(cfg config.Logger) (*zap.Logger, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	sink, err := openSink(cfg.Sink)
	if err != nil {
		return nil, err
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:       "time",
		LevelKey:      "level",
		NameKey:       "logger",
		CallerKey:     "caller",
		MessageKey:    "msg",
		StacktraceKey: "stacktrace",
		LineEnding:    zapcore.DefaultLineEnding,
		EncodeLevel:   encodeColoredLevel,
		EncodeTime:    zapcore.TimeEncoderOfLayout("[2006-01-02 15:04:05]"),
		EncodeCaller:  zapcore.ShortCallerEncoder,
		EncodeName:    zapcore.FullNameEncoder,
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), sink, level)
	return zap.New(core, zap.AddCaller()), nil
}

func parseLevel(raw string) (zapcore.Level, error) {
	switch raw {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("неизвестный уровень логирования: %q", raw)
	}
}

func openSink(sink string) (zapcore.WriteSyncer, error) {
	if sink == "" || sink == "stdout" {
		return os.Stdout, nil
	}

	file, err := os.OpenFile(sink, os.O_WRONLY|os.O_CREATE|os.O_APPEND, logFilePermissions)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть файл логов %s: %w", sink, err)
	}
	return zapcore.AddSync(file), nil
}

func encodeColoredLevel(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	if colorize, ok := levelColors[l]; ok {
		enc.AppendString(colorize(l.CapitalString() + ":"))
		return
	}
	enc.AppendString(l.CapitalString() + ":")
}
