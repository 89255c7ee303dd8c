package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"serialterm/internal/domain/ports"
)

// ZeroLogger реализует интерфейс ports.Logger поверх zerolog.
type ZeroLogger struct {
	base   zerolog.Logger // без поля component
	logger zerolog.Logger
}

// Options задает вывод и уровень логирования.
type Options struct {
	Output  io.Writer // По умолчанию os.Stderr
	Level   string    // debug, info, warn, error
	Console bool      // Человекочитаемый вывод вместо JSON
}

// NewZeroLogger создает логгер с заданным компонентом.
func NewZeroLogger(component string, opts Options) ports.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	if opts.Console {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.DateTime, NoColor: true}
	}

	base := zerolog.New(out).
		Level(ParseLevel(opts.Level)).
		With().
		Timestamp().
		Logger()

	return &ZeroLogger{
		base:   base,
		logger: base.With().Str("component", component).Logger(),
	}
}

// NewNopLogger возвращает логгер, который ничего не пишет.
func NewNopLogger() ports.Logger {
	return &ZeroLogger{base: zerolog.Nop(), logger: zerolog.Nop()}
}

// ParseLevel переводит строку конфигурации в уровень zerolog.
// Неизвестное значение дает info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// Debug выводит отладочную информацию.
func (l *ZeroLogger) Debug(msg string, args ...interface{}) {
	l.logger.Debug().Msg(format(msg, args))
}

// Info выводит информационные сообщения.
func (l *ZeroLogger) Info(msg string, args ...interface{}) {
	l.logger.Info().Msg(format(msg, args))
}

// Warn выводит предупреждения.
func (l *ZeroLogger) Warn(msg string, args ...interface{}) {
	l.logger.Warn().Msg(format(msg, args))
}

// Error выводит ошибки.
func (l *ZeroLogger) Error(msg string, args ...interface{}) {
	l.logger.Error().Msg(format(msg, args))
}

// Fatal выводит критическую ошибку и завершает программу.
func (l *ZeroLogger) Fatal(msg string, args ...interface{}) {
	l.logger.Fatal().Msg(format(msg, args))
}

// With возвращает дочерний логгер с другим компонентом.
func (l *ZeroLogger) With(component string) ports.Logger {
	return &ZeroLogger{
		base:   l.base,
		logger: l.base.With().Str("component", component).Logger(),
	}
}

func format(msg string, args []interface{}) string {
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}
