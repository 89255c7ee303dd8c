// Package sender выполняет однократную отправку текста в порт.
package sender

import (
	"errors"
	"fmt"

	"serialterm/internal/domain/models"
	"serialterm/internal/domain/ports"
	"serialterm/internal/infrastructure/codec"
	"serialterm/internal/infrastructure/logger"
)

// Writer — то, во что пишет отправка (обычно *session.Session, возможно nil).
type Writer interface {
	Write(p []byte) error
}

// Sender кодирует текст и пишет его в сессию. Каждая попытка оставляет
// ровно одну строку в выводе.
type Sender struct {
	codec *codec.Codec
	out   func(line string)
	log   ports.Logger
}

// New создает Sender. out получает строки трассировки ("Sent: ..." или ошибку).
func New(c *codec.Codec, out func(line string), log ports.Logger) *Sender {
	if c == nil {
		c = codec.MustNew(codec.UTF8)
	}
	if out == nil {
		out = func(string) {}
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Sender{codec: c, out: out, log: log}
}

// Send отправляет payload. Ошибка возвращается для вызывающего кода,
// но уже отражена в выводе, и обрабатывать ее повторно не нужно.
func (s *Sender) Send(w Writer, payload string) error {
	if payload == "" {
		s.out("No data to send.")
		return models.ErrEmptyPayload
	}

	data, err := s.codec.Encode(payload)
	if err != nil {
		s.log.Warn("encode payload: %v", err)
		s.out(fmt.Sprintf("Encoding error: %v", err))
		return err
	}

	if w == nil {
		return s.report(models.ErrNotOpen)
	}
	if err := w.Write(data); err != nil {
		return s.report(err)
	}

	s.log.Debug("sent %q", payload)
	s.out("Sent: " + payload)
	return nil
}

func (s *Sender) report(err error) error {
	var ioErr *models.IOError
	switch {
	case errors.Is(err, models.ErrNotOpen):
		s.out("Serial port is not open.")
	case errors.As(err, &ioErr):
		s.out(fmt.Sprintf("Serial error: %v", ioErr.Err))
	default:
		s.out(fmt.Sprintf("Unexpected error: %v", err))
	}
	s.log.Warn("send failed: %v", err)
	return err
}
