package session

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"serialterm/internal/domain/models"
)

// readLoop опрашивает порт, пока сессия активна. При любом выходе
// порт закрывается ровно один раз и слушатель получает OnClosed.
func (s *Session) readLoop() {
	var ioErr *models.IOError

	defer func() {
		if r := recover(); r != nil {
			ioErr = &models.IOError{Op: "read", Err: fmt.Errorf("reader panic: %v", r)}
		}
		s.release()

		var closeErr error
		if ioErr != nil {
			s.listener.OnNotice(fmt.Sprintf("Serial error: %v", ioErr.Err))
			closeErr = ioErr
		}
		s.listener.OnClosed(closeErr)
		close(s.done)
	}()

	for !s.stopping() {
		n, err := s.handle.BytesAvailable()
		if err != nil {
			ioErr = s.readFailure(err)
			return
		}
		if n == 0 {
			if !s.sleep() {
				return
			}
			continue
		}

		raw, err := s.handle.ReadLine()
		if err != nil {
			ioErr = s.readFailure(err)
			return
		}
		s.deliver(raw)
	}
}

// readFailure превращает ошибку транспорта в IOError. Ошибка, возникшая
// уже после запроса остановки, считается штатным завершением.
func (s *Session) readFailure(err error) *models.IOError {
	if s.stopping() {
		return nil
	}
	s.log.Error("read from %s failed: %v", s.cfg.PortName, err)
	return &models.IOError{Op: "read", Err: err}
}

func (s *Session) deliver(raw []byte) {
	text, err := s.codec.Decode(raw)
	if err != nil {
		s.log.Warn("%v", err)
		s.listener.OnNotice(fmt.Sprintf("Decode error: %v", err))
		return
	}

	rec := models.ReceivedRecord{
		Timestamp: s.clock(),
		Text:      strings.TrimRightFunc(text, unicode.IsSpace),
	}
	count := s.counter.Inc()
	s.listener.OnRecord(rec, count)
}

// sleep ждет pollInterval; false означает, что запрошена остановка.
func (s *Session) sleep() bool {
	t := time.NewTimer(s.pollInterval)
	defer t.Stop()

	select {
	case <-s.stop:
		return false
	case <-t.C:
		return true
	}
}
