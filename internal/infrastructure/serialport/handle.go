// Package serialport реализует ports.Transport поверх go.bug.st/serial и tarm/serial,
// а также содержит тестовый транспорт в памяти.
package serialport

import (
	"bytes"
	"errors"
	"io"
	"unicode/utf8"
)

// MaxLineLength ограничивает строку без терминатора: более длинная выдается частями.
const MaxLineLength = 4096

// lineHandle добавляет к порту с таймаутом чтения буфер и построчное чтение.
// Read порта по таймауту возвращает 0 байт (tarm на POSIX при этом отдает io.EOF).
type lineHandle struct {
	rw           io.ReadWriteCloser
	eofIsTimeout bool

	pending []byte // читается только горутиной чтения
	scratch []byte
}

func newLineHandle(rw io.ReadWriteCloser, eofIsTimeout bool) *lineHandle {
	return &lineHandle{
		rw:           rw,
		eofIsTimeout: eofIsTimeout,
		scratch:      make([]byte, 256),
	}
}

// fill выполняет одно чтение и возвращает количество полученных байт.
func (h *lineHandle) fill() (int, error) {
	n, err := h.rw.Read(h.scratch)
	if n > 0 {
		h.pending = append(h.pending, h.scratch[:n]...)
	}
	if err != nil {
		if n == 0 && h.eofIsTimeout && errors.Is(err, io.EOF) {
			return 0, nil
		}
		return n, err
	}
	return n, nil
}

func (h *lineHandle) BytesAvailable() (int, error) {
	if len(h.pending) == 0 {
		if _, err := h.fill(); err != nil {
			return 0, err
		}
	}
	return len(h.pending), nil
}

func (h *lineHandle) ReadLine() ([]byte, error) {
	for {
		if i := bytes.IndexByte(h.pending, '\n'); i >= 0 {
			return h.take(i + 1), nil
		}
		if len(h.pending) >= MaxLineLength {
			return h.take(h.boundary(MaxLineLength)), nil
		}

		n, err := h.fill()
		if err != nil {
			return nil, err
		}
		if n == 0 {
			// Таймаут: отдаем то, что успели принять
			return h.take(h.boundary(len(h.pending))), nil
		}
	}
}

// boundary уменьшает n так, чтобы pending[:n] не обрывался внутри символа UTF-8.
// Незавершенный хвост остается в буфере до следующего чтения. Если весь
// буфер состоит из незавершенной последовательности, n не меняется.
func (h *lineHandle) boundary(n int) int {
	start := n - 1
	for start > 0 && n-start < utf8.UTFMax && !utf8.RuneStart(h.pending[start]) {
		start--
	}
	if start <= 0 || !utf8.RuneStart(h.pending[start]) || utf8.FullRune(h.pending[start:n]) {
		return n
	}
	return start
}

func (h *lineHandle) take(n int) []byte {
	line := make([]byte, n)
	copy(line, h.pending[:n])
	rest := copy(h.pending, h.pending[n:])
	h.pending = h.pending[:rest]
	return line
}

func (h *lineHandle) Write(p []byte) (int, error) {
	total := 0
	for total < len(p) {
		n, err := h.rw.Write(p[total:])
		total += n
		if err != nil {
			return total, err
		}
		if n == 0 {
			return total, io.ErrShortWrite
		}
	}
	return total, nil
}

func (h *lineHandle) Close() error {
	return h.rw.Close()
}
