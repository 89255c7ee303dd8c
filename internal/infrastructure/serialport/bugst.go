package serialport

import (
	"errors"
	"fmt"
	"time"

	"go.bug.st/serial"

	"serialterm/internal/domain/models"
	"serialterm/internal/domain/ports"
)

// BugstTransport открывает порты через go.bug.st/serial (8N1).
type BugstTransport struct{}

// NewBugstTransport создает транспорт go.bug.st/serial.
func NewBugstTransport() *BugstTransport {
	return &BugstTransport{}
}

// Open открывает порт и выставляет таймаут чтения.
func (t *BugstTransport) Open(name string, baud int, timeout time.Duration) (ports.PortHandle, error) {
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(name, mode)
	if err != nil {
		return nil, classifyOpenError(name, err)
	}

	if err := port.SetReadTimeout(timeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("%w: set read timeout on %s: %v", models.ErrPortUnavailable, name, err)
	}

	return newLineHandle(port, false), nil
}

// classifyOpenError сопоставляет коды go.bug.st/serial видам ошибок.
func classifyOpenError(name string, err error) error {
	var portErr *serial.PortError
	if errors.As(err, &portErr) {
		switch portErr.Code() {
		case serial.InvalidSpeed, serial.InvalidDataBits, serial.InvalidParity,
			serial.InvalidStopBits, serial.InvalidTimeoutValue:
			return fmt.Errorf("%w: %s: %v", models.ErrInvalidConfig, name, err)
		}
	}
	return fmt.Errorf("%w: %s: %v", models.ErrPortUnavailable, name, err)
}
