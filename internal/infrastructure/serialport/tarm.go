package serialport

import (
	"fmt"
	"time"

	"github.com/tarm/serial"

	"serialterm/internal/domain/models"
	"serialterm/internal/domain/ports"
)

// TarmTransport открывает порты через github.com/tarm/serial.
type TarmTransport struct{}

// NewTarmTransport создает транспорт tarm/serial.
func NewTarmTransport() *TarmTransport {
	return &TarmTransport{}
}

// Open открывает порт 8N1 с заданным таймаутом чтения.
func (t *TarmTransport) Open(name string, baud int, timeout time.Duration) (ports.PortHandle, error) {
	cfg := &serial.Config{
		Name:        name,
		Baud:        baud,
		Size:        8,
		Parity:      serial.ParityNone,
		StopBits:    serial.Stop1,
		ReadTimeout: timeout,
	}

	port, err := serial.OpenPort(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", models.ErrPortUnavailable, name, err)
	}

	// Очищаем входной буфер от остатков предыдущего сеанса
	_ = port.Flush()

	return newLineHandle(port, true), nil
}
