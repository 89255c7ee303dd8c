package models

import (
	"fmt"
	"runtime"
	"strings"
	"time"
)

// ReadTimeout — фиксированный таймаут чтения порта.
const ReadTimeout = 1000 * time.Millisecond

// SupportedBaudRates перечисляет скорости, которые можно выбрать в интерфейсе.
var SupportedBaudRates = []int{9600, 19200, 115200}

// DefaultBaudRate — скорость, выбранная при старте.
const DefaultBaudRate = 19200

// PortConfig описывает параметры открытия порта.
// После открытия сессии не меняется: новый выбор влияет только на следующее открытие.
type PortConfig struct {
	PortName string // Например "COM7" или "/dev/ttyUSB0"
	BaudRate int    // Одно из SupportedBaudRates
}

// Validate проверяет имя порта и скорость.
func (c PortConfig) Validate() error {
	if strings.TrimSpace(c.PortName) == "" {
		return fmt.Errorf("%w: port name is empty", ErrInvalidConfig)
	}
	if !IsSupportedBaudRate(c.BaudRate) {
		return fmt.Errorf("%w: unsupported baud rate %d", ErrInvalidConfig, c.BaudRate)
	}
	return nil
}

// String возвращает строку для лога ("COM7:19200").
func (c PortConfig) String() string {
	return fmt.Sprintf("%s:%d", c.PortName, c.BaudRate)
}

// IsSupportedBaudRate сообщает, входит ли скорость в список допустимых.
func IsSupportedBaudRate(rate int) bool {
	for _, r := range SupportedBaudRates {
		if r == rate {
			return true
		}
	}
	return false
}

// DefaultPortNames возвращает имена портов, которые показываются всегда,
// даже если перечисление устройств ничего не нашло.
func DefaultPortNames() []string {
	return defaultPortNames(runtime.GOOS)
}

func defaultPortNames(goos string) []string {
	switch goos {
	case "windows":
		names := make([]string, 0, 11)
		for i := 1; i <= 11; i++ {
			names = append(names, fmt.Sprintf("COM%d", i))
		}
		return names
	case "darwin":
		return []string{"/dev/cu.usbserial", "/dev/cu.usbmodem"}
	default:
		return []string{"/dev/ttyS0", "/dev/ttyUSB0", "/dev/ttyUSB1", "/dev/ttyACM0"}
	}
}

// DefaultPortName — порт, выбранный при старте (COM7 на Windows).
func DefaultPortName() string {
	if runtime.GOOS == "windows" {
		return "COM7"
	}
	return "/dev/ttyUSB0"
}
