package models

import "errors"

// Виды ошибок. Конкретные ошибки оборачивают их через %w,
// проверка выполняется через errors.Is.
var (
	ErrInvalidConfig   = errors.New("invalid port configuration")
	ErrPortUnavailable = errors.New("port unavailable")
	ErrNotOpen         = errors.New("serial port is not open")
	ErrIO              = errors.New("serial I/O error")
	ErrDecode          = errors.New("decode error")
	ErrInvalidPeriod   = errors.New("invalid send period")
	ErrEmptyPayload    = errors.New("no data to send")
)

// IOError — ошибка транспорта при чтении или записи. Сопоставляется с ErrIO
// и с исходной ошибкой транспорта.
type IOError struct {
	Op  string // read, write
	Err error
}

func (e *IOError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *IOError) Unwrap() []error {
	return []error{ErrIO, e.Err}
}
