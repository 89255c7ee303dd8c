package session

import "sync/atomic"

// Counter — счетчик принятых строк за время жизни процесса.
// Общий для всех сессий, не сбрасывается при остановке.
type Counter struct {
	n atomic.Int64
}

// Inc увеличивает счетчик на единицу и возвращает новое значение.
func (c *Counter) Inc() int64 {
	return c.n.Add(1)
}

// Value возвращает текущее значение.
func (c *Counter) Value() int64 {
	return c.n.Load()
}
