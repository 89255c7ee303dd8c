package ports

import "serialterm/internal/domain/models"

// SessionListener получает события цикла чтения. Методы вызываются
// из горутины чтения, реализация сама переносит их в UI-поток.
type SessionListener interface {
	// OnRecord вызывается для каждой успешно декодированной строки;
	// count — значение счетчика после увеличения.
	OnRecord(rec models.ReceivedRecord, count int64)

	// OnNotice сообщает о нефатальной ошибке или событии (ошибка декодирования и т.п.).
	OnNotice(msg string)

	// OnClosed вызывается ровно один раз, когда сессия закрыта.
	// err != nil, если закрытие вызвано ошибкой транспорта.
	OnClosed(err error)
}
