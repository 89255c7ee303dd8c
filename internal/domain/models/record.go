package models

import (
	"fmt"
	"time"
)

// TimestampLayout — формат метки времени принятой строки.
const TimestampLayout = "2006-01-02 15:04:05"

// ReceivedRecord — одна принятая строка. Нигде не хранится, только выводится и считается.
type ReceivedRecord struct {
	Timestamp time.Time
	Text      string
}

// String возвращает строку для лога вывода.
func (r ReceivedRecord) String() string {
	return fmt.Sprintf("%s - Received: %s", r.Timestamp.Format(TimestampLayout), r.Text)
}
