package ports

// Logger определяет интерфейс диагностического логирования.
// Пользовательский вывод терминала идет отдельно, через ViewModel.
type Logger interface {
	// Debug выводит отладочную информацию
	Debug(msg string, args ...interface{})

	// Info выводит информационные сообщения
	Info(msg string, args ...interface{})

	// Warn выводит предупреждения
	Warn(msg string, args ...interface{})

	// Error выводит ошибки
	Error(msg string, args ...interface{})

	// Fatal выводит критическую ошибку и завершает программу
	Fatal(msg string, args ...interface{})

	// With возвращает логгер с полем component
	With(component string) Logger
}
