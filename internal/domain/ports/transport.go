package ports

import "time"

// Transport открывает последовательные порты. Ядро зависит только от этого
// контракта, конкретный драйвер выбирается при старте приложения.
type Transport interface {
	// Open захватывает порт name на скорости baud с таймаутом чтения timeout.
	Open(name string, baud int, timeout time.Duration) (PortHandle, error)
}

// PortHandle — открытый порт. Допускается один читатель и один писатель
// одновременно; Close не должен выполняться параллельно с чтением.
type PortHandle interface {
	// Write записывает данные целиком.
	Write(p []byte) (int, error)

	// BytesAvailable возвращает количество байт, готовых к чтению.
	// Может ждать данные не дольше таймаута чтения.
	BytesAvailable() (int, error)

	// ReadLine читает до '\n' включительно либо до истечения таймаута.
	ReadLine() ([]byte, error)

	// Close освобождает порт.
	Close() error
}
