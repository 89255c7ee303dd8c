//go:build windows

package view

import (
	"context"

	"serialterm/internal/ui/controller"
	"serialterm/internal/ui/dispatch"
)

// Run запускает графическое приложение
func Run(ctrl *controller.MainController, queue *dispatch.Queue) error {
	// Создание основного окна
	mw := NewMainWindowView(ctrl)

	// Создание и инициализация окна
	if err := mw.Create(); err != nil {
		return err
	}

	// События сессии и таймеров выполняются в потоке окна
	ctx, cancel := context.WithCancel(context.Background())
	go queue.Run(ctx, mw.mw.Synchronize)

	// Запуск главного цикла сообщений
	mw.Run()

	cancel()
	queue.Close()
	return nil
}
