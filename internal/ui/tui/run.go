package tui

import (
	"context"

	"serialterm/internal/ui/controller"
	"serialterm/internal/ui/dispatch"

	tea "github.com/charmbracelet/bubbletea"
)

// Run запускает терминальный интерфейс и блокируется до выхода.
func Run(ctrl *controller.MainController, queue *dispatch.Queue) error {
	p := tea.NewProgram(NewModel(ctrl), tea.WithAltScreen())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go queue.Run(ctx, func(f func()) { p.Send(dispatchMsg(f)) })

	_, err := p.Run()

	cancel()
	queue.Close()
	ctrl.Shutdown()
	return err
}
