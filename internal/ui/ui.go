package ui

import (
	"errors"
	"fmt"
	"runtime"

	"serialterm/internal/ui/controller"
	"serialterm/internal/ui/dispatch"
	"serialterm/internal/ui/tui"
)

const (
	ShellAuto = "auto"
	ShellGUI  = "gui"
	ShellTUI  = "tui"
)

// ErrNoGUI — оконный интерфейс недоступен на этой платформе.
var ErrNoGUI = errors.New("desktop window is only available on windows")

// Resolve выбирает оболочку: окно на Windows, терминал на остальных системах.
func Resolve(shell string) (string, error) {
	switch shell {
	case "", ShellAuto:
		if runtime.GOOS == "windows" {
			return ShellGUI, nil
		}
		return ShellTUI, nil
	case ShellGUI:
		if runtime.GOOS != "windows" {
			return "", ErrNoGUI
		}
		return ShellGUI, nil
	case ShellTUI:
		return ShellTUI, nil
	default:
		return "", fmt.Errorf("unknown ui %q (want auto, gui or tui)", shell)
	}
}

// Run запускает приложение в выбранной оболочке.
func Run(shell string, ctrl *controller.MainController, queue *dispatch.Queue) error {
	resolved, err := Resolve(shell)
	if err != nil {
		return err
	}
	if resolved == ShellGUI {
		return runGUI(ctrl, queue)
	}
	return tui.Run(ctrl, queue)
}
