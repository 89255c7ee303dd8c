//go:build !windows

package ui

import (
	"serialterm/internal/ui/controller"
	"serialterm/internal/ui/dispatch"
)

func runGUI(*controller.MainController, *dispatch.Queue) error {
	return ErrNoGUI
}
