package ui

import (
	"serialterm/internal/ui/controller"
	"serialterm/internal/ui/dispatch"
	"serialterm/internal/ui/view"
)

func runGUI(ctrl *controller.MainController, queue *dispatch.Queue) error {
	return view.Run(ctrl, queue)
}
