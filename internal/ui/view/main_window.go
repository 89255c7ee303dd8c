//go:build windows

package view

import (
	"strconv"
	"strings"

	"serialterm/internal/ui/controller"

	"github.com/lxn/walk"
	d "github.com/lxn/walk/declarative"
)

// MainWindowView отвечает за отображение главного окна терминала и взаимодействие с пользователем.
// Состояние берется из ViewModel, действия передаются контроллеру.
type MainWindowView struct {
	mw          *walk.MainWindow
	ctrl        *controller.MainController
	portCombo   *walk.ComboBox
	baudCombo   *walk.ComboBox
	payloadEdit *walk.LineEdit
	periodEdit  *walk.LineEdit
	sendBtn     *walk.PushButton
	sendOnceBtn *walk.PushButton
	startBtn    *walk.PushButton
	stopBtn     *walk.PushButton
	logView     *walk.TextEdit
	countLabel  *walk.Label
	logSeen     uint64
	portsShown  int
}

// NewMainWindowView создает новый экземпляр MainWindowView.
func NewMainWindowView(ctrl *controller.MainController) *MainWindowView {
	return &MainWindowView{ctrl: ctrl}
}

// Create создает и инициализирует главное окно приложения.
func (w *MainWindowView) Create() error {
	// Устанавливаем callback для обновления UI
	w.ctrl.SetOnUpdate(w.updateUI)

	vm := w.ctrl.ViewModel()
	baudItems := make([]string, 0, len(vm.BaudRates))
	for _, rate := range vm.BaudRates {
		baudItems = append(baudItems, strconv.Itoa(rate))
	}

	err := d.MainWindow{
		AssignTo: &w.mw,
		Title:    "Serial Port Terminal",
		Size:     d.Size{Width: 640, Height: 520},
		MinSize:  d.Size{Width: 520, Height: 400},
		Layout:   d.VBox{Margins: d.Margins{Left: 8, Top: 8, Right: 8, Bottom: 8}, Spacing: 6},
		Children: []d.Widget{
			// --- Параметры порта и отправки ---
			d.Composite{
				Layout: d.Grid{Columns: 4, MarginsZero: true, Spacing: 6},
				Children: []d.Widget{
					d.Label{Text: "Port"},
					d.ComboBox{
						AssignTo:              &w.portCombo,
						Editable:              true,
						Model:                 vm.PortNames,
						Value:                 vm.PortName,
						MinSize:               d.Size{Width: 140},
						OnCurrentIndexChanged: w.onPortChanged,
						OnTextChanged:         w.onPortChanged,
					},
					d.PushButton{
						Text:      "Refresh",
						OnClicked: w.ctrl.RefreshPorts,
					},
					d.HSpacer{},

					d.Label{Text: "Baudrate"},
					d.ComboBox{
						AssignTo:              &w.baudCombo,
						Model:                 baudItems,
						Value:                 strconv.Itoa(vm.BaudRate),
						OnCurrentIndexChanged: w.onBaudChanged,
					},
					d.PushButton{
						AssignTo:  &w.sendBtn,
						Text:      vm.SendButtonText,
						OnClicked: func() { _ = w.ctrl.TogglePeriodic() },
					},
					d.PushButton{
						AssignTo:  &w.sendOnceBtn,
						Text:      "Send once",
						OnClicked: func() { _ = w.ctrl.SendOnce() },
					},

					d.Label{Text: "Data"},
					d.LineEdit{
						AssignTo:      &w.payloadEdit,
						Text:          vm.Payload,
						ColumnSpan:    3,
						OnTextChanged: func() { w.ctrl.SetPayload(w.payloadEdit.Text()) },
					},

					d.Label{Text: "Period, ms"},
					d.LineEdit{
						AssignTo:      &w.periodEdit,
						Text:          vm.Period,
						OnTextChanged: func() { w.ctrl.SetPeriod(w.periodEdit.Text()) },
					},
					d.PushButton{
						AssignTo:  &w.startBtn,
						Text:      "Start",
						OnClicked: func() { _ = w.ctrl.Start() },
					},
					d.PushButton{
						AssignTo:  &w.stopBtn,
						Text:      "Stop",
						Enabled:   false,
						OnClicked: func() { _ = w.ctrl.Stop() },
					},
				},
			},
			// --- Лог ---
			d.TextEdit{
				AssignTo: &w.logView,
				ReadOnly: true,
				VScroll:  true,
				Font:     d.Font{Family: "Consolas", PointSize: 9},
			},
			d.Label{
				AssignTo: &w.countLabel,
				Text:     vm.CountText,
			},
		},
	}.Create()

	if err != nil {
		return err
	}

	w.ctrl.Initialize()

	// Подключаем обработчик закрытия окна
	w.mw.Closing().Attach(func(canceled *bool, reason walk.CloseReason) {
		w.ctrl.Shutdown()
	})

	return nil
}

// Run запускает главный цикл обработки сообщений окна.
func (w *MainWindowView) Run() {
	w.mw.Run()
}

// updateUI обновляет состояние интерфейса в зависимости от данных из ViewModel.
func (w *MainWindowView) updateUI() {
	w.mw.Synchronize(func() {
		vm := w.ctrl.ViewModel()

		if len(vm.PortNames) != w.portsShown {
			// SetModel сбрасывает текст, сохраняем и восстанавливаем
			currentText := w.portCombo.Text()
			_ = w.portCombo.SetModel(vm.PortNames)
			w.portCombo.SetText(currentText)
			w.portsShown = len(vm.PortNames)
		}

		w.startBtn.SetEnabled(vm.StartEnabled)
		w.stopBtn.SetEnabled(vm.StopEnabled)
		w.sendBtn.SetText(vm.SendButtonText)
		w.countLabel.SetText(vm.CountText)

		lines, reset := vm.LinesSince(w.logSeen)
		w.logSeen = vm.LogSeq
		if reset {
			_ = w.logView.SetText(strings.Join(lines, "\r\n") + "\r\n")
		} else if len(lines) > 0 {
			w.logView.AppendText(strings.Join(lines, "\r\n") + "\r\n")
		}
	})
}

func (w *MainWindowView) onPortChanged() {
	w.ctrl.SetPortName(strings.TrimSpace(w.portCombo.Text()))
}

func (w *MainWindowView) onBaudChanged() {
	rate, err := strconv.Atoi(w.baudCombo.Text())
	if err != nil {
		return
	}
	if rate == w.ctrl.ViewModel().BaudRate {
		return
	}
	if err := w.ctrl.SetBaudRate(rate); err != nil {
		walk.MsgBox(w.mw, "Error", err.Error(), walk.MsgBoxIconError)
	}
}
