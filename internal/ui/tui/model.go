// Package tui — терминальный интерфейс на bubbletea для всех платформ.
package tui

import (
	"fmt"
	"strconv"
	"strings"

	"serialterm/internal/ui/controller"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	accent = lipgloss.Color("#50E3C2")
	muted  = lipgloss.Color("#8CA1AE")
	alert  = lipgloss.Color("#FF6B6B")
	okay   = lipgloss.Color("#7BD88F")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(accent).Padding(0, 1)
	labelStyle   = lipgloss.NewStyle().Foreground(muted).Width(10)
	focusedLabel = lipgloss.NewStyle().Foreground(accent).Bold(true).Width(10)
	statusOn     = lipgloss.NewStyle().Foreground(okay).Bold(true)
	statusOff    = lipgloss.NewStyle().Foreground(alert).Bold(true)
	helpStyle    = lipgloss.NewStyle().Foreground(muted)
	logStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(muted).
			Padding(0, 1)
)

// dispatchMsg — функция из очереди dispatch, выполняемая в цикле Update.
type dispatchMsg func()

type field int

const (
	fieldPort field = iota
	fieldBaud
	fieldPayload
	fieldPeriod
	fieldCount
)

var fieldNames = [fieldCount]string{"Port", "Baudrate", "Data", "Period ms"}

// Model — модель bubbletea поверх MainController.
type Model struct {
	ctrl *controller.MainController

	port    textinput.Model
	payload textinput.Model
	period  textinput.Model
	log     viewport.Model

	focus   field
	logSeen uint64
	width   int
}

// NewModel создает модель и инициализирует контроллер.
func NewModel(ctrl *controller.MainController) *Model {
	ctrl.Initialize()
	vm := ctrl.ViewModel()

	newInput := func(value, placeholder string) textinput.Model {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = placeholder
		in.SetValue(value)
		in.Width = 40
		return in
	}

	m := &Model{
		ctrl:    ctrl,
		port:    newInput(vm.PortName, "COM7 or /dev/ttyUSB0"),
		payload: newInput(vm.Payload, "text to send"),
		period:  newInput(vm.Period, "1000"),
		log:     viewport.New(80, 15),
		width:   80,
	}
	m.setFocus(fieldPort)
	m.syncLog()
	return m
}

// Init реализует tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update реализует tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case dispatchMsg:
		msg()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.log.Width = max(msg.Width-4, 20)
		m.log.Height = max(msg.Height-12, 3)

	case tea.KeyMsg:
		var handled bool
		cmd, handled = m.handleKey(msg)
		if !handled {
			cmd = m.updateInput(msg)
		}

	default:
		cmd = m.updateInput(msg)
	}

	m.syncLog()
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.ctrl.Shutdown()
		return tea.Quit, true
	case "tab", "down":
		m.setFocus((m.focus + 1) % fieldCount)
	case "shift+tab", "up":
		m.setFocus((m.focus + fieldCount - 1) % fieldCount)
	case "ctrl+o":
		_ = m.ctrl.Start()
	case "ctrl+x":
		_ = m.ctrl.Stop()
	case "enter":
		_ = m.ctrl.SendOnce()
	case "ctrl+p":
		_ = m.ctrl.TogglePeriodic()
	case "ctrl+r":
		m.ctrl.RefreshPorts()
	case "ctrl+n":
		m.nextPort()
	case "ctrl+b":
		m.nextBaud(1)
	case "left":
		if m.focus != fieldBaud {
			return nil, false
		}
		m.nextBaud(-1)
	case "right":
		if m.focus != fieldBaud {
			return nil, false
		}
		m.nextBaud(1)
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.log, cmd = m.log.Update(msg)
		return cmd, true
	default:
		return nil, false
	}
	return nil, true
}

func (m *Model) updateInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.focus {
	case fieldPort:
		m.port, cmd = m.port.Update(msg)
		m.ctrl.SetPortName(strings.TrimSpace(m.port.Value()))
	case fieldPayload:
		m.payload, cmd = m.payload.Update(msg)
		m.ctrl.SetPayload(m.payload.Value())
	case fieldPeriod:
		m.period, cmd = m.period.Update(msg)
		m.ctrl.SetPeriod(m.period.Value())
	}
	return cmd
}

func (m *Model) setFocus(f field) {
	m.focus = f
	inputs := map[field]*textinput.Model{
		fieldPort:    &m.port,
		fieldPayload: &m.payload,
		fieldPeriod:  &m.period,
	}
	for k, in := range inputs {
		if k == f {
			in.Focus()
		} else {
			in.Blur()
		}
	}
}

func (m *Model) nextBaud(step int) {
	vm := m.ctrl.ViewModel()
	if len(vm.BaudRates) == 0 {
		return
	}
	i := 0
	for j, rate := range vm.BaudRates {
		if rate == vm.BaudRate {
			i = j
		}
	}
	i = (i + step + len(vm.BaudRates)) % len(vm.BaudRates)
	_ = m.ctrl.SetBaudRate(vm.BaudRates[i])
}

// nextPort подставляет следующий порт из найденных в системе.
func (m *Model) nextPort() {
	vm := m.ctrl.ViewModel()
	if len(vm.PortNames) == 0 {
		return
	}
	i := -1
	for j, name := range vm.PortNames {
		if name == vm.PortName {
			i = j
		}
	}
	name := vm.PortNames[(i+1)%len(vm.PortNames)]
	m.port.SetValue(name)
	m.ctrl.SetPortName(name)
}

func (m *Model) syncLog() {
	vm := m.ctrl.ViewModel()
	if vm.LogSeq == m.logSeen {
		return
	}
	m.logSeen = vm.LogSeq
	atBottom := m.log.AtBottom()
	m.log.SetContent(strings.Join(vm.Log, "\n"))
	if atBottom || m.log.TotalLineCount() <= m.log.Height {
		m.log.GotoBottom()
	}
}

// View реализует tea.Model.
func (m *Model) View() string {
	vm := m.ctrl.ViewModel()

	var b strings.Builder
	b.WriteString(titleStyle.Render("Serial Port Terminal"))
	if vm.IsConnected {
		b.WriteString(statusOn.Render(fmt.Sprintf("connected %s", vm.Config())))
	} else {
		b.WriteString(statusOff.Render("closed"))
	}
	b.WriteString("\n\n")

	rows := [fieldCount]string{
		m.port.View(),
		"< " + strconv.Itoa(vm.BaudRate) + " >",
		m.payload.View(),
		m.period.View(),
	}
	for f := field(0); f < fieldCount; f++ {
		style := labelStyle
		if f == m.focus {
			style = focusedLabel
		}
		b.WriteString(style.Render(fieldNames[f]))
		b.WriteString(rows[f])
		if f == fieldPayload && vm.Periodic {
			b.WriteString(statusOn.Render("  [sending every " + vm.Period + " ms]"))
		}
		b.WriteString("\n")
	}

	b.WriteString(logStyle.Width(max(m.width-2, 20)).Render(m.log.View()))
	b.WriteString("\n")
	b.WriteString(vm.CountText)
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help()))
	return b.String()
}

func (m *Model) help() string {
	vm := m.ctrl.ViewModel()
	keys := []string{"tab next field", "ctrl+n next port", "ctrl+b baud", "ctrl+r refresh"}
	if vm.StartEnabled {
		keys = append(keys, "ctrl+o start")
	}
	if vm.StopEnabled {
		keys = append(keys, "ctrl+x stop")
	}
	keys = append(keys, "enter send once", "ctrl+p "+strings.ToLower(vm.SendButtonText), "esc quit")
	return strings.Join(keys, " • ")
}
