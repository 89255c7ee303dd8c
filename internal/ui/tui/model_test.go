package tui

import (
	"strings"
	"testing"
	"time"

	"serialterm/internal/infrastructure/serialport"
	"serialterm/internal/service/connection"
	"serialterm/internal/ui/controller"
	"serialterm/internal/ui/dispatch"
	"serialterm/internal/ui/viewmodel"

	tea "github.com/charmbracelet/bubbletea"
)

func newTestModel(t *testing.T) (*Model, *dispatch.Queue, *serialport.FakeTransport) {
	t.Helper()
	tr := serialport.NewLoopbackTransport()
	svc := connection.NewConnectionService(tr, nil, nil)
	svc.SetPortLister(func() ([]string, error) { return []string{"COM7"}, nil })

	q := dispatch.New()
	ctrl := controller.NewMainController(viewmodel.NewMainViewModel(), svc, controller.Options{Dispatcher: q})
	m := NewModel(ctrl)
	t.Cleanup(ctrl.Shutdown)
	return m, q, tr
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "ctrl+o":
		return tea.KeyMsg{Type: tea.KeyCtrlO}
	case "ctrl+x":
		return tea.KeyMsg{Type: tea.KeyCtrlX}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// pumpQueue передает события очереди в Update, как это делает Run.
func pumpQueue(t *testing.T, m *Model, q *dispatch.Queue, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out; log: %q", m.ctrl.ViewModel().Log)
		}
		m.Update(dispatchMsg(func() { q.Drain() }))
		time.Sleep(time.Millisecond)
	}
}

func TestTypingUpdatesController(t *testing.T) {
	m, _, _ := newTestModel(t)
	vm := m.ctrl.ViewModel()

	// поле порта -> baud -> данные
	m.Update(key("tab"))
	m.Update(key("tab"))
	m.Update(key("hi"))

	if vm.Payload != "hi" {
		t.Fatalf("payload = %q", vm.Payload)
	}
}

func TestBaudFieldCycles(t *testing.T) {
	m, _, _ := newTestModel(t)
	vm := m.ctrl.ViewModel()

	m.Update(key("tab"))
	m.Update(key("right"))

	if vm.BaudRate != 115200 {
		t.Fatalf("baud = %d", vm.BaudRate)
	}
	if !strings.Contains(m.View(), "115200") {
		t.Fatal("view does not show new baud rate")
	}
}

func TestStartSendReceiveStop(t *testing.T) {
	m, q, tr := newTestModel(t)
	vm := m.ctrl.ViewModel()
	m.ctrl.SetPortName("COM7")
	m.ctrl.SetPayload("ping")

	m.Update(key("ctrl+o"))
	if !vm.IsConnected {
		t.Fatalf("not connected; log: %q", vm.Log)
	}
	if !strings.Contains(m.View(), "connected COM7:19200") {
		t.Fatal("status line missing")
	}

	m.Update(key("enter"))
	pumpQueue(t, m, q, func() bool { return vm.RecordCount == 1 })
	if !strings.Contains(m.log.View(), "Received: ping") {
		t.Fatalf("viewport missing record: %q", m.log.View())
	}

	m.Update(key("ctrl+x"))
	pumpQueue(t, m, q, func() bool { return vm.Log[len(vm.Log)-1] == "Serial port closed." })
	if vm.IsConnected || !tr.Last().Closed() {
		t.Fatal("port still open")
	}
}

func TestDispatchMsgRunsOnUpdate(t *testing.T) {
	m, _, _ := newTestModel(t)
	ran := false

	m.Update(dispatchMsg(func() { ran = true }))

	if !ran {
		t.Fatal("dispatched function not run")
	}
}

func TestQuitShutsDown(t *testing.T) {
	m, _, tr := newTestModel(t)
	m.ctrl.SetPortName("COM7")
	m.Update(key("ctrl+o"))

	_, cmd := m.Update(key("ctrl+c"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg")
	}
	if !tr.Last().Closed() {
		t.Fatal("port not closed on quit")
	}
}
