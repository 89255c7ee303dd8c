package viewmodel

import (
	"fmt"
	"testing"

	"serialterm/internal/domain/models"
)

func TestNewMainViewModelDefaults(t *testing.T) {
	vm := NewMainViewModel()

	if vm.BaudRate != models.DefaultBaudRate || vm.PortName != models.DefaultPortName() {
		t.Fatalf("unexpected defaults: %+v", vm.Config())
	}
	if !vm.StartEnabled || vm.StopEnabled {
		t.Fatalf("start=%v stop=%v", vm.StartEnabled, vm.StopEnabled)
	}
	if vm.CountText != "Records: 0" || vm.SendButtonText != SendButtonStart {
		t.Fatalf("count=%q send=%q", vm.CountText, vm.SendButtonText)
	}
}

func TestUpdateUIState(t *testing.T) {
	tests := []struct {
		name      string
		connected bool
		periodic  bool
		count     int64
		wantStart bool
		wantSend  string
		wantCount string
	}{
		{"idle", false, false, 0, true, SendButtonStart, "Records: 0"},
		{"connected", true, false, 3, false, SendButtonStart, "Records: 3"},
		{"periodic", true, true, 10, false, SendButtonStop, "Records: 10"},
		{"periodic without port", false, true, 0, true, SendButtonStop, "Records: 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm := NewMainViewModel()
			vm.IsConnected = tt.connected
			vm.Periodic = tt.periodic
			vm.RecordCount = tt.count
			vm.UpdateUIState()

			if vm.StartEnabled != tt.wantStart || vm.StopEnabled == tt.wantStart {
				t.Errorf("start=%v stop=%v", vm.StartEnabled, vm.StopEnabled)
			}
			if vm.SendButtonText != tt.wantSend {
				t.Errorf("send text = %q, want %q", vm.SendButtonText, tt.wantSend)
			}
			if vm.CountText != tt.wantCount {
				t.Errorf("count text = %q, want %q", vm.CountText, tt.wantCount)
			}
		})
	}
}

func TestAppendLogKeepsTail(t *testing.T) {
	vm := NewMainViewModel()
	for i := 0; i < MaxLogLines+10; i++ {
		vm.AppendLog(fmt.Sprintf("line %d", i))
	}

	if len(vm.Log) != MaxLogLines {
		t.Fatalf("len = %d, want %d", len(vm.Log), MaxLogLines)
	}
	if vm.LogSeq != MaxLogLines+10 {
		t.Fatalf("LogSeq = %d", vm.LogSeq)
	}
	if vm.Log[0] != "line 10" {
		t.Fatalf("first line = %q", vm.Log[0])
	}
}

func TestLinesSince(t *testing.T) {
	vm := NewMainViewModel()
	vm.AppendLog("a")
	vm.AppendLog("b")
	seen := vm.LogSeq
	vm.AppendLog("c")

	lines, reset := vm.LinesSince(seen)
	if reset || len(lines) != 1 || lines[0] != "c" {
		t.Fatalf("lines=%q reset=%v", lines, reset)
	}

	lines, reset = vm.LinesSince(vm.LogSeq)
	if reset || len(lines) != 0 {
		t.Fatalf("nothing new: lines=%q reset=%v", lines, reset)
	}

	for i := 0; i < MaxLogLines; i++ {
		vm.AppendLog("x")
	}
	lines, reset = vm.LinesSince(seen)
	if !reset || len(lines) != MaxLogLines {
		t.Fatalf("after overflow: len=%d reset=%v", len(lines), reset)
	}
}
