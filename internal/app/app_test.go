package app

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"serialterm/internal/config"
	"serialterm/internal/domain/models"
	"serialterm/internal/infrastructure/serialport"
)

func TestNewTransport(t *testing.T) {
	tests := []struct {
		driver string
		check  func(any) bool
	}{
		{config.DriverBugst, func(v any) bool { _, ok := v.(*serialport.BugstTransport); return ok }},
		{config.DriverTarm, func(v any) bool { _, ok := v.(*serialport.TarmTransport); return ok }},
		{config.DriverLoopback, func(v any) bool { ft, ok := v.(*serialport.FakeTransport); return ok && ft.Echo }},
	}

	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			tr, err := NewTransport(tt.driver)
			if err != nil {
				t.Fatalf("NewTransport: %v", err)
			}
			if !tt.check(tr) {
				t.Fatalf("unexpected transport %T", tr)
			}
		})
	}

	if _, err := NewTransport("usb"); !errors.Is(err, models.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestNewLoopbackApp(t *testing.T) {
	cfg := config.Default()
	cfg.Driver = config.DriverLoopback
	cfg.Payload = "hello"
	cfg.PeriodMs = 250

	var stderr bytes.Buffer
	a, err := New(cfg, Options{Stderr: &stderr})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	ctrl := a.NewMainController()
	vm := ctrl.ViewModel()
	if vm.PortName != LoopbackPortName || vm.Payload != "hello" || vm.Period != "250" {
		t.Fatalf("vm not seeded from config: %+v", vm.Config())
	}

	names, _ := a.ConnService.GetSystemPorts()
	found := false
	for _, n := range names {
		found = found || n == LoopbackPortName
	}
	if !found {
		t.Fatalf("loopback port missing from %v", names)
	}

	if !strings.Contains(stderr.String(), "driver loopback") {
		t.Fatalf("startup line missing from log: %q", stderr.String())
	}
}

func TestNewWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Driver = config.DriverLoopback
	cfg.LogFile = filepath.Join(t.TempDir(), "serialterm.log")

	a, err := New(cfg, Options{QuietConsole: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(cfg.LogFile)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"component":"serialterm"`) {
		t.Fatalf("unexpected log content: %q", data)
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.BaudRate = 1

	if _, err := New(cfg, Options{QuietConsole: true}); !errors.Is(err, models.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}
