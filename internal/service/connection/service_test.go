package connection

import (
	"errors"
	"sort"
	"testing"
	"time"

	"serialterm/internal/domain/models"
	"serialterm/internal/infrastructure/serialport"
	"serialterm/internal/service/session"
)

func TestGetSystemPorts(t *testing.T) {
	tests := []struct {
		name    string
		lister  PortLister
		want    []string
		wantErr bool
	}{
		{
			name:   "merged with defaults",
			lister: func() ([]string, error) { return []string{"/dev/ttyFAKE9", models.DefaultPortNames()[0]}, nil },
			want:   []string{"/dev/ttyFAKE9"},
		},
		{
			name:    "enumeration error keeps defaults",
			lister:  func() ([]string, error) { return nil, errors.New("no access") },
			wantErr: true,
		},
		{
			name:   "no lister",
			lister: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewConnectionService(serialport.NewFakeTransport(), nil, nil)
			svc.SetPortLister(tt.lister)

			got, err := svc.GetSystemPorts()
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !sort.SliceIsSorted(got, func(i, j int) bool { return portLess(got[i], got[j]) }) {
				t.Fatalf("not sorted: %v", got)
			}

			seen := map[string]int{}
			for _, name := range got {
				seen[name]++
				if seen[name] > 1 {
					t.Fatalf("duplicate %q in %v", name, got)
				}
			}
			for _, name := range append(models.DefaultPortNames(), tt.want...) {
				if seen[name] != 1 {
					t.Fatalf("%q missing from %v", name, got)
				}
			}
		})
	}
}

func TestPortNamesSortNaturally(t *testing.T) {
	svc := NewConnectionService(serialport.NewFakeTransport(), nil, nil)
	svc.SetPortLister(func() ([]string, error) {
		return []string{"COM11", "COM2", "COM10", "COM1", "COM3"}, nil
	})

	got, err := svc.GetSystemPorts()
	if err != nil {
		t.Fatalf("GetSystemPorts: %v", err)
	}

	index := map[string]int{}
	for i, name := range got {
		index[name] = i
	}
	order := []string{"COM1", "COM2", "COM3", "COM10", "COM11"}
	for i := 1; i < len(order); i++ {
		if index[order[i-1]] >= index[order[i]] {
			t.Fatalf("%s must precede %s: %v", order[i-1], order[i], got)
		}
	}
}

func TestPortLess(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"COM2", "COM10", true},
		{"COM10", "COM2", false},
		{"COM9", "COM9", false},
		{"/dev/ttyS1", "/dev/ttyUSB0", true},
		{"/dev/ttyUSB2", "/dev/ttyUSB10", true},
		{"COM", "COM1", true},
		{"COM01", "COM1", true},
	}

	for _, tt := range tests {
		if got := portLess(tt.a, tt.b); got != tt.want {
			t.Errorf("portLess(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestConnectSharesCounterAcrossSessions(t *testing.T) {
	tr := serialport.NewFakeTransport()
	svc := NewConnectionService(tr, nil, nil)
	cfg := models.PortConfig{PortName: "COM7", BaudRate: 19200}

	for i := 0; i < 2; i++ {
		s, err := svc.Connect(cfg, nil)
		if err != nil {
			t.Fatalf("Connect #%d: %v", i, err)
		}
		tr.Last().Feed([]byte("line\n"))
		deadline := time.Now().Add(2 * time.Second)
		for svc.Counter().Value() < int64(i+1) {
			if time.Now().After(deadline) {
				t.Fatalf("line #%d not counted", i)
			}
			time.Sleep(time.Millisecond)
		}
		_ = s.Close()
		if s.State() != session.StateClosed {
			t.Fatalf("state = %v", s.State())
		}
	}

	if got := svc.Counter().Value(); got != 2 {
		t.Fatalf("counter = %d, want 2", got)
	}
}

func TestConnectInvalidConfig(t *testing.T) {
	tr := serialport.NewFakeTransport()
	svc := NewConnectionService(tr, nil, nil)

	_, err := svc.Connect(models.PortConfig{PortName: "COM7", BaudRate: 4800}, nil)
	if !errors.Is(err, models.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	if tr.OpenCalls() != 0 {
		t.Fatalf("transport called %d times", tr.OpenCalls())
	}
}
