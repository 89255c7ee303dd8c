package serialport

import (
	"bytes"
	"errors"
	"fmt"
	"sync"
	"time"

	"serialterm/internal/domain/models"
	"serialterm/internal/domain/ports"
)

// ErrFakeClosed возвращается операциями над закрытым FakePort.
var ErrFakeClosed = errors.New("fake port closed")

// FakeTransport — транспорт в памяти. В режиме Echo записанные данные
// возвращаются на вход (драйвер loopback); без Echo данные подаются через Feed.
type FakeTransport struct {
	mu      sync.Mutex
	Echo    bool
	openErr error
	opened  []*FakePort
	calls   int
}

// NewFakeTransport создает пустой тестовый транспорт.
func NewFakeTransport() *FakeTransport {
	return &FakeTransport{}
}

// NewLoopbackTransport создает транспорт, который эхом возвращает отправленное.
func NewLoopbackTransport() *FakeTransport {
	return &FakeTransport{Echo: true}
}

// FailOpen заставляет следующие вызовы Open возвращать err (nil отменяет).
func (t *FakeTransport) FailOpen(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.openErr = err
}

// Open реализует ports.Transport.
func (t *FakeTransport) Open(name string, baud int, timeout time.Duration) (ports.PortHandle, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.calls++
	if t.openErr != nil {
		return nil, fmt.Errorf("%w: %s: %v", models.ErrPortUnavailable, name, t.openErr)
	}

	p := &FakePort{
		Name:    name,
		Baud:    baud,
		Timeout: timeout,
		echo:    t.Echo,
		poll:    make(chan struct{}, 1),
	}
	t.opened = append(t.opened, p)
	return p, nil
}

// OpenCalls возвращает количество вызовов Open.
func (t *FakeTransport) OpenCalls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.calls
}

// Last возвращает последний открытый порт или nil.
func (t *FakeTransport) Last() *FakePort {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.opened) == 0 {
		return nil
	}
	return t.opened[len(t.opened)-1]
}

// FakePort — открытый порт FakeTransport.
type FakePort struct {
	Name    string
	Baud    int
	Timeout time.Duration

	mu         sync.Mutex
	echo       bool
	incoming   []byte
	written    [][]byte
	readErr    error
	writeErr   error
	closed     bool
	closeCalls int
	afterClose int
	poll       chan struct{}
}

// Feed добавляет байты во входной буфер порта.
func (p *FakePort) Feed(b []byte) {
	p.mu.Lock()
	p.incoming = append(p.incoming, b...)
	p.mu.Unlock()
}

// FailReads заставляет чтение возвращать err (имитация отключения устройства).
func (p *FakePort) FailReads(err error) {
	p.mu.Lock()
	p.readErr = err
	p.mu.Unlock()
}

// FailWrites заставляет запись возвращать err.
func (p *FakePort) FailWrites(err error) {
	p.mu.Lock()
	p.writeErr = err
	p.mu.Unlock()
}

// Written возвращает копию всех успешных записей.
func (p *FakePort) Written() [][]byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([][]byte, len(p.written))
	copy(out, p.written)
	return out
}

// Closed сообщает, был ли вызван Close.
func (p *FakePort) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// CloseCalls возвращает количество вызовов Close.
func (p *FakePort) CloseCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closeCalls
}

// UseAfterClose возвращает количество обращений к порту после Close.
func (p *FakePort) UseAfterClose() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.afterClose
}

// WaitPolled ждет, пока горутина чтения хотя бы раз опросит порт.
func (p *FakePort) WaitPolled(timeout time.Duration) bool {
	select {
	case <-p.poll:
		return true
	case <-time.After(timeout):
		return false
	}
}

func (p *FakePort) BytesAvailable() (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	select {
	case p.poll <- struct{}{}:
	default:
	}

	if p.closed {
		p.afterClose++
		return 0, ErrFakeClosed
	}
	if p.readErr != nil {
		return 0, p.readErr
	}
	return len(p.incoming), nil
}

func (p *FakePort) ReadLine() ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		p.afterClose++
		return nil, ErrFakeClosed
	}
	if p.readErr != nil {
		return nil, p.readErr
	}

	n := len(p.incoming)
	if i := bytes.IndexByte(p.incoming, '\n'); i >= 0 {
		n = i + 1
	}
	line := make([]byte, n)
	copy(line, p.incoming[:n])
	p.incoming = p.incoming[n:]
	return line, nil
}

func (p *FakePort) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		p.afterClose++
		return 0, ErrFakeClosed
	}
	if p.writeErr != nil {
		return 0, p.writeErr
	}

	data := make([]byte, len(b))
	copy(data, b)
	p.written = append(p.written, data)
	if p.echo {
		p.incoming = append(p.incoming, data...)
		if !bytes.HasSuffix(data, []byte("\n")) {
			p.incoming = append(p.incoming, '\n')
		}
	}
	return len(b), nil
}

func (p *FakePort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closeCalls++
	if p.closed {
		p.afterClose++
		return ErrFakeClosed
	}
	p.closed = true
	return nil
}
