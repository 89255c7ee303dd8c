// Package session управляет открытым портом и циклом чтения.
package session

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"serialterm/internal/domain/models"
	"serialterm/internal/domain/ports"
	"serialterm/internal/infrastructure/codec"
	"serialterm/internal/infrastructure/logger"
)

// DefaultPollInterval — пауза цикла чтения, когда данных нет.
const DefaultPollInterval = 10 * time.Millisecond

// State — состояние сессии.
type State int32

const (
	StateIdle State = iota
	StateActive
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateActive:
		return "active"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Options — зависимости сессии. Нулевые поля заменяются значениями по умолчанию.
type Options struct {
	Codec        *codec.Codec
	Counter      *Counter
	Logger       ports.Logger
	Clock        func() time.Time
	ReadTimeout  time.Duration
	PollInterval time.Duration
}

// Session — одно открытое подключение к порту. Закрытая сессия повторно не открывается,
// для нового подключения создается новый объект.
type Session struct {
	cfg      models.PortConfig
	handle   ports.PortHandle
	listener ports.SessionListener

	codec        *codec.Codec
	counter      *Counter
	log          ports.Logger
	clock        func() time.Time
	pollInterval time.Duration

	state atomic.Int32

	// mu защищает handle от освобождения во время записи
	mu       sync.RWMutex
	released bool

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// Open проверяет конфигурацию, открывает порт и запускает цикл чтения.
func Open(tr ports.Transport, cfg models.PortConfig, listener ports.SessionListener, opts Options) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if tr == nil {
		return nil, fmt.Errorf("%w: no transport", models.ErrPortUnavailable)
	}

	opts = withDefaults(opts)
	if listener == nil {
		listener = nopListener{}
	}

	handle, err := tr.Open(cfg.PortName, cfg.BaudRate, opts.ReadTimeout)
	if err != nil {
		if !errors.Is(err, models.ErrPortUnavailable) && !errors.Is(err, models.ErrInvalidConfig) {
			err = fmt.Errorf("%w: %s: %v", models.ErrPortUnavailable, cfg.PortName, err)
		}
		opts.Logger.Warn("open %s failed: %v", cfg, err)
		return nil, err
	}

	s := &Session{
		cfg:          cfg,
		handle:       handle,
		listener:     listener,
		codec:        opts.Codec,
		counter:      opts.Counter,
		log:          opts.Logger,
		clock:        opts.Clock,
		pollInterval: opts.PollInterval,
		stop:         make(chan struct{}),
		done:         make(chan struct{}),
	}
	s.state.Store(int32(StateActive))
	s.log.Info("session %s opened", cfg)

	go s.readLoop()
	return s, nil
}

func withDefaults(opts Options) Options {
	if opts.Codec == nil {
		opts.Codec = codec.MustNew(codec.UTF8)
	}
	if opts.Counter == nil {
		opts.Counter = &Counter{}
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNopLogger()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = models.ReadTimeout
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	return opts
}

// Config возвращает параметры, с которыми открыт порт.
func (s *Session) Config() models.PortConfig {
	return s.cfg
}

// State возвращает текущее состояние. Для nil-сессии — StateIdle.
func (s *Session) State() State {
	if s == nil {
		return StateIdle
	}
	return State(s.state.Load())
}

// Done закрывается, когда цикл чтения завершен и порт освобожден.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Write записывает данные в порт. Для неактивной (или nil) сессии возвращает
// ErrNotOpen, не обращаясь к транспорту.
func (s *Session) Write(p []byte) error {
	if s == nil {
		return models.ErrNotOpen
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.released || s.State() != StateActive {
		return models.ErrNotOpen
	}
	if _, err := s.handle.Write(p); err != nil {
		s.log.Error("write to %s failed: %v", s.cfg.PortName, err)
		return &models.IOError{Op: "write", Err: err}
	}
	s.log.Debug("wrote %d bytes to %s", len(p), s.cfg.PortName)
	return nil
}

// Close останавливает цикл чтения, дожидается его завершения и освобождает порт.
// Повторный вызов ничего не делает.
func (s *Session) Close() error {
	if s == nil {
		return nil
	}
	s.state.CompareAndSwap(int32(StateActive), int32(StateClosed))
	s.requestStop()
	<-s.done
	return nil
}

func (s *Session) requestStop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *Session) stopping() bool {
	select {
	case <-s.stop:
		return true
	default:
		return false
	}
}

// release освобождает порт. Вызывается один раз, из горутины чтения.
func (s *Session) release() {
	s.state.Store(int32(StateClosed))

	s.mu.Lock()
	s.released = true
	err := s.handle.Close()
	s.mu.Unlock()

	if err != nil {
		s.log.Warn("close %s: %v", s.cfg.PortName, err)
	}
	s.log.Info("session %s closed", s.cfg)
}

type nopListener struct{}

func (nopListener) OnRecord(models.ReceivedRecord, int64) {}
func (nopListener) OnNotice(string)                       {}
func (nopListener) OnClosed(error)                        {}
