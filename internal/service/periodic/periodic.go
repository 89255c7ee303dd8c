// Package periodic повторяет отправку с интервалом из поля ввода.
package periodic

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"serialterm/internal/domain/models"
	"serialterm/internal/domain/ports"
	"serialterm/internal/infrastructure/logger"
)

// Timer — отменяемый одноразовый таймер.
type Timer interface {
	Stop() bool
}

// Scheduler запускает f один раз через d. Колбэк должен выполняться
// в том же потоке, что и Toggle (поток UI).
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// PostScheduler — Scheduler на time.AfterFunc, который передает
// сработавший колбэк в поток UI через Post.
type PostScheduler struct {
	Post func(func())
}

// AfterFunc реализует Scheduler.
func (s PostScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, func() { s.Post(f) })
}

// ParsePeriod разбирает период в миллисекундах. Допускается только
// положительное целое.
func ParsePeriod(text string) (time.Duration, error) {
	ms, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || ms <= 0 {
		return 0, fmt.Errorf("%w: %q", models.ErrInvalidPeriod, text)
	}
	return time.Duration(ms) * time.Millisecond, nil
}

// Options — параметры Sender.
type Options struct {
	// Period читает текущее значение поля периода.
	Period func() string
	// Send выполняет одну отправку.
	Send func()
	// Report выводит строку в лог пользователя.
	Report func(line string)
	// OnChange вызывается при каждом включении и выключении.
	OnChange  func(enabled bool)
	Scheduler Scheduler
	Logger    ports.Logger
}

// Sender — периодическая отправка. Все методы вызываются из потока UI.
type Sender struct {
	opts Options

	enabled bool
	gen     uint64
	timer   Timer
}

// New создает выключенный Sender.
func New(opts Options) *Sender {
	if opts.Period == nil {
		opts.Period = func() string { return "" }
	}
	if opts.Send == nil {
		opts.Send = func() {}
	}
	if opts.Report == nil {
		opts.Report = func(string) {}
	}
	if opts.OnChange == nil {
		opts.OnChange = func(bool) {}
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNopLogger()
	}
	return &Sender{opts: opts}
}

// Enabled сообщает, включена ли отправка.
func (s *Sender) Enabled() bool {
	return s.enabled
}

// Toggle включает или выключает отправку. При включении период проверяется
// до первой отправки; при ошибке Sender остается выключенным.
func (s *Sender) Toggle() error {
	if s.enabled {
		s.Stop()
		return nil
	}

	period, err := ParsePeriod(s.opts.Period())
	if err != nil {
		s.reportInvalid(err)
		return err
	}

	s.enabled = true
	s.gen++
	s.opts.Logger.Debug("periodic send enabled, period %s", period)
	s.opts.OnChange(true)

	s.opts.Send()
	s.schedule(period)
	return nil
}

// Stop выключает отправку. Ожидающий таймер останавливается, а если он
// все же сработает, колбэк ничего не сделает.
func (s *Sender) Stop() {
	if !s.enabled {
		return
	}
	s.enabled = false
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.opts.Logger.Debug("periodic send disabled")
	s.opts.OnChange(false)
}

func (s *Sender) schedule(period time.Duration) {
	if s.opts.Scheduler == nil {
		return
	}
	gen := s.gen
	s.timer = s.opts.Scheduler.AfterFunc(period, func() { s.tick(gen) })
}

func (s *Sender) tick(gen uint64) {
	if !s.enabled || gen != s.gen {
		return
	}
	s.timer = nil

	s.opts.Send()

	// Send мог выключить отправку (например, закрылась сессия)
	if !s.enabled || gen != s.gen {
		return
	}

	period, err := ParsePeriod(s.opts.Period())
	if err != nil {
		s.reportInvalid(err)
		s.Stop()
		return
	}
	s.schedule(period)
}

func (s *Sender) reportInvalid(err error) {
	s.opts.Logger.Warn("periodic send: %v", err)
	s.opts.Report("Invalid period: enter a positive number of milliseconds.")
}
