// Package app собирает зависимости приложения из настроек.
package app

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"serialterm/internal/config"
	"serialterm/internal/domain/models"
	"serialterm/internal/domain/ports"
	"serialterm/internal/infrastructure/codec"
	"serialterm/internal/infrastructure/logger"
	"serialterm/internal/infrastructure/serialport"
	"serialterm/internal/service/connection"
	"serialterm/internal/ui/controller"
	"serialterm/internal/ui/dispatch"
	"serialterm/internal/ui/viewmodel"
)

// LoopbackPortName — имя порта, которое показывается для драйвера loopback.
const LoopbackPortName = "loopback"

// App представляет основное приложение.
type App struct {
	Config      config.Config
	Log         ports.Logger
	Queue       *dispatch.Queue
	ConnService *connection.ConnectionService

	logFile *os.File
}

// Options — параметры сборки, зависящие от интерфейса.
type Options struct {
	// QuietConsole отключает лог в stderr, когда терминал занят интерфейсом.
	QuietConsole bool
	// Stderr — поток для консольного лога, по умолчанию os.Stderr.
	Stderr io.Writer
}

// New создает новый экземпляр приложения.
func New(cfg config.Config, opts Options) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &App{Config: cfg, Queue: dispatch.New()}

	log, err := a.openLogger(opts)
	if err != nil {
		return nil, err
	}
	a.Log = log

	transport, err := NewTransport(cfg.Driver)
	if err != nil {
		a.Close()
		return nil, err
	}
	c, err := codec.New(cfg.Encoding)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.ConnService = connection.NewConnectionService(transport, c, log.With("connection"))
	if cfg.Driver == config.DriverLoopback {
		a.ConnService.SetPortLister(func() ([]string, error) { return []string{LoopbackPortName}, nil })
	}

	log.Info("driver %s, encoding %s", cfg.Driver, c.Name())
	return a, nil
}

// NewTransport возвращает драйвер порта по имени.
func NewTransport(driver string) (ports.Transport, error) {
	switch driver {
	case config.DriverBugst, "":
		return serialport.NewBugstTransport(), nil
	case config.DriverTarm:
		return serialport.NewTarmTransport(), nil
	case config.DriverLoopback:
		return serialport.NewLoopbackTransport(), nil
	default:
		return nil, fmt.Errorf("%w: unknown driver %q", models.ErrInvalidConfig, driver)
	}
}

// NewMainController создает ViewModel с начальными значениями из настроек и контроллер над ней.
func (a *App) NewMainController() *controller.MainController {
	vm := viewmodel.NewMainViewModel()
	vm.PortName = a.Config.Port
	if a.Config.Driver == config.DriverLoopback && vm.PortName == models.DefaultPortName() {
		vm.PortName = LoopbackPortName
	}
	vm.BaudRate = a.Config.BaudRate
	vm.Payload = a.Config.Payload
	vm.Period = strconv.Itoa(a.Config.PeriodMs)
	vm.UpdateUIState()

	return controller.NewMainController(vm, a.ConnService, controller.Options{
		Dispatcher: a.Queue,
		Logger:     a.Log.With("controller"),
	})
}

// Close закрывает файл лога.
func (a *App) Close() error {
	a.Queue.Close()
	if a.logFile == nil {
		return nil
	}
	err := a.logFile.Close()
	a.logFile = nil
	return err
}

func (a *App) openLogger(opts Options) (ports.Logger, error) {
	lo := logger.Options{Level: a.Config.LogLevel}

	switch {
	case a.Config.LogFile != "":
		f, err := os.OpenFile(a.Config.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		a.logFile = f
		lo.Output = f
	case opts.QuietConsole:
		return logger.NewNopLogger(), nil
	default:
		lo.Output = opts.Stderr
		if lo.Output == nil {
			lo.Output = os.Stderr
		}
		lo.Console = true
	}

	return logger.NewZeroLogger("serialterm", lo), nil
}
