package controller

import (
	"fmt"

	"serialterm/internal/domain/models"
	"serialterm/internal/domain/ports"
	"serialterm/internal/infrastructure/logger"
	"serialterm/internal/service/connection"
	"serialterm/internal/service/periodic"
	"serialterm/internal/service/sender"
	"serialterm/internal/service/session"
	"serialterm/internal/ui/dispatch"
	"serialterm/internal/ui/viewmodel"
)

// Options — зависимости MainController, кроме сервиса подключения.
type Options struct {
	// Dispatcher передает события сессии и таймеров в поток UI.
	Dispatcher dispatch.Poster
	// Scheduler для периодической отправки. По умолчанию — time.AfterFunc через Dispatcher.
	Scheduler periodic.Scheduler
	Logger    ports.Logger
}

// MainController управляет логикой главного окна: подключение, отправка, вывод.
// Все методы вызываются из потока UI.
type MainController struct {
	vm          *viewmodel.MainViewModel
	connService *connection.ConnectionService
	dispatcher  dispatch.Poster
	sender      *sender.Sender
	periodic    *periodic.Sender
	log         ports.Logger
	onUpdate    func()

	// текущая сессия и ее поколение; события старых сессий отбрасываются
	session *session.Session
	gen     uint64
}

// NewMainController создает новый экземпляр MainController с использованием Dependency Injection.
func NewMainController(vm *viewmodel.MainViewModel, connService *connection.ConnectionService, opts Options) *MainController {
	if opts.Logger == nil {
		opts.Logger = logger.NewNopLogger()
	}
	if opts.Dispatcher == nil {
		opts.Dispatcher = dispatch.New()
	}
	if opts.Scheduler == nil {
		opts.Scheduler = periodic.PostScheduler{Post: opts.Dispatcher.Post}
	}

	c := &MainController{
		vm:          vm,
		connService: connService,
		dispatcher:  opts.Dispatcher,
		log:         opts.Logger,
	}
	c.sender = sender.New(connService.Codec(), c.appendLog, opts.Logger.With("sender"))
	c.periodic = periodic.New(periodic.Options{
		Period:    func() string { return c.vm.Period },
		Send:      func() { _ = c.sender.Send(c.writer(), c.vm.Payload) },
		Report:    c.appendLog,
		OnChange:  c.onPeriodicChanged,
		Scheduler: opts.Scheduler,
		Logger:    opts.Logger.With("periodic"),
	})
	return c
}

// Initialize подготавливает начальные данные (вызывать из View при старте)
func (c *MainController) Initialize() {
	c.vm.RecordCount = c.connService.Counter().Value()
	c.RefreshPorts()
}

// ViewModel возвращает ViewModel главного окна.
func (c *MainController) ViewModel() *viewmodel.MainViewModel {
	return c.vm
}

// SetOnUpdate устанавливает callback для обновления пользовательского интерфейса.
func (c *MainController) SetOnUpdate(callback func()) {
	c.onUpdate = callback
}

// RefreshPorts обновляет список портов во ViewModel.
func (c *MainController) RefreshPorts() {
	names, err := c.connService.GetSystemPorts()
	if err != nil {
		c.log.Warn("refresh ports: %v", err)
	}
	c.vm.PortNames = names

	if c.vm.PortName == "" && len(names) > 0 {
		c.vm.PortName = models.DefaultPortName()
	}

	c.vm.UpdateUIState()
	c.notifyUpdate()
}

// SetPortName запоминает выбранный порт. Действует со следующего Start.
func (c *MainController) SetPortName(name string) {
	c.vm.PortName = name
}

// SetBaudRate меняет скорость для следующего подключения.
func (c *MainController) SetBaudRate(rate int) error {
	if !models.IsSupportedBaudRate(rate) {
		err := fmt.Errorf("%w: unsupported baud rate %d", models.ErrInvalidConfig, rate)
		c.appendLog(fmt.Sprintf("Invalid baudrate: %d.", rate))
		return err
	}
	c.vm.BaudRate = rate
	c.appendLog(fmt.Sprintf("Baudrate changed to %d.", rate))
	return nil
}

// SetPayload запоминает текст для отправки.
func (c *MainController) SetPayload(text string) {
	c.vm.Payload = text
}

// SetPeriod запоминает период отправки. Значение читается на каждом такте.
func (c *MainController) SetPeriod(text string) {
	c.vm.Period = text
}

// Start открывает порт с текущими параметрами. Ошибка уже отражена в логе.
func (c *MainController) Start() error {
	if c.session != nil {
		return nil
	}

	cfg := c.vm.Config()
	c.gen++
	s, err := c.connService.Connect(cfg, &sessionEvents{c: c, gen: c.gen})
	if err != nil {
		c.appendLog(fmt.Sprintf("Failed to open serial port: %v", err))
		return err
	}

	c.session = s
	c.vm.IsConnected = true
	c.vm.UpdateUIState()
	c.appendLog(fmt.Sprintf("Connected to %s at %d baud.", cfg.PortName, cfg.BaudRate))
	return nil
}

// Stop выключает периодическую отправку и закрывает порт. Строка о закрытии
// приходит через очередь после последних принятых строк.
func (c *MainController) Stop() error {
	if c.session == nil {
		return nil
	}

	c.periodic.Stop()
	s := c.session
	c.detach()

	err := s.Close()
	if err != nil {
		c.log.Warn("close session: %v", err)
	}
	c.notifyUpdate()
	return err
}

// SendOnce отправляет текст из поля ввода один раз.
func (c *MainController) SendOnce() error {
	return c.sender.Send(c.writer(), c.vm.Payload)
}

// TogglePeriodic включает или выключает периодическую отправку.
func (c *MainController) TogglePeriodic() error {
	return c.periodic.Toggle()
}

// Shutdown освобождает порт при закрытии окна.
func (c *MainController) Shutdown() {
	c.periodic.Stop()
	_ = c.Stop()
}

// IsConnected сообщает, открыт ли порт.
func (c *MainController) IsConnected() bool {
	return c.session != nil
}

func (c *MainController) writer() sender.Writer {
	if c.session == nil {
		return nil
	}
	return c.session
}

// detach отвязывает текущую сессию. Ее дальнейшие события о закрытии
// не меняют состояние.
func (c *MainController) detach() {
	c.session = nil
	c.gen++
	c.vm.IsConnected = false
	c.vm.UpdateUIState()
}

func (c *MainController) appendLog(line string) {
	c.vm.AppendLog(line)
	c.notifyUpdate()
}

func (c *MainController) onPeriodicChanged(enabled bool) {
	c.vm.Periodic = enabled
	c.vm.UpdateUIState()
	c.notifyUpdate()
}

func (c *MainController) onRecord(rec models.ReceivedRecord, count int64) {
	c.vm.AppendLog(rec.String())
	if count > c.vm.RecordCount {
		c.vm.RecordCount = count
	}
	c.vm.UpdateUIState()
	c.notifyUpdate()
}

func (c *MainController) onClosed(gen uint64, err error) {
	if err != nil {
		c.log.Warn("session closed: %v", err)
	}
	c.vm.AppendLog("Serial port closed.")

	// потеря устройства равносильна Stop
	if gen == c.gen && c.session != nil {
		c.periodic.Stop()
		c.detach()
	}
	c.notifyUpdate()
}

// notifyUpdate вызывает callback для обновления UI, если он установлен.
func (c *MainController) notifyUpdate() {
	if c.onUpdate != nil {
		c.onUpdate()
	}
}

// sessionEvents переносит события одной сессии в поток UI.
type sessionEvents struct {
	c   *MainController
	gen uint64
}

func (e *sessionEvents) OnRecord(rec models.ReceivedRecord, count int64) {
	e.c.dispatcher.Post(func() { e.c.onRecord(rec, count) })
}

func (e *sessionEvents) OnNotice(msg string) {
	e.c.dispatcher.Post(func() { e.c.appendLog(msg) })
}

func (e *sessionEvents) OnClosed(err error) {
	e.c.dispatcher.Post(func() { e.c.onClosed(e.gen, err) })
}
