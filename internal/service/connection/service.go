package connection

import (
	"sort"
	"strings"

	"serialterm/internal/domain/models"
	"serialterm/internal/domain/ports"
	"serialterm/internal/infrastructure/codec"
	"serialterm/internal/infrastructure/logger"
	"serialterm/internal/infrastructure/serialport"
	"serialterm/internal/service/session"
)

// PortLister возвращает имена портов, найденных в системе.
type PortLister func() ([]string, error)

// ConnectionService отвечает за открытие сессий и список доступных портов
type ConnectionService struct {
	transport ports.Transport
	codec     *codec.Codec
	counter   *session.Counter
	log       ports.Logger
	lister    PortLister
}

// NewConnectionService создает новый экземпляр ConnectionService.
// Счетчик записей общий для всех сессий, открытых сервисом.
func NewConnectionService(transport ports.Transport, c *codec.Codec, log ports.Logger) *ConnectionService {
	if c == nil {
		c = codec.MustNew(codec.UTF8)
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &ConnectionService{
		transport: transport,
		codec:     c,
		counter:   &session.Counter{},
		log:       log,
		lister:    serialport.ListPortNames,
	}
}

// SetPortLister подменяет источник списка портов (для loopback и тестов).
func (s *ConnectionService) SetPortLister(l PortLister) {
	s.lister = l
}

// Codec возвращает кодировку, которой пользуется сервис.
func (s *ConnectionService) Codec() *codec.Codec {
	return s.codec
}

// Counter возвращает общий счетчик принятых строк.
func (s *ConnectionService) Counter() *session.Counter {
	return s.counter
}

// GetSystemPorts возвращает список доступных в системе COM-портов вместе со
// стандартными именами платформы. Ошибка перечисления не фатальна: список
// стандартных имен возвращается всегда.
func (s *ConnectionService) GetSystemPorts() ([]string, error) {
	seen := make(map[string]struct{})
	var portsList []string
	add := func(name string) {
		if name == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		portsList = append(portsList, name)
	}

	var listErr error
	if s.lister != nil {
		found, err := s.lister()
		if err != nil {
			s.log.Warn("port enumeration failed: %v", err)
			listErr = err
		}
		for _, name := range found {
			add(name)
		}
	}
	for _, name := range models.DefaultPortNames() {
		add(name)
	}

	sort.Slice(portsList, func(i, j int) bool { return portLess(portsList[i], portsList[j]) })
	return portsList, listErr
}

// portLess сравнивает имена портов с учетом числового суффикса:
// COM2 идет раньше COM10.
func portLess(a, b string) bool {
	pa, na := splitPortName(a)
	pb, nb := splitPortName(b)
	if pa != pb {
		return pa < pb
	}
	// Ведущие нули не учитываются, длиннее значит больше
	na, nb = strings.TrimLeft(na, "0"), strings.TrimLeft(nb, "0")
	if len(na) != len(nb) {
		return len(na) < len(nb)
	}
	if na != nb {
		return na < nb
	}
	return a < b
}

func splitPortName(name string) (prefix, digits string) {
	i := len(name)
	for i > 0 && name[i-1] >= '0' && name[i-1] <= '9' {
		i--
	}
	return name[:i], name[i:]
}

// Connect открывает сессию с параметрами cfg. События сессии уходят в listener.
func (s *ConnectionService) Connect(cfg models.PortConfig, listener ports.SessionListener) (*session.Session, error) {
	return session.Open(s.transport, cfg, listener, session.Options{
		Codec:   s.codec,
		Counter: s.counter,
		Logger:  s.log.With("session"),
	})
}
