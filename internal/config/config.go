// Package config собирает настройки из значений по умолчанию, YAML-файла и флагов.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"serialterm/internal/domain/models"
	"serialterm/internal/infrastructure/codec"
)

// DefaultPath — файл настроек, который читается, если -config не указан.
const DefaultPath = "serialterm.yaml"

// Драйверы порта.
const (
	DriverBugst    = "bugst"
	DriverTarm     = "tarm"
	DriverLoopback = "loopback"
)

// Config — настройки приложения. Читаются при старте и не сохраняются.
type Config struct {
	Port     string `yaml:"port"`      // имя порта
	BaudRate int    `yaml:"baud_rate"` // 9600, 19200 или 115200
	Payload  string `yaml:"payload"`   // текст для отправки
	PeriodMs int    `yaml:"period_ms"` // период отправки, мс
	Driver   string `yaml:"driver"`    // bugst, tarm, loopback
	Encoding string `yaml:"encoding"`  // кодировка текста
	UI       string `yaml:"ui"`        // auto, gui, tui
	LogLevel string `yaml:"log_level"` // debug, info, warn, error
	LogFile  string `yaml:"log_file"`  // файл диагностического лога
}

// Default возвращает настройки по умолчанию.
func Default() Config {
	return Config{
		Port:     models.DefaultPortName(),
		BaudRate: models.DefaultBaudRate,
		PeriodMs: 1000,
		Driver:   DriverBugst,
		Encoding: codec.UTF8,
		UI:       "auto",
		LogLevel: "info",
	}
}

// PortConfig возвращает параметры порта.
func (c Config) PortConfig() models.PortConfig {
	return models.PortConfig{PortName: c.Port, BaudRate: c.BaudRate}
}

// Validate проверяет значения, которые нельзя исправить позже в интерфейсе.
func (c Config) Validate() error {
	if !models.IsSupportedBaudRate(c.BaudRate) {
		return fmt.Errorf("%w: baud_rate %d is not supported", models.ErrInvalidConfig, c.BaudRate)
	}
	if c.PeriodMs <= 0 {
		return fmt.Errorf("%w: period_ms must be positive, got %d", models.ErrInvalidConfig, c.PeriodMs)
	}
	switch c.Driver {
	case DriverBugst, DriverTarm, DriverLoopback:
	default:
		return fmt.Errorf("%w: unknown driver %q", models.ErrInvalidConfig, c.Driver)
	}
	if _, err := codec.New(c.Encoding); err != nil {
		return err
	}
	return nil
}

// Load читает YAML-файл поверх значений по умолчанию. Отсутствующий файл
// не ошибка, если required == false.
func Load(path string, required bool) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: parse %s: %v", models.ErrInvalidConfig, path, err)
	}
	return cfg, nil
}

// Flags — флаги командной строки, переопределяющие файл настроек.
type Flags struct {
	fs   *flag.FlagSet
	path string
	v    Config
}

// RegisterFlags добавляет флаги настроек в set. Вызывающий код может
// зарегистрировать свои флаги в том же наборе.
func RegisterFlags(set *flag.FlagSet) *Flags {
	d := Default()
	f := &Flags{fs: set}
	set.StringVar(&f.path, "config", DefaultPath, "path to YAML config file")
	set.StringVar(&f.v.Port, "port", d.Port, "serial port name")
	set.IntVar(&f.v.BaudRate, "baud", d.BaudRate, "baud rate (9600, 19200, 115200)")
	set.StringVar(&f.v.Payload, "payload", d.Payload, "text to send")
	set.IntVar(&f.v.PeriodMs, "period", d.PeriodMs, "periodic send interval, ms")
	set.StringVar(&f.v.Driver, "driver", d.Driver, "port driver: bugst, tarm, loopback")
	set.StringVar(&f.v.Encoding, "encoding", d.Encoding, "text encoding (utf-8, cp1251, cp866, koi8-r, ...)")
	set.StringVar(&f.v.UI, "ui", d.UI, "user interface: auto, gui, tui")
	set.StringVar(&f.v.LogLevel, "log-level", d.LogLevel, "diagnostic log level")
	set.StringVar(&f.v.LogFile, "log-file", d.LogFile, "diagnostic log file")
	return f
}

// Resolve собирает итоговые настройки после fs.Parse.
// Порядок: флаги, затем файл, затем значения по умолчанию.
func (f *Flags) Resolve() (Config, error) {
	set := make(map[string]bool)
	f.fs.Visit(func(fl *flag.Flag) { set[fl.Name] = true })

	cfg, err := Load(f.path, set["config"])
	if err != nil {
		return cfg, err
	}

	overrides := map[string]func(){
		"port":      func() { cfg.Port = f.v.Port },
		"baud":      func() { cfg.BaudRate = f.v.BaudRate },
		"payload":   func() { cfg.Payload = f.v.Payload },
		"period":    func() { cfg.PeriodMs = f.v.PeriodMs },
		"driver":    func() { cfg.Driver = f.v.Driver },
		"encoding":  func() { cfg.Encoding = f.v.Encoding },
		"ui":        func() { cfg.UI = f.v.UI },
		"log-level": func() { cfg.LogLevel = f.v.LogLevel },
		"log-file":  func() { cfg.LogFile = f.v.LogFile },
	}
	for name, apply := range overrides {
		if set[name] {
			apply()
		}
	}

	return cfg, cfg.Validate()
}
