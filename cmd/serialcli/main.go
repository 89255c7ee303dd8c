package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"serialterm/internal/app"
	"serialterm/internal/config"
	"serialterm/internal/domain/models"
	"serialterm/internal/infrastructure/serialport"
	"serialterm/internal/service/periodic"
	"serialterm/internal/service/sender"
)

func main() {
	fs := flag.NewFlagSet("serialcli", flag.ExitOnError)
	flags := config.RegisterFlags(fs)
	list := fs.Bool("list", false, "list serial ports and exit")
	once := fs.Bool("once", false, "send payload once instead of periodically")
	limit := fs.Int64("count", 0, "exit after this many received records (0 = run until interrupted)")
	_ = fs.Parse(os.Args[1:])

	if *list {
		os.Exit(listPorts())
	}

	cfg, err := flags.Resolve()
	if err != nil {
		fmt.Fprintf(os.Stderr, "serialcli: %v\n", err)
		os.Exit(2)
	}

	a, err := app.New(cfg, app.Options{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "serialcli: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, a, *once, *limit)
	stop()
	a.Close()
	os.Exit(code)
}

// listPorts печатает найденные порты с данными USB.
func listPorts() int {
	infos, err := serialport.ListPorts()
	if err != nil {
		fmt.Fprintf(os.Stderr, "serialcli: %v\n", err)
		return 1
	}
	if len(infos) == 0 {
		fmt.Println("No serial ports found.")
		return 0
	}
	for _, info := range infos {
		if info.IsUSB {
			fmt.Printf("%s\tUSB %s:%s %s\n", info.Name, info.VID, info.PID, info.Product)
		} else {
			fmt.Println(info.Name)
		}
	}
	return 0
}

// run открывает порт и печатает принятые строки. Все события обрабатываются
// в главной горутине через очередь приложения.
func run(ctx context.Context, a *app.App, once bool, limit int64) int {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	out := func(line string) { fmt.Println(line) }
	listener := &printer{post: a.Queue.Post, out: out, limit: limit, done: cancel}

	cfg := a.Config.PortConfig()
	s, err := a.ConnService.Connect(cfg, listener)
	if err != nil {
		out(fmt.Sprintf("Failed to open serial port: %v", err))
		return 1
	}
	out(fmt.Sprintf("Connected to %s at %d baud.", cfg.PortName, cfg.BaudRate))

	snd := sender.New(a.ConnService.Codec(), out, a.Log.With("sender"))
	ps := periodic.New(periodic.Options{
		Period:    func() string { return strconv.Itoa(a.Config.PeriodMs) },
		Send:      func() { _ = snd.Send(s, a.Config.Payload) },
		Report:    out,
		Scheduler: periodic.PostScheduler{Post: a.Queue.Post},
		Logger:    a.Log.With("periodic"),
	})

	if a.Config.Payload != "" {
		if once {
			a.Queue.Post(func() { _ = snd.Send(s, a.Config.Payload) })
		} else {
			a.Queue.Post(func() { _ = ps.Toggle() })
		}
	}

	a.Queue.Run(ctx, func(f func()) { f() })

	ps.Stop()
	_ = s.Close()
	a.Queue.Drain()
	if listener.lost {
		return 1
	}
	return 0
}

// printer выводит события сессии в stdout из главной горутины.
type printer struct {
	post  func(func())
	out   func(string)
	limit int64
	done  func()
	lost  bool
}

func (p *printer) OnRecord(rec models.ReceivedRecord, count int64) {
	p.post(func() {
		p.out(rec.String())
		if p.limit > 0 && count >= p.limit {
			p.done()
		}
	})
}

func (p *printer) OnNotice(msg string) {
	p.post(func() { p.out(msg) })
}

func (p *printer) OnClosed(err error) {
	p.post(func() {
		p.out("Serial port closed.")
		if err != nil {
			p.lost = true
		}
		p.done()
	})
}
