package main

import (
	"flag"
	"fmt"
	"os"

	"serialterm/internal/app"
	"serialterm/internal/config"
	"serialterm/internal/ui"
)

func main() {
	// 1. Parse configuration (defaults, YAML file, flags)
	fs := flag.NewFlagSet("serialterm", flag.ExitOnError)
	flags := config.RegisterFlags(fs)
	_ = fs.Parse(os.Args[1:])

	cfg, err := flags.Resolve()
	if err != nil {
		fmt.Fprintf(os.Stderr, "serialterm: %v\n", err)
		os.Exit(2)
	}

	shell, err := ui.Resolve(cfg.UI)
	if err != nil {
		fmt.Fprintf(os.Stderr, "serialterm: %v\n", err)
		os.Exit(2)
	}

	// 2. Initialize logger, transport and services (infrastructure)
	a, err := app.New(cfg, app.Options{QuietConsole: shell == ui.ShellTUI})
	if err != nil {
		fmt.Fprintf(os.Stderr, "serialterm: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()
	a.Log.Info("Application starting, ui %s", shell)

	// 3. Create view model and controller
	ctrl := a.NewMainController()

	// 4. Run the user interface
	if err := ui.Run(shell, ctrl, a.Queue); err != nil {
		a.Log.Error("UI error: %v", err)
		a.Close()
		os.Exit(1)
	}
	a.Log.Info("Application stopped")
}
