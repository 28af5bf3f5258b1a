package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/stefanpenner/trackline/pkg/clock"
	"github.com/stefanpenner/trackline/pkg/config"
	"github.com/stefanpenner/trackline/pkg/logging"
	"github.com/stefanpenner/trackline/pkg/schedule"
	"github.com/stefanpenner/trackline/pkg/store"
	"github.com/stefanpenner/trackline/pkg/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	args := os.Args[1:]
	dirFlag, args := takeValue(args, "--dir")
	verbose := hasFlag(args, "--verbose")
	args = removeFlag(args, "--verbose")
	dataDir := config.ResolveDataDir(dirFlag)

	if len(args) > 0 && args[0] == "config" {
		return cmdConfig(dataDir, args[1:], os.Stdout)
	}

	cfg, err := config.Load(dataDir)
	if err != nil {
		return err
	}

	interactive := len(removeFlag(removeFlag(args, "--json"), "--yes")) == 0
	logCloser := logging.Setup(logParams(cfg, verbose, interactive))
	defer logCloser.Close()

	gw, gwCloser, err := cfg.OpenGateway()
	if err != nil {
		return err
	}
	defer gwCloser.Close()

	t := store.Open(context.Background(), gw, clock.Real{}, store.Options{WriteTimeout: cfg.WriteTimeout})
	defer t.Close()
	t.Reclassify()

	if interactive {
		return runTUI(t, cfg)
	}

	logrus.WithField("args", args).Debug("running command")
	a := newApp(t, os.Stdin, os.Stdout, os.Stderr)
	return a.dispatch(args)
}

// logParams copies log lines to stderr only for --verbose CLI runs; the TUI
// owns the terminal.
func logParams(cfg config.Config, verbose, interactive bool) logging.SetupParams {
	return logging.SetupParams{
		FileName: cfg.LogFile,
		Level:    cfg.LogLevel,
		JSON:     cfg.LogJSON,
		Stderr:   verbose && !interactive,
	}
}

// cmdConfig handles "trackline config init", which runs before any storage
// is opened.
func cmdConfig(dataDir string, args []string, out io.Writer) error {
	if len(args) != 1 || args[0] != "init" {
		return fmt.Errorf("usage: trackline config init")
	}
	path, err := config.Init(dataDir)
	if errors.Is(err, config.ErrExists) {
		fmt.Fprintf(out, "Config already exists: %s\n", path)
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Wrote %s\n", path)
	return nil
}

func runTUI(t *store.Tracker, cfg config.Config) error {
	m := tui.NewModel(t)
	p := tea.NewProgram(m, tea.WithAltScreen())

	clk := t.Clock()
	tick := schedule.Every(clk, cfg.ClockTick, func(now time.Time) {
		p.Send(tui.ClockTickMsg{Now: now})
	})
	defer tick.Stop()
	reclassify := schedule.Every(clk, cfg.ReclassifyInterval, func(now time.Time) {
		p.Send(tui.ReclassifyMsg{Now: now})
	})
	defer reclassify.Stop()

	// Start file watcher so CLI edits show up live
	if cfg.Watch && cfg.Backend != config.BackendMemory {
		cleanup, err := tui.StartWatcher(cfg.DataDir, p)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: file watcher failed: %v\n", err)
		} else {
			defer cleanup()
		}
	}

	_, err := p.Run()
	return err
}

func hasFlag(args []string, flag string) bool {
	for _, a := range args {
		if a == flag {
			return true
		}
	}
	return false
}

func removeFlag(args []string, flag string) []string {
	var result []string
	for _, a := range args {
		if a != flag {
			result = append(result, a)
		}
	}
	return result
}

// takeValue extracts "flag value" from args and returns the value and the
// remaining args.
func takeValue(args []string, flag string) (string, []string) {
	var value string
	var result []string
	for i := 0; i < len(args); i++ {
		if args[i] == flag && i+1 < len(args) {
			value = args[i+1]
			i++
			continue
		}
		result = append(result, args[i])
	}
	return value, result
}
