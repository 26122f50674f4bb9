package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/surajverma/pi-dash/internal/poll"
	"github.com/surajverma/pi-dash/internal/proxyserver"
	"github.com/surajverma/pi-dash/internal/tui"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
	goVersion = "unknown"
)

func main() {
	var configPath string
	var via string
	var showVersion bool

	flag.StringVar(&configPath, "config", "", "config file (default is ./config.yaml or $HOME/.config/pidash/config.yaml)")
	flag.StringVar(&via, "via", "", "connect through a running pidashd at this address instead of polling sources directly")
	flag.BoolVar(&showVersion, "version", false, "print version information")
	flag.Parse()

	if showVersion {
		fmt.Printf("pidash - Pi-hole Dashboard\n")
		fmt.Printf("  Version:    %s\n", version)
		fmt.Printf("  Commit:     %s\n", commit)
		fmt.Printf("  Built:      %s\n", buildTime)
		fmt.Printf("  Go version: %s\n", goVersion)
		return
	}

	cfg, err := loadCLIConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if via != "" {
		cfg.Via = via
	}

	if err := runTUI(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runTUI(cfg cliConfig) error {
	cleanupLogger := redirectLoggerToStateDir()
	defer cleanupLogger()

	provider, opts, err := buildProvider(cfg)
	if err != nil {
		return err
	}

	dashboard := tui.NewDashboardModel(provider, opts)

	p := tea.NewProgram(dashboard, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		if strings.Contains(err.Error(), "TTY") || strings.Contains(err.Error(), "/dev/tty") {
			return fmt.Errorf("TUI requires a real terminal")
		}
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// buildProvider picks the snapshot provider: a daemon client when -via is
// given, else a direct poller over the configured instances. Daemon mode
// adopts the daemon's refresh/capacity settings so both views agree.
func buildProvider(cfg cliConfig) (tui.Provider, tui.Options, error) {
	if cfg.Via != "" {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
		defer cancel()

		client, err := proxyserver.Dial(ctx, cfg.Via, cfg.RequestTimeout)
		if err != nil {
			return nil, tui.Options{}, fmt.Errorf("cannot reach pidashd at %s: %w\nIs the daemon running? Start it with: pidashd", cfg.Via, err)
		}
		return client, tui.Options{
			UpdateInterval: client.RefreshInterval(),
			LogCapacity:    client.LogCapacity(),
			ShowQueries:    client.ShowQueries(),
			QueryLength:    cfg.QueryLength,
			DataSource:     "Daemon",
		}, nil
	}

	instances := cfg.instances()
	enabled := 0
	for _, inst := range instances {
		if inst.Enabled {
			enabled++
		}
	}
	if enabled == 0 {
		return nil, tui.Options{}, fmt.Errorf("no enabled piholes configured (add them to config.yaml or use -via to ride a daemon)")
	}

	poller := poll.New(instances, cfg.RequestTimeout)
	return poller, tui.Options{
		UpdateInterval: cfg.refreshInterval(),
		LogCapacity:    cfg.LogCapacity,
		ShowQueries:    cfg.ShowQueries,
		QueryLength:    cfg.QueryLength,
		DataSource:     "Direct",
	}, nil
}

// redirectLoggerToStateDir keeps stray log output off the alternate screen.
// When the state dir is unavailable logs are discarded rather than painted
// over the dashboard.
func redirectLoggerToStateDir() func() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	home, err := os.UserHomeDir()
	if err != nil {
		log.SetOutput(io.Discard)
		return func() {}
	}

	logDir := filepath.Join(home, ".local", "state", "pidash")
	if err := os.MkdirAll(logDir, 0o700); err != nil {
		log.SetOutput(io.Discard)
		return func() {}
	}

	logPath := filepath.Join(logDir, "pidash.log")
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		log.SetOutput(io.Discard)
		return func() {}
	}

	log.SetOutput(f)
	return func() {
		_ = f.Close()
	}
}
