package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	"github.com/surajverma/pi-dash/internal/model"
	"github.com/surajverma/pi-dash/internal/poll"
	"github.com/surajverma/pi-dash/internal/proxyserver"
)

// runServer starts the aggregation daemon and serves the dashboard API.
func runServer(cfg appConfig) error {
	cleanupLogger := configureRuntimeLogger(cfg.LogFile)
	defer cleanupLogger()

	if cfg.enabledCount() == 0 {
		return fmt.Errorf("no enabled piholes configured (run with -write-config for a starter file)")
	}

	instances := cfg.instances()
	poller := poll.New(instances, cfg.RequestTimeout)

	srv := proxyserver.NewServer(proxyserver.Config{
		Addr:            cfg.Listen,
		Instances:       instances,
		RefreshInterval: cfg.refreshInterval(),
		ShowQueries:     cfg.ShowQueries,
		LogCapacity:     cfg.LogCapacity,
	}, poller)
	if err := srv.Start(); err != nil {
		return fmt.Errorf("failed to start API server: %w", err)
	}
	defer srv.Stop()

	// Set up context and signal handling before errgroup
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nShutting down gracefully... (press Ctrl+C again to force)")
		cancel()

		// Shutdown deadline starts now - not at boot.
		deadline := time.NewTimer(10 * time.Second)
		defer deadline.Stop()

		select {
		case <-sigCh:
			fmt.Fprintln(os.Stderr, "\nForce shutdown.")
		case <-deadline.C:
			fmt.Fprintln(os.Stderr, "Shutdown timed out, forcing exit.")
		}
		os.Exit(1)
	}()

	printStartupBanner(cfg, srv.Addr())

	// Use errgroup for concurrent goroutine lifecycle management.
	g, gctx := errgroup.WithContext(ctx)

	// Warm up source sessions once so credential mistakes surface in the
	// log at boot instead of on the first client request.
	g.Go(func() error {
		probeCtx, probeCancel := context.WithTimeout(gctx, cfg.RequestTimeout)
		defer probeCancel()

		snap, err := poller.Poll(probeCtx, model.PollOpts{})
		if err != nil {
			log.Printf("startup probe: %v", err)
			return nil
		}
		for _, name := range poller.Order() {
			if res := snap.Results[name]; res.Err != nil {
				log.Printf("startup probe: %s: %v", name, res.Err)
			} else {
				log.Printf("startup probe: %s: ok", name)
			}
		}
		return nil
	})

	// Wait for context cancellation (from signal handler) in the errgroup
	g.Go(func() error {
		<-gctx.Done()
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Printf("server: errgroup exited with error: %v", err)
	}

	// If we reach here, graceful shutdown succeeded within the deadline.
	// The signal goroutine (if active) dies with the process.
	signal.Stop(sigCh)

	return nil
}

func configureRuntimeLogger(logFile string) func() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if logFile == "" {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	f, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		log.SetOutput(os.Stderr)
		log.Printf("log file %s unavailable, logging to stderr: %v", logFile, err)
		return func() {}
	}

	log.SetOutput(f)
	return func() {
		_ = f.Close()
	}
}

func printStartupBanner(cfg appConfig, apiAddr string) {
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	green := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	cyan := lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	yellow := lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	bold := lipgloss.NewStyle().Bold(true)

	check := green.Render("●")
	dot := dim.Render("●")

	logo := cyan.Bold(true).Render(`
    ╔═╗╦   ╔╦╗╔═╗╔═╗╦ ╦
    ╠═╝║ ─  ║║╠═╣╚═╗╠═╣
    ╩  ╩   ═╩╝╩ ╩╚═╝╩ ╩`)

	ver := dim.Render("v" + version)

	var lines []string
	lines = append(lines, "")
	lines = append(lines, logo)
	lines = append(lines, "    "+ver)
	lines = append(lines, "")

	separator := dim.Render("    ─────────────────────────────────")
	lines = append(lines, separator)
	lines = append(lines, "")

	lines = append(lines, bold.Render("    Gateway"))
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("    %s  HTTP API       %s", check, cyan.Render(apiAddr)))
	lines = append(lines, "")

	lines = append(lines, bold.Render("    Sources"))
	lines = append(lines, "")
	for _, inst := range cfg.instances() {
		if inst.Enabled {
			lines = append(lines, fmt.Sprintf("    %s  %-14s %s", check, inst.Name, cyan.Render(inst.Address)))
		} else {
			lines = append(lines, fmt.Sprintf("    %s  %-14s %s", dot, inst.Name, dim.Render("disabled")))
		}
	}
	lines = append(lines, "")

	lines = append(lines, bold.Render("    Runtime"))
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("    %s  Refresh        %s", check, dim.Render(cfg.refreshInterval().String())))
	if cfg.ShowQueries {
		lines = append(lines, fmt.Sprintf("    %s  Query Log      %s", check, dim.Render(fmt.Sprintf("capacity %d", cfg.LogCapacity))))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  Query Log      %s", dot, dim.Render("disabled")))
	}

	lines = append(lines, "")
	lines = append(lines, bold.Render("    Config"))
	lines = append(lines, "")
	if cfg.ConfigPath != "" {
		lines = append(lines, fmt.Sprintf("    %s  Config File    %s", check, dim.Render(shortenPath(cfg.ConfigPath))))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  Config File    %s", dot, dim.Render("default (no file)")))
	}
	if cfg.LogFile != "" {
		lines = append(lines, fmt.Sprintf("    %s  Log File       %s", check, dim.Render(shortenPath(cfg.LogFile))))
	}

	lines = append(lines, "")
	lines = append(lines, separator)
	lines = append(lines, "")
	lines = append(lines, "    "+dim.Render("Press ")+yellow.Render("Ctrl+C")+dim.Render(" to stop"))
	lines = append(lines, "")

	fmt.Fprintln(os.Stderr, strings.Join(lines, "\n"))
}

func shortenPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if strings.HasPrefix(path, home) {
		return "~" + path[len(home):]
	}
	return path
}
