package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Adda-Baaj/signaturbox-client/internal/app"
	"github.com/Adda-Baaj/signaturbox-client/internal/config"
	"github.com/Adda-Baaj/signaturbox-client/internal/logger"
)

const (
	modeRun       = "run"
	modeCollect   = "collect"
	modeTemplates = "templates"
	modeSessions  = "sessions"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "sigbox-demo failed: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("sigbox-demo", flag.ContinueOnError)
	mode := fs.String("mode", modeRun, "run | collect | templates | sessions")
	ticket := fs.String("ticket", "", "batch ticket to collect (collect mode)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.InfoObj("sigbox-demo starting", "run_meta", map[string]any{
		"mode":       *mode,
		"server_url": cfg.ServerURL,
		"storage":    cfg.StorageType,
		"sink":       cfg.SinkType,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := app.Build(ctx, cfg, log, os.Stdout)
	if err != nil {
		logger.ErrorObj("failed to initialize demo", "error", err.Error())
		return err
	}
	defer func() {
		if err := rt.Close(); err != nil {
			logger.WarnObj("shutdown", "error", err.Error())
		}
	}()

	fmt.Printf("Running tests on signature server: %s\n", cfg.ServerURL)

	switch *mode {
	case modeRun:
		err = rt.Run(ctx)
	case modeCollect:
		err = rt.Collect(ctx, *ticket)
	case modeTemplates:
		err = rt.ListTemplates(ctx)
	case modeSessions:
		err = rt.ListSessions(ctx)
	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}
	if err != nil {
		logger.ErrorObj("sigbox-demo failed", "error", err.Error())
		return fmt.Errorf("%s: %w", *mode, err)
	}
	return nil
}
