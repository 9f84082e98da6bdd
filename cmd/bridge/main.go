package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/wardrobify/wardrobify/internal/app"
	"github.com/wardrobify/wardrobify/internal/bridge"
	"github.com/wardrobify/wardrobify/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("wardrobify-bridge", flag.ContinueOnError)
	fs.SetOutput(os.Stdout)

	var configPath string
	fs.StringVar(&configPath, "config", "", "Path to configuration directory")

	if err := fs.Parse(args); err != nil {
		return err
	}

	var cfg *app.Config
	var err error
	if configPath == "" {
		cfg, err = app.LoadConfig()
	} else {
		cfg, err = app.LoadConfig(configPath)
	}
	if err != nil {
		return err
	}

	if err := app.ConfigureLogging(cfg.Server.LogLevel); err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}
	defer logger.Sync() // best effort

	log := logger.WithModule("bootstrap")

	b, err := bridge.New(bridge.Config{
		Broker:    cfg.Bridge.Broker,
		BaseTopic: cfg.Bridge.BaseTopic,
		ClientID:  cfg.Bridge.ClientID,
		ServerURL: cfg.Bridge.ServerURL,
		APIKey:    cfg.Ingest.APIKey,
		Timeout:   cfg.Bridge.Timeout,
	})
	if err != nil {
		return err
	}

	if err := b.Connect(); err != nil {
		return err
	}
	defer b.Close()

	log.Info("bridge running",
		zap.String("broker", cfg.Bridge.Broker),
		zap.String("base_topic", cfg.Bridge.BaseTopic))

	<-ctx.Done()
	log.Info("shutdown signal received")
	return nil
}
