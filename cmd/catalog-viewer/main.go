package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	appkg "github.com/xenking/catalog-viewer/internal/app"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		// The UI owns the terminal until Run returns, so this is the only
		// place an error reaches stderr.
		fmt.Fprintf(os.Stderr, "catalog-viewer: %+v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := appkg.LoadConfig()
	if err != nil {
		return err
	}
	lg, err := appkg.NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = lg.Sync() }()

	if err := appkg.Run(ctx, lg, cfg); err != nil {
		lg.Error("Run failed", zap.Error(err))
		return err
	}
	return nil
}
