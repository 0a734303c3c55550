// burrowd is the public-facing gateway of the burrow reverse-tunnel service.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/burrowlabs/burrow/internal/config"
	"github.com/burrowlabs/burrow/internal/gateway"
	"github.com/burrowlabs/burrow/internal/log"
	"github.com/burrowlabs/burrow/internal/observability"
	"github.com/burrowlabs/burrow/internal/registry"
)

func main() {
	config.LoadEnvFile()
	cfg, err := config.ParseServerFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger := log.New(cfg.LogLevel, cfg.LogJSON)
	observability.MustRegister()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := registry.NewHub(registry.Options{
		MaxSockets:   cfg.MaxSockets,
		GraceTimeout: cfg.GraceTimeout,
	}, logger)

	go hub.RunJanitor(ctx)

	gw := gateway.New(cfg, hub, logger)
	if err := gw.Run(ctx); err != nil {
		logger.Error("gateway exited", "err", err)
		os.Exit(1)
	}
}
