package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/kofrasa/service-locator/framework/app"
	"github.com/kofrasa/service-locator/framework/providers"
)

func main() {
	application := app.New() // loads .env automatically

	application.Register(&providers.RandomServiceProvider{})
	application.Register(&providers.AmqpServiceProvider{Capacity: application.Config.Queue.Capacity})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil {
		application.Logger.Error("application stopped", zap.Error(err))
		_ = application.Logger.Sync()
		os.Exit(1)
	}
	_ = application.Logger.Sync()
}
