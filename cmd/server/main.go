package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/profitlens/profitlens/internal/app/runtime"
	"github.com/profitlens/profitlens/pkg/logger"
)

func main() {
	application, err := runtime.NewApplication()
	if err != nil {
		logger.NewDefault("server").WithError(err).Fatal("failed to initialise application")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil && err != http.ErrServerClosed {
		application.Log().WithError(err).Fatal("server failed")
	}

	if err := application.Shutdown(context.Background()); err != nil {
		application.Log().WithError(err).Error("shutdown failed")
	}
}
