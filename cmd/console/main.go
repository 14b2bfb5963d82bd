package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"admin/internal/api"

	"github.com/sirupsen/logrus"
)

// @title Content Admin Console API
// @version 1.0
// @description Page shell of the content admin console: lists, create/edit modal and dashboard over the content API.
// @BasePath /
func main() {
	logrus.Info("App start")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := api.StartServer(ctx); err != nil {
		logrus.Fatal(err)
	}

	logrus.Info("App terminated")
}
