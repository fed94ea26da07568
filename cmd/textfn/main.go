package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/learn-cloud/cloudkit/internal/config"
	"github.com/learn-cloud/cloudkit/internal/router"
	"github.com/learn-cloud/cloudkit/internal/server"
)

func main() {
	config.LoadDotEnv()
	cfg := config.LoadServer(config.DefaultServicePort)

	e := server.New()
	router.RegisterTextFunction(e)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx, e, cfg); err != nil {
		e.Logger.Fatal(err)
	}
}
