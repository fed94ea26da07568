package main // Entry point of the greeter service

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/learn-cloud/cloudkit/internal/config" // env + .env loading
	"github.com/learn-cloud/cloudkit/internal/router" // route registration
	"github.com/learn-cloud/cloudkit/internal/server" // echo bootstrap
)

func main() {
	config.LoadDotEnv()
	cfg := config.LoadGreeter() // PORT, default 3000

	e := server.New()
	router.RegisterRoutes(e)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx, e, cfg); err != nil {
		e.Logger.Fatal(err) // bind failure or unexpected server error
	}
}
