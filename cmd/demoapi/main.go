package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"

	"github.com/learn-cloud/cloudkit/internal/config"
	"github.com/learn-cloud/cloudkit/internal/handler"
	"github.com/learn-cloud/cloudkit/internal/middleware"
	"github.com/learn-cloud/cloudkit/internal/router"
	"github.com/learn-cloud/cloudkit/internal/server"
)

func main() {
	config.LoadDotEnv()
	cfg := config.LoadServer(config.DefaultServicePort)
	rlCfg := config.LoadRateLimitConfig()

	e := server.New()

	var mw []echo.MiddlewareFunc
	if rlCfg.Enabled {
		rdb, err := config.NewRedisClient(config.LoadRedisConfig())
		if err != nil {
			e.Logger.Warnf("rate limiting disabled: %v", err)
		} else {
			defer rdb.Close()
			mw = append(mw, middleware.NewTokenBucket(rlCfg, rdb))
			e.Logger.Infof("rate limiting %d req per %s (%s)", rlCfg.Capacity, rlCfg.RefillInterval, rlCfg.KeyStrategy)
		}
	}
	router.RegisterDemo(e, handler.NewDemoHandler(), mw...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx, e, cfg); err != nil {
		e.Logger.Fatal(err)
	}
}
