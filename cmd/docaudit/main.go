package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/learn-cloud/cloudkit/internal/config"
	"github.com/learn-cloud/cloudkit/internal/events"
)

func main() {
	config.LoadDotEnv()
	amqpCfg := config.LoadAMQP()

	var cfg events.ConsumerConfig
	pflag.StringVar(&cfg.URL, "amqp-url", amqpCfg.URLOrDefault(), "broker url (RABBITMQ_URL)")
	pflag.StringVar(&cfg.Queue, "queue", amqpCfg.Queue, "queue carrying document events")
	pflag.StringVar(&cfg.LogDir, "log-dir", "logs", "directory for document.log")
	pflag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("docaudit: consuming %s into %s/document.log", cfg.Queue, cfg.LogDir)
	if err := events.StartConsumer(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal(err)
	}
}
