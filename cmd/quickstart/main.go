package main

import (
	"context"
	"os"

	"github.com/learn-cloud/cloudkit/internal/config"
	"github.com/learn-cloud/cloudkit/internal/docstore"
	"github.com/learn-cloud/cloudkit/internal/events"
	"github.com/learn-cloud/cloudkit/internal/logging"
	"github.com/learn-cloud/cloudkit/internal/quickstart"
)

func main() {
	os.Exit(run())
}

// run returns the process exit code so deferred cleanup runs first.
func run() int {
	config.LoadDotEnv()
	logger := logging.New("quickstart")

	storeCfg := config.LoadDocStore()
	qsCfg := config.LoadQuickstart()

	ref, err := docstore.ParseRef(qsCfg.DocPath)
	if err != nil {
		logger.Fatalf("QUICKSTART_DOC: %v", err)
	}

	ctx := context.Background()
	store, err := docstore.Open(ctx, storeCfg)
	if err != nil {
		logger.Fatalf("open %s store: %v", storeCfg.Backend, err)
	}
	logger.Infof("connected to %s store (project=%s database=%s)", storeCfg.Backend, storeCfg.ProjectID, storeCfg.DatabaseID)

	runner := &quickstart.Runner{
		Store:   store,
		Ref:     ref,
		Backend: storeCfg.Backend,
		Delete:  qsCfg.Delete,
		Log:     logger,
	}

	if amqpCfg := config.LoadAMQP(); amqpCfg.Enabled() {
		pub, err := events.DialPublisher(amqpCfg.URL, amqpCfg.Queue)
		if err != nil {
			logger.Warnf("document events disabled: %v", err)
		} else {
			defer pub.Close()
			runner.Publisher = pub
		}
	}

	_, runErr := runner.Run(ctx)
	if err := store.Close(); err != nil {
		logger.Warnf("close store: %v", err)
	}
	if runErr != nil {
		return 1
	}
	return 0
}
