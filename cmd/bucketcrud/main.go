package main

import (
	"context"
	"os"

	"github.com/spf13/pflag"

	"github.com/learn-cloud/cloudkit/internal/config"
	"github.com/learn-cloud/cloudkit/internal/logging"
	"github.com/learn-cloud/cloudkit/internal/objectstore"
)

func main() {
	config.LoadDotEnv()
	cfg := config.LoadObjectStore()
	logger := logging.New("bucketcrud")

	pflag.StringVar(&cfg.Bucket, "bucket", cfg.Bucket, "bucket to run the example against (GCS_BUCKET)")
	pflag.StringVar(&cfg.ProjectID, "project", cfg.ProjectID, "GCP project id (GCP_PROJECT_ID)")
	pflag.StringVar(&cfg.Endpoint, "endpoint", cfg.Endpoint, "S3-compatible endpoint")
	workDir := pflag.String("workdir", os.TempDir(), "directory for the temp upload and download")
	pflag.Parse()

	if err := cfg.Validate(); err != nil {
		logger.Fatal(err)
	}
	client, err := objectstore.New(cfg)
	if err != nil {
		logger.Fatal(err)
	}
	logger.Infof("bucket=%s project=%s endpoint=%s", cfg.Bucket, cfg.ProjectID, cfg.Endpoint)

	if err := objectstore.RunExample(context.Background(), client, cfg.Bucket, *workDir, logger); err != nil {
		logger.Fatal(err)
	}
}
