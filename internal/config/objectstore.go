package config

import (
	"errors"
	"time"
)

// ObjectStoreConfig points the S3-compatible client at Cloud Storage's XML
// API by default. GCS interoperability needs HMAC keys, not a service
// account JSON.
type ObjectStoreConfig struct {
	Endpoint  string        // OBJECTSTORE_ENDPOINT
	UseSSL    bool          // OBJECTSTORE_SSL
	Region    string        // OBJECTSTORE_REGION
	AccessKey string        // OBJECTSTORE_ACCESS_KEY or GCS_HMAC_ACCESS_ID
	SecretKey string        // OBJECTSTORE_SECRET_KEY or GCS_HMAC_SECRET
	Timeout   time.Duration // OBJECTSTORE_TIMEOUT, per operation
	Bucket    string        // GCS_BUCKET
	ProjectID string        // GCP_PROJECT_ID, informational for GCS
}

func LoadObjectStore() ObjectStoreConfig {
	return ObjectStoreConfig{
		Endpoint:  envStr("OBJECTSTORE_ENDPOINT", "storage.googleapis.com"),
		UseSSL:    envBool("OBJECTSTORE_SSL", true),
		Region:    envStr("OBJECTSTORE_REGION", "auto"),
		AccessKey: firstEnv("OBJECTSTORE_ACCESS_KEY", "GCS_HMAC_ACCESS_ID"),
		SecretKey: firstEnv("OBJECTSTORE_SECRET_KEY", "GCS_HMAC_SECRET"),
		Timeout:   envDur("OBJECTSTORE_TIMEOUT", 30*time.Second),
		Bucket:    envStr("GCS_BUCKET", "tungtran-bucket"),
		ProjectID: envStr("GCP_PROJECT_ID", "learn-cloud-473302"),
	}
}

func (c ObjectStoreConfig) Validate() error {
	if c.AccessKey == "" || c.SecretKey == "" {
		return errors.New("object storage credentials are not configured")
	}
	if c.Bucket == "" {
		return errors.New("bucket name is required")
	}
	return nil
}
