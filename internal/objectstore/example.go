package objectstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// API is the subset of Client the example walks through.
type API interface {
	UploadFile(ctx context.Context, bucket, key, path, contentType string) (string, error)
	DownloadFile(ctx context.Context, bucket, key, destPath string) (string, error)
	DownloadBytes(ctx context.Context, bucket, key string) ([]byte, error)
	List(ctx context.Context, bucket, prefix string) ([]string, error)
	Metadata(ctx context.Context, bucket, key string) (*ObjectMetadata, error)
	Delete(ctx context.Context, bucket, key string) error
	Copy(ctx context.Context, srcBucket, srcKey, dstBucket, dstKey string) (string, error)
	Move(ctx context.Context, srcBucket, srcKey, dstBucket, dstKey string) (string, error)
}

var _ API = (*Client)(nil)

type Logger interface {
	Infof(format string, args ...any)
}

const (
	examplePrefix  = "examples/"
	exampleKey     = examplePrefix + "hello.txt"
	exampleCopyKey = examplePrefix + "hello-copy.txt"
	exampleMoveKey = examplePrefix + "hello-moved.txt"
	ExampleContent = "Hello from GCS CRUD example!\n"
)

// RunExample uploads a small file to bucket and exercises every operation
// on it, then removes what it created. workDir holds the temp upload and
// the downloaded copy. The first failing step ends the run.
func RunExample(ctx context.Context, api API, bucket, workDir string, log Logger) error {
	src, err := os.CreateTemp(workDir, "upload-*.txt")
	if err != nil {
		return err
	}
	defer os.Remove(src.Name())
	if _, err := src.WriteString(ExampleContent); err != nil {
		src.Close()
		return err
	}
	if err := src.Close(); err != nil {
		return err
	}

	log.Infof("Uploading file...")
	uri, err := api.UploadFile(ctx, bucket, exampleKey, src.Name(), "text/plain")
	if err != nil {
		return fmt.Errorf("upload: %w", err)
	}
	log.Infof("Uploaded to: %s", uri)

	log.Infof("Listing objects with prefix %q...", examplePrefix)
	keys, err := api.List(ctx, bucket, examplePrefix)
	if err != nil {
		return fmt.Errorf("list: %w", err)
	}
	log.Infof("%v", keys)

	log.Infof("Getting metadata...")
	md, err := api.Metadata(ctx, bucket, exampleKey)
	if err != nil {
		return fmt.Errorf("metadata: %w", err)
	}
	log.Infof("%+v", *md)

	log.Infof("Downloading to bytes...")
	data, err := api.DownloadBytes(ctx, bucket, exampleKey)
	if err != nil {
		return fmt.Errorf("download: %w", err)
	}
	log.Infof("Downloaded bytes: %q", data)

	log.Infof("Copying object...")
	copied, err := api.Copy(ctx, bucket, exampleKey, bucket, exampleCopyKey)
	if err != nil {
		return fmt.Errorf("copy: %w", err)
	}
	log.Infof("Copied to: %s", copied)

	log.Infof("Moving object...")
	moved, err := api.Move(ctx, bucket, exampleCopyKey, bucket, exampleMoveKey)
	if err != nil {
		return fmt.Errorf("move: %w", err)
	}
	log.Infof("Moved to: %s", moved)

	log.Infof("Downloading to local file...")
	local, err := api.DownloadFile(ctx, bucket, exampleKey, filepath.Join(workDir, "hello-downloaded.txt"))
	if err != nil {
		return fmt.Errorf("download file: %w", err)
	}
	log.Infof("%s", local)

	log.Infof("Deleting original object...")
	if err := api.Delete(ctx, bucket, exampleKey); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	log.Infof("Deleting moved object...")
	if err := api.Delete(ctx, bucket, exampleMoveKey); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return nil
}
