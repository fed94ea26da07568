// Package objectstore is a small CRUD client for S3-compatible buckets. By
// default it talks to Cloud Storage through its XML interoperability API,
// authenticated with HMAC keys.
package objectstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	minioCreds "github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/learn-cloud/cloudkit/internal/config"
)

// ErrObjectNotFound is returned by reads of a key that does not exist.
var ErrObjectNotFound = errors.New("object not found")

const gcsEndpoint = "storage.googleapis.com"

// ObjectMetadata is what Metadata reports about an object.
type ObjectMetadata struct {
	Name         string            `json:"name"`
	Size         int64             `json:"size"`
	ContentType  string            `json:"content_type"`
	Updated      time.Time         `json:"updated"`
	ETag         string            `json:"etag"`
	VersionID    string            `json:"version_id,omitempty"`
	StorageClass string            `json:"storage_class,omitempty"`
	CRC32C       string            `json:"crc32c,omitempty"`
	Metadata     map[string]string `json:"metadata"`
}

type Client struct {
	mc      *minio.Client
	scheme  string
	timeout time.Duration
}

func New(cfg config.ObjectStoreConfig) (*Client, error) {
	if strings.TrimSpace(cfg.AccessKey) == "" || strings.TrimSpace(cfg.SecretKey) == "" {
		return nil, fmt.Errorf("object storage credentials are not configured")
	}
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		endpoint = gcsEndpoint
	}
	mc, err := minio.New(endpoint, &minio.Options{
		Creds:  minioCreds.NewStaticV4(strings.TrimSpace(cfg.AccessKey), strings.TrimSpace(cfg.SecretKey), ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("objectstore: %w", err)
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{mc: mc, scheme: SchemeFor(endpoint), timeout: timeout}, nil
}

// SchemeFor returns "gs" for the Cloud Storage endpoint and "s3" otherwise.
func SchemeFor(endpoint string) string {
	host := strings.ToLower(strings.TrimSpace(endpoint))
	host = strings.TrimPrefix(strings.TrimPrefix(host, "https://"), "http://")
	if host == gcsEndpoint || strings.HasPrefix(host, gcsEndpoint+":") {
		return "gs"
	}
	return "s3"
}

// URI formats scheme://bucket/key.
func URI(scheme, bucket, key string) string {
	return scheme + "://" + bucket + "/" + key
}

func (c *Client) uri(bucket, key string) string { return URI(c.scheme, bucket, key) }

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.timeout)
}

// notFound maps NoSuchKey to ErrObjectNotFound. Other 404s, such as
// NoSuchBucket, pass through unchanged.
func notFound(err error, bucket, key string) error {
	if err == nil {
		return nil
	}
	resp := minio.ToErrorResponse(err)
	if resp.Code == "NoSuchKey" {
		return fmt.Errorf("%w: %s/%s", ErrObjectNotFound, bucket, key)
	}
	return err
}

func (c *Client) UploadFile(ctx context.Context, bucket, key, path, contentType string) (string, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	if _, err := c.mc.FPutObject(ctx, bucket, key, path, minio.PutObjectOptions{ContentType: contentType}); err != nil {
		return "", fmt.Errorf("upload %s: %w", path, err)
	}
	return c.uri(bucket, key), nil
}

func (c *Client) UploadBytes(ctx context.Context, bucket, key string, data []byte, contentType string) (string, error) {
	if strings.TrimSpace(contentType) == "" {
		contentType = "application/octet-stream"
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	_, err := c.mc.PutObject(ctx, bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return c.uri(bucket, key), nil
}

// DownloadFile writes the object to destPath, creating parent directories.
func (c *Client) DownloadFile(ctx context.Context, bucket, key, destPath string) (string, error) {
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return "", err
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	if err := c.mc.FGetObject(ctx, bucket, key, destPath, minio.GetObjectOptions{}); err != nil {
		return "", notFound(err, bucket, key)
	}
	return destPath, nil
}

func (c *Client) DownloadBytes(ctx context.Context, bucket, key string) ([]byte, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	obj, err := c.mc.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, notFound(err, bucket, key)
	}
	defer obj.Close()
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, notFound(err, bucket, key)
	}
	return data, nil
}

// List returns every key under prefix, recursively.
func (c *Client) List(ctx context.Context, bucket, prefix string) ([]string, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	var keys []string
	for obj := range c.mc.ListObjects(ctx, bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		if strings.TrimSpace(obj.Key) == "" {
			continue
		}
		keys = append(keys, obj.Key)
	}
	return keys, nil
}

func (c *Client) Metadata(ctx context.Context, bucket, key string) (*ObjectMetadata, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	info, err := c.mc.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return nil, notFound(err, bucket, key)
	}
	return metadataFrom(info), nil
}

func metadataFrom(info minio.ObjectInfo) *ObjectMetadata {
	md := &ObjectMetadata{
		Name:         info.Key,
		Size:         info.Size,
		ContentType:  info.ContentType,
		Updated:      info.LastModified,
		ETag:         info.ETag,
		VersionID:    info.VersionID,
		StorageClass: info.StorageClass,
		CRC32C:       info.ChecksumCRC32C,
		Metadata:     map[string]string{},
	}
	for k, v := range info.UserMetadata {
		md.Metadata[k] = v
	}
	return md
}

// Delete removes the object. Deleting a missing key is not an error.
func (c *Client) Delete(ctx context.Context, bucket, key string) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	err := c.mc.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{})
	if errors.Is(notFound(err, bucket, key), ErrObjectNotFound) {
		return nil
	}
	return err
}

func (c *Client) Copy(ctx context.Context, srcBucket, srcKey, dstBucket, dstKey string) (string, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	_, err := c.mc.CopyObject(ctx,
		minio.CopyDestOptions{Bucket: dstBucket, Object: dstKey},
		minio.CopySrcOptions{Bucket: srcBucket, Object: srcKey},
	)
	if err != nil {
		return "", notFound(err, srcBucket, srcKey)
	}
	return c.uri(dstBucket, dstKey), nil
}

// Move copies then deletes the source. A failed copy leaves the source alone.
func (c *Client) Move(ctx context.Context, srcBucket, srcKey, dstBucket, dstKey string) (string, error) {
	uri, err := c.Copy(ctx, srcBucket, srcKey, dstBucket, dstKey)
	if err != nil {
		return "", err
	}
	if err := c.Delete(ctx, srcBucket, srcKey); err != nil {
		return "", fmt.Errorf("moved to %s but source delete failed: %w", uri, err)
	}
	return uri, nil
}
