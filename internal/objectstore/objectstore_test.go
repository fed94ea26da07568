package objectstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/minio/minio-go/v7"

	"github.com/learn-cloud/cloudkit/internal/config"
)

func TestSchemeFor(t *testing.T) {
	cases := map[string]string{
		"storage.googleapis.com":         "gs",
		"https://storage.googleapis.com": "gs",
		"storage.googleapis.com:443":     "gs",
		"minio:9000":                     "s3",
		"s3.amazonaws.com":               "s3",
	}
	for in, want := range cases {
		if got := SchemeFor(in); got != want {
			t.Fatalf("SchemeFor(%q) = %q, want %q", in, got, want)
		}
	}
	if got := URI("gs", "b", "a/b.txt"); got != "gs://b/a/b.txt" {
		t.Fatalf("unexpected uri %q", got)
	}
}

func TestNewRequiresCredentials(t *testing.T) {
	if _, err := New(config.ObjectStoreConfig{Endpoint: "minio:9000"}); err == nil {
		t.Fatal("expected error without credentials")
	}
	c, err := New(config.ObjectStoreConfig{Endpoint: "minio:9000", AccessKey: "a", SecretKey: "s"})
	if err != nil {
		t.Fatal(err)
	}
	if c.scheme != "s3" || c.timeout == 0 {
		t.Fatalf("unexpected client %+v", c)
	}
}

func TestNotFoundMapping(t *testing.T) {
	err := notFound(minio.ErrorResponse{Code: "NoSuchKey", StatusCode: 404}, "b", "k")
	if !errors.Is(err, ErrObjectNotFound) {
		t.Fatalf("expected ErrObjectNotFound, got %v", err)
	}
	other := minio.ErrorResponse{Code: "AccessDenied", StatusCode: 403}
	if err := notFound(other, "b", "k"); errors.Is(err, ErrObjectNotFound) {
		t.Fatal("access denied must not map to not found")
	}
	noBucket := minio.ErrorResponse{Code: "NoSuchBucket", StatusCode: 404}
	if err := notFound(noBucket, "typo", "k"); errors.Is(err, ErrObjectNotFound) {
		t.Fatal("a missing bucket must not look like a missing object")
	}
	if notFound(nil, "b", "k") != nil {
		t.Fatal("nil must stay nil")
	}
}

func TestMetadataFrom(t *testing.T) {
	md := metadataFrom(minio.ObjectInfo{
		Key:          "examples/hello.txt",
		Size:         29,
		ContentType:  "text/plain",
		UserMetadata: minio.StringMap{"owner": "ops"},
	})
	if md.Name != "examples/hello.txt" || md.Size != 29 || md.Metadata["owner"] != "ops" {
		t.Fatalf("unexpected metadata %+v", md)
	}
}

// memAPI keeps objects in a map keyed by bucket/key.
type memAPI struct {
	objects map[string][]byte
	calls   []string
	failOn  string
}

func newMemAPI() *memAPI { return &memAPI{objects: map[string][]byte{}} }

func (m *memAPI) step(name string) error {
	m.calls = append(m.calls, name)
	if name == m.failOn {
		return errors.New("boom")
	}
	return nil
}

func (m *memAPI) get(bucket, key string) ([]byte, error) {
	b, ok := m.objects[bucket+"/"+key]
	if !ok {
		return nil, ErrObjectNotFound
	}
	return b, nil
}

func (m *memAPI) UploadFile(_ context.Context, bucket, key, path, _ string) (string, error) {
	if err := m.step("upload"); err != nil {
		return "", err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	m.objects[bucket+"/"+key] = b
	return URI("gs", bucket, key), nil
}

func (m *memAPI) DownloadFile(_ context.Context, bucket, key, dest string) (string, error) {
	if err := m.step("download_file"); err != nil {
		return "", err
	}
	b, err := m.get(bucket, key)
	if err != nil {
		return "", err
	}
	return dest, os.WriteFile(dest, b, 0o644)
}

func (m *memAPI) DownloadBytes(_ context.Context, bucket, key string) ([]byte, error) {
	if err := m.step("download"); err != nil {
		return nil, err
	}
	return m.get(bucket, key)
}

func (m *memAPI) List(_ context.Context, bucket, prefix string) ([]string, error) {
	if err := m.step("list"); err != nil {
		return nil, err
	}
	var keys []string
	for k := range m.objects {
		if name, ok := strings.CutPrefix(k, bucket+"/"); ok && strings.HasPrefix(name, prefix) {
			keys = append(keys, name)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *memAPI) Metadata(_ context.Context, bucket, key string) (*ObjectMetadata, error) {
	if err := m.step("metadata"); err != nil {
		return nil, err
	}
	b, err := m.get(bucket, key)
	if err != nil {
		return nil, err
	}
	return &ObjectMetadata{Name: key, Size: int64(len(b))}, nil
}

func (m *memAPI) Delete(_ context.Context, bucket, key string) error {
	if err := m.step("delete"); err != nil {
		return err
	}
	delete(m.objects, bucket+"/"+key)
	return nil
}

func (m *memAPI) Copy(_ context.Context, sb, sk, db, dk string) (string, error) {
	if err := m.step("copy"); err != nil {
		return "", err
	}
	b, err := m.get(sb, sk)
	if err != nil {
		return "", err
	}
	m.objects[db+"/"+dk] = b
	return URI("gs", db, dk), nil
}

func (m *memAPI) Move(ctx context.Context, sb, sk, db, dk string) (string, error) {
	if err := m.step("move"); err != nil {
		return "", err
	}
	b, err := m.get(sb, sk)
	if err != nil {
		return "", err
	}
	m.objects[db+"/"+dk] = b
	delete(m.objects, sb+"/"+sk)
	return URI("gs", db, dk), nil
}

type nopLog struct{}

func (nopLog) Infof(string, ...any) {}

func TestRunExample(t *testing.T) {
	api := newMemAPI()
	dir := t.TempDir()
	if err := RunExample(context.Background(), api, "bkt", dir, nopLog{}); err != nil {
		t.Fatal(err)
	}

	want := []string{"upload", "list", "metadata", "download", "copy", "move", "download_file", "delete", "delete"}
	if strings.Join(api.calls, ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected call order %v", api.calls)
	}
	if len(api.objects) != 0 {
		t.Fatalf("example left objects behind: %v", api.objects)
	}
	got, err := os.ReadFile(filepath.Join(dir, "hello-downloaded.txt"))
	if err != nil || string(got) != ExampleContent {
		t.Fatalf("unexpected download %q (%v)", got, err)
	}
}

func TestRunExampleStopsAtFirstFailure(t *testing.T) {
	api := newMemAPI()
	api.failOn = "metadata"
	err := RunExample(context.Background(), api, "bkt", t.TempDir(), nopLog{})
	if err == nil || !strings.HasPrefix(err.Error(), "metadata:") {
		t.Fatalf("expected metadata failure, got %v", err)
	}
	if last := api.calls[len(api.calls)-1]; last != "metadata" {
		t.Fatalf("ran past failure: %v", api.calls)
	}
}
