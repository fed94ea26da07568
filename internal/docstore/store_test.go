package docstore_test

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/learn-cloud/cloudkit/internal/database"
	"github.com/learn-cloud/cloudkit/internal/docstore"
)

// runStoreTests runs a common test suite against any Store implementation.
func runStoreTests(t *testing.T, s docstore.Store) {
	t.Helper()
	ctx := context.Background()
	ref := docstore.MustRef("users/user1")

	t.Run("Get missing", func(t *testing.T) {
		snap, err := s.Get(ctx, docstore.MustRef("users/nobody"))
		if err != nil {
			t.Fatal(err)
		}
		if snap.Exists {
			t.Fatal("expected Exists=false")
		}
		if snap.Data != nil {
			t.Fatalf("expected nil data, got %v", snap.Data)
		}
	})

	t.Run("Set and Get", func(t *testing.T) {
		err := s.Set(ctx, ref, docstore.Data{"title": "Welcome to Firestore", "body": "Hello World"})
		if err != nil {
			t.Fatal(err)
		}
		snap, err := s.Get(ctx, ref)
		if err != nil {
			t.Fatal(err)
		}
		if !snap.Exists {
			t.Fatal("expected document to exist")
		}
		if snap.Data["title"] != "Welcome to Firestore" || snap.Data["body"] != "Hello World" {
			t.Fatalf("unexpected data %v", snap.Data)
		}
	})

	t.Run("Update merges", func(t *testing.T) {
		if err := s.Update(ctx, ref, docstore.Data{"body": "My first Firestore app"}); err != nil {
			t.Fatal(err)
		}
		snap, err := s.Get(ctx, ref)
		if err != nil {
			t.Fatal(err)
		}
		if snap.Data["title"] != "Welcome to Firestore" {
			t.Fatalf("update erased title: %v", snap.Data)
		}
		if snap.Data["body"] != "My first Firestore app" {
			t.Fatalf("body not updated: %v", snap.Data)
		}
		if len(snap.Data) != 2 {
			t.Fatalf("expected 2 fields, got %v", snap.Data)
		}
	})

	t.Run("Update keeps untouched fields exact", func(t *testing.T) {
		big := docstore.MustRef("users/big")
		const id = int64(9007199254740993) // 2^53 + 1
		if err := s.Set(ctx, big, docstore.Data{"id": id, "body": "a"}); err != nil {
			t.Fatal(err)
		}
		if err := s.Update(ctx, big, docstore.Data{"body": "b"}); err != nil {
			t.Fatal(err)
		}
		snap, err := s.Get(ctx, big)
		if err != nil {
			t.Fatal(err)
		}
		if got, ok := snap.Data["id"].(int64); !ok || got != id {
			t.Fatalf("id changed by update: %T %v", snap.Data["id"], snap.Data["id"])
		}
		if snap.Data["body"] != "b" {
			t.Fatalf("body not updated: %v", snap.Data)
		}
		if err := s.Delete(ctx, big); err != nil {
			t.Fatal(err)
		}
	})

	t.Run("Set replaces", func(t *testing.T) {
		if err := s.Set(ctx, ref, docstore.Data{"title": "only"}); err != nil {
			t.Fatal(err)
		}
		snap, err := s.Get(ctx, ref)
		if err != nil {
			t.Fatal(err)
		}
		if _, ok := snap.Field("body"); ok {
			t.Fatalf("Set must replace the whole document, got %v", snap.Data)
		}
	})

	t.Run("Update missing", func(t *testing.T) {
		err := s.Update(ctx, docstore.MustRef("users/ghost"), docstore.Data{"body": "x"})
		if !errors.Is(err, docstore.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		snap, err := s.Get(ctx, docstore.MustRef("users/ghost"))
		if err != nil {
			t.Fatal(err)
		}
		if snap.Exists {
			t.Fatal("failed update must not create the document")
		}
	})

	t.Run("Update empty", func(t *testing.T) {
		if err := s.Update(ctx, ref, docstore.Data{}); !errors.Is(err, docstore.ErrEmptyUpdate) {
			t.Fatalf("expected ErrEmptyUpdate, got %v", err)
		}
	})

	t.Run("Delete is idempotent", func(t *testing.T) {
		if err := s.Delete(ctx, ref); err != nil {
			t.Fatal(err)
		}
		snap, err := s.Get(ctx, ref)
		if err != nil {
			t.Fatal(err)
		}
		if snap.Exists {
			t.Fatal("expected document to be gone")
		}
		if err := s.Delete(ctx, ref); err != nil {
			t.Fatalf("second delete: %v", err)
		}
		if err := s.Delete(ctx, docstore.MustRef("never/existed")); err != nil {
			t.Fatalf("delete missing: %v", err)
		}
	})

	t.Run("Nested paths are distinct", func(t *testing.T) {
		sub := docstore.MustRef("users/user1/posts/p1")
		if err := s.Set(ctx, sub, docstore.Data{"title": "post"}); err != nil {
			t.Fatal(err)
		}
		snap, err := s.Get(ctx, ref)
		if err != nil {
			t.Fatal(err)
		}
		if snap.Exists {
			t.Fatal("writing a subcollection document must not create its parent")
		}
		if err := s.Delete(ctx, sub); err != nil {
			t.Fatal(err)
		}
	})
}

// runJSONStoreTests covers the backends that persist documents as JSON.
func runJSONStoreTests(t *testing.T, s docstore.Store) {
	t.Helper()
	ctx := context.Background()
	ref := docstore.MustRef("users/json")

	t.Run("Unencodable Set fails and keeps the old document", func(t *testing.T) {
		if err := s.Set(ctx, ref, docstore.Data{"title": "Welcome"}); err != nil {
			t.Fatal(err)
		}
		err := s.Set(ctx, ref, docstore.Data{"title": "Welcome", "ratio": math.Inf(1)})
		if err == nil {
			t.Fatal("expected encode error")
		}
		snap, err := s.Get(ctx, ref)
		if err != nil {
			t.Fatal(err)
		}
		if snap.Data["title"] != "Welcome" || len(snap.Data) != 1 {
			t.Fatalf("failed Set changed the document: %v", snap.Data)
		}
	})

	t.Run("Unencodable Update fails", func(t *testing.T) {
		if err := s.Update(ctx, ref, docstore.Data{"ratio": math.NaN()}); err == nil {
			t.Fatal("expected encode error")
		}
		snap, err := s.Get(ctx, ref)
		if err != nil {
			t.Fatal(err)
		}
		if _, ok := snap.Field("ratio"); ok {
			t.Fatalf("failed Update changed the document: %v", snap.Data)
		}
	})

	t.Run("Numbers keep their kind", func(t *testing.T) {
		in := docstore.Data{"n": int64(42), "f": 1.5, "nested": map[string]any{"big": int64(1234567890123456789)}}
		if err := s.Set(ctx, ref, in); err != nil {
			t.Fatal(err)
		}
		snap, err := s.Get(ctx, ref)
		if err != nil {
			t.Fatal(err)
		}
		if snap.Data["n"] != int64(42) || snap.Data["f"] != 1.5 {
			t.Fatalf("unexpected numbers %#v", snap.Data)
		}
		nested, _ := snap.Data["nested"].(map[string]any)
		if nested["big"] != int64(1234567890123456789) {
			t.Fatalf("nested number changed: %#v", nested)
		}
	})
}

func TestMemoryStore(t *testing.T) {
	s := docstore.NewMemory()
	runStoreTests(t, s)
	runJSONStoreTests(t, s)
}

func TestMemoryStoreIsolatesCallers(t *testing.T) {
	s := docstore.NewMemory()
	ctx := context.Background()
	ref := docstore.MustRef("users/user1")
	in := docstore.Data{"title": "a"}
	if err := s.Set(ctx, ref, in); err != nil {
		t.Fatal(err)
	}
	in["title"] = "mutated"
	snap, _ := s.Get(ctx, ref)
	snap.Data["title"] = "also mutated"
	again, _ := s.Get(ctx, ref)
	if again.Data["title"] != "a" {
		t.Fatalf("store shares memory with callers: %v", again.Data)
	}
}

func TestSQLiteStore(t *testing.T) {
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "docs.db"))
	if err != nil {
		t.Fatal(err)
	}
	s := docstore.NewSQLite(db)
	defer s.Close()
	if err := s.Migrate(context.Background()); err != nil {
		t.Fatal(err)
	}
	runStoreTests(t, s)
	runJSONStoreTests(t, s)
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := docstore.NewRedis(rdb, "test")
	defer s.Close()
	runStoreTests(t, s)
	runJSONStoreTests(t, s)

	if err := s.Set(context.Background(), docstore.MustRef("users/keyed"), docstore.Data{"a": "b"}); err != nil {
		t.Fatal(err)
	}
	if !mr.Exists("test:users/keyed") {
		t.Fatalf("expected key test:users/keyed, have %v", mr.Keys())
	}
}

func TestFirestoreStore(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}
	s, err := docstore.NewFirestore(context.Background(), "cloudkit-test", "(default)")
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	runStoreTests(t, s)
}
