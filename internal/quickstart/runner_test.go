package quickstart

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/learn-cloud/cloudkit/internal/docstore"
	"github.com/learn-cloud/cloudkit/internal/events"
)

// countingStore wraps a real store, counts calls and can fail chosen ops.
type countingStore struct {
	docstore.Store
	calls map[string]int
	fail  map[string]error
}

func newCountingStore() *countingStore {
	return &countingStore{
		Store: docstore.NewMemory(),
		calls: map[string]int{},
		fail:  map[string]error{},
	}
}

func (c *countingStore) Set(ctx context.Context, ref docstore.Ref, data docstore.Data) error {
	c.calls["set"]++
	if err := c.fail["set"]; err != nil {
		return err
	}
	return c.Store.Set(ctx, ref, data)
}

func (c *countingStore) Update(ctx context.Context, ref docstore.Ref, data docstore.Data) error {
	c.calls["update"]++
	if err := c.fail["update"]; err != nil {
		return err
	}
	return c.Store.Update(ctx, ref, data)
}

func (c *countingStore) Get(ctx context.Context, ref docstore.Ref) (*docstore.Snapshot, error) {
	c.calls["get"]++
	if err := c.fail["get"]; err != nil {
		return nil, err
	}
	return c.Store.Get(ctx, ref)
}

func (c *countingStore) Delete(ctx context.Context, ref docstore.Ref) error {
	c.calls["delete"]++
	if err := c.fail["delete"]; err != nil {
		return err
	}
	return c.Store.Delete(ctx, ref)
}

type memLog struct{ lines []string }

func (l *memLog) Infof(f string, a ...interface{})  { l.lines = append(l.lines, "INFO "+fmt.Sprintf(f, a...)) }
func (l *memLog) Warnf(f string, a ...interface{})  { l.lines = append(l.lines, "WARN "+fmt.Sprintf(f, a...)) }
func (l *memLog) Errorf(f string, a ...interface{}) { l.lines = append(l.lines, "ERROR "+fmt.Sprintf(f, a...)) }

func (l *memLog) count(prefix string) int {
	n := 0
	for _, s := range l.lines {
		if strings.HasPrefix(s, prefix) {
			n++
		}
	}
	return n
}

type recordingPublisher struct {
	ops []string
	err error
}

func (p *recordingPublisher) Publish(_ context.Context, ev events.DocumentEvent) error {
	p.ops = append(p.ops, ev.Op)
	return p.err
}

func newRunner(s docstore.Store) (*Runner, *memLog) {
	l := &memLog{}
	return &Runner{
		Store:   s,
		Ref:     docstore.MustRef("users/user1"),
		Backend: "memory",
		Log:     l,
	}, l
}

func TestRunHappyPath(t *testing.T) {
	s := newCountingStore()
	r, l := newRunner(s)

	res, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := strings.Join(res.Completed, ","); got != "set,update,get" {
		t.Fatalf("Completed = %s", got)
	}
	if res.Snapshot == nil || !res.Snapshot.Exists {
		t.Fatalf("expected an existing snapshot, got %+v", res.Snapshot)
	}
	if res.Snapshot.Data["title"] != "Welcome to Firestore" || res.Snapshot.Data["body"] != "My first Firestore app" {
		t.Fatalf("unexpected data: %v", res.Snapshot.Data)
	}
	if s.calls["delete"] != 0 {
		t.Fatal("delete must not run unless enabled")
	}
	if l.count("ERROR") != 0 {
		t.Fatalf("unexpected error logs: %v", l.lines)
	}
	if l.count("INFO Entered new data into the document user1 (collection users)") != 1 {
		t.Fatalf("set step should name the document and its collection: %v", l.lines)
	}
}

func TestRunShortCircuitsOnSetFailure(t *testing.T) {
	s := newCountingStore()
	boom := errors.New("connection refused")
	s.fail["set"] = boom
	r, l := newRunner(s)
	r.Delete = true

	res, err := r.Run(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped connectivity error, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "set users/user1") {
		t.Fatalf("error should name the step: %v", err)
	}
	if s.calls["set"] != 1 {
		t.Fatalf("set calls = %d", s.calls["set"])
	}
	for _, op := range []string{"update", "get", "delete"} {
		if s.calls[op] != 0 {
			t.Fatalf("%s attempted %d times after set failed", op, s.calls[op])
		}
	}
	if len(res.Completed) != 0 || res.Snapshot != nil {
		t.Fatalf("unexpected partial result %+v", res)
	}
	if l.count("ERROR") != 1 {
		t.Fatalf("failure must be logged exactly once: %v", l.lines)
	}
}

func TestRunStopsAfterUpdateFailureWithoutRollback(t *testing.T) {
	s := newCountingStore()
	s.fail["update"] = errors.New("permission denied")
	r, _ := newRunner(s)

	res, err := r.Run(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if s.calls["get"] != 0 {
		t.Fatal("get must be skipped")
	}
	if got := strings.Join(res.Completed, ","); got != "set" {
		t.Fatalf("Completed = %s", got)
	}
	snap, _ := s.Store.Get(context.Background(), r.Ref)
	if !snap.Exists || snap.Data["body"] != "Hello World" {
		t.Fatalf("set must not be compensated, got %+v", snap)
	}
}

func TestRunWithDelete(t *testing.T) {
	s := newCountingStore()
	r, _ := newRunner(s)
	r.Delete = true

	res, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := strings.Join(res.Completed, ","); got != "set,update,get,delete" {
		t.Fatalf("Completed = %s", got)
	}
	snap, _ := s.Store.Get(context.Background(), r.Ref)
	if snap.Exists {
		t.Fatal("document should be deleted")
	}
}

func TestRunPublishesEventsAndIgnoresPublishErrors(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	r, l := newRunner(newCountingStore())
	r.Delete = true
	r.Publisher = pub

	if _, err := r.Run(context.Background()); err != nil {
		t.Fatalf("publish failures must not fail the run: %v", err)
	}
	if got := strings.Join(pub.ops, ","); got != "set,update,get,delete" {
		t.Fatalf("published ops = %s", got)
	}
	if l.count("WARN") != 4 {
		t.Fatalf("expected one warning per lost event: %v", l.lines)
	}
}
