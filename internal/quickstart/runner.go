// Package quickstart runs the document lifecycle demo: write a document,
// merge an update into it, read it back and optionally delete it. Steps
// run strictly in order and the first failure stops the run.
package quickstart

import (
	"context"
	"fmt"

	"github.com/learn-cloud/cloudkit/internal/docstore"
	"github.com/learn-cloud/cloudkit/internal/events"
)

// Logger is satisfied by *gommon/log.Logger.
type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// InitialDocument is the payload written by the set step.
func InitialDocument() docstore.Data {
	return docstore.Data{
		"title": "Welcome to Firestore",
		"body":  "Hello World",
	}
}

// UpdatePatch is the partial payload merged by the update step.
func UpdatePatch() docstore.Data {
	return docstore.Data{"body": "My first Firestore app"}
}

// Runner holds everything one run needs. Publisher is optional.
type Runner struct {
	Store     docstore.Store
	Ref       docstore.Ref
	Backend   string
	Delete    bool
	Publisher events.Publisher
	Log       Logger
}

// Result reports how far a run got.
type Result struct {
	Completed []string           // names of the steps that succeeded, in order
	Snapshot  *docstore.Snapshot // what the get step read, nil if it never ran
}

type step struct {
	name string
	run  func(ctx context.Context, res *Result) error
}

func (r *Runner) steps() []step {
	s := []step{
		{"set", r.set},
		{"update", r.update},
		{"get", r.get},
	}
	if r.Delete {
		s = append(s, step{"delete", r.delete})
	}
	return s
}

// Run executes the steps in order. The first failing step is logged once
// and returned wrapped with its name; later steps are not attempted and
// earlier ones are not undone.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	res := &Result{}
	for _, st := range r.steps() {
		if err := st.run(ctx, res); err != nil {
			r.Log.Errorf("%s failed: %v", st.name, err)
			return res, fmt.Errorf("%s %s: %w", st.name, r.Ref, err)
		}
		res.Completed = append(res.Completed, st.name)
	}
	if !r.Delete {
		r.Log.Infof("delete step disabled; %s left in place", r.Ref)
	}
	return res, nil
}

func (r *Runner) set(ctx context.Context, _ *Result) error {
	data := InitialDocument()
	if err := r.Store.Set(ctx, r.Ref, data); err != nil {
		return err
	}
	r.Log.Infof("Entered new data into the document %s (collection %s)", r.Ref.ID(), r.Ref.Collection())
	r.publish(ctx, events.NewDocumentEvent(events.OpSet, r.Backend, r.Ref.Path(), data))
	return nil
}

func (r *Runner) update(ctx context.Context, _ *Result) error {
	patch := UpdatePatch()
	if err := r.Store.Update(ctx, r.Ref, patch); err != nil {
		return err
	}
	r.Log.Infof("Updated an existing document %s (collection %s)", r.Ref.ID(), r.Ref.Collection())
	r.publish(ctx, events.NewDocumentEvent(events.OpUpdate, r.Backend, r.Ref.Path(), patch))
	return nil
}

func (r *Runner) get(ctx context.Context, res *Result) error {
	snap, err := r.Store.Get(ctx, r.Ref)
	if err != nil {
		return err
	}
	res.Snapshot = snap
	r.Log.Infof("Read the document %s", r.Ref)
	if snap.Exists {
		r.Log.Infof("Document data: %v", snap.Data)
	} else {
		r.Log.Warnf("Document %s does not exist", r.Ref)
	}
	ev := events.NewDocumentEvent(events.OpGet, r.Backend, r.Ref.Path(), snap.Data)
	ev.Exists = &snap.Exists
	r.publish(ctx, ev)
	return nil
}

func (r *Runner) delete(ctx context.Context, _ *Result) error {
	if err := r.Store.Delete(ctx, r.Ref); err != nil {
		return err
	}
	r.Log.Infof("Deleted the document %s", r.Ref)
	r.publish(ctx, events.NewDocumentEvent(events.OpDelete, r.Backend, r.Ref.Path(), nil))
	return nil
}

// publish never fails the run; a lost audit event is only logged.
func (r *Runner) publish(ctx context.Context, ev events.DocumentEvent) {
	if r.Publisher == nil {
		return
	}
	if err := r.Publisher.Publish(ctx, ev); err != nil {
		r.Log.Warnf("event %s for %s not published: %v", ev.Op, ev.Path, err)
	}
}
