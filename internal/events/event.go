// Package events carries document lifecycle events over RabbitMQ: the
// quickstart publishes one event per completed step and the docaudit
// consumer appends them to logs/document.log.
package events

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Document operations.
const (
	OpSet    = "set"
	OpUpdate = "update"
	OpGet    = "get"
	OpDelete = "delete"
)

// DocumentEvent is published after a document operation succeeds. It
// names the fields touched but never carries their values.
type DocumentEvent struct {
	ID         string   `json:"id"`
	Op         string   `json:"op"`
	Path       string   `json:"path"`
	Backend    string   `json:"backend"`
	Fields     []string `json:"fields,omitempty"`
	Exists     *bool    `json:"exists,omitempty"` // only for get
	OccurredAt string   `json:"occurred_at"`
}

// NewDocumentEvent stamps an event with a fresh id and the current time.
func NewDocumentEvent(op, backend, path string, fields map[string]any) DocumentEvent {
	var names []string
	for k := range fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return DocumentEvent{
		ID:         uuid.NewString(),
		Op:         op,
		Path:       path,
		Backend:    backend,
		Fields:     names,
		OccurredAt: time.Now().UTC().Format(time.RFC3339Nano),
	}
}

// Publisher sends events somewhere. Implementations must be safe to call
// from one goroutine at a time; the quickstart never publishes concurrently.
type Publisher interface {
	Publish(ctx context.Context, ev DocumentEvent) error
}
