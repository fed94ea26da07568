// Package docstore is a small document database abstraction modelled on
// Firestore: documents live at slash-separated paths, Set replaces a whole
// document, Update merges named fields into an existing one, Get reports
// existence separately from data, and Delete is idempotent.
package docstore

import (
	"bytes"
	"context"
	"encoding/json"
)

// Data is a document payload: field name to value.
type Data = map[string]any

// Store is implemented by every backend.
type Store interface {
	// Set writes data at ref, replacing any existing content.
	Set(ctx context.Context, ref Ref, data Data) error

	// Update merges data into the existing document at ref. Fields not
	// named in data are left untouched. Returns ErrNotFound when there is
	// no document and ErrEmptyUpdate when data has no fields.
	Update(ctx context.Context, ref Ref, data Data) error

	// Get fetches the document at ref. A missing document is not an
	// error: the snapshot comes back with Exists set to false.
	Get(ctx context.Context, ref Ref) (*Snapshot, error)

	// Delete removes the document at ref. Deleting a missing document
	// succeeds.
	Delete(ctx context.Context, ref Ref) error

	// Close releases the connection handle.
	Close() error
}

// Snapshot is the result of a Get.
type Snapshot struct {
	Ref    Ref
	Exists bool
	Data   Data // nil when Exists is false
}

// Field returns a top-level field of the document.
func (s *Snapshot) Field(name string) (any, bool) {
	if s == nil || !s.Exists {
		return nil, false
	}
	v, ok := s.Data[name]
	return v, ok
}

// merge applies patch on top of doc at the top level, the same granularity
// a Firestore field-path update without dots has.
func merge(doc, patch Data) Data {
	if doc == nil {
		doc = make(Data, len(patch))
	}
	for k, v := range patch {
		doc[k] = v
	}
	return doc
}

// deepCopy returns a deep copy of a document by round-tripping through
// JSON, with the same number handling as decode.
func deepCopy(src Data) (Data, error) {
	if src == nil {
		return nil, nil
	}
	raw, err := json.Marshal(src)
	if err != nil {
		return nil, err
	}
	return decode(raw)
}

func encode(data Data) ([]byte, error) {
	if data == nil {
		data = Data{}
	}
	return json.Marshal(data)
}

// decode parses a stored document. Integral numbers that fit come back as
// int64, like the Firestore client returns them; everything else numeric is
// float64.
func decode(raw []byte) (Data, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var data Data
	if err := dec.Decode(&data); err != nil {
		return nil, err
	}
	if data == nil {
		return Data{}, nil
	}
	for k, v := range data {
		data[k] = numbers(v)
	}
	return data, nil
}

func numbers(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		f, _ := t.Float64()
		return f
	case map[string]any:
		for k, e := range t {
			t[k] = numbers(e)
		}
	case []any:
		for i, e := range t {
			t[i] = numbers(e)
		}
	}
	return v
}
