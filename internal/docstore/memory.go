package docstore

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore keeps documents in memory. Data is lost on restart.
// Safe for concurrent use.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]Data
}

func NewMemory() *MemoryStore {
	return &MemoryStore{docs: make(map[string]Data)}
}

func (m *MemoryStore) Set(_ context.Context, ref Ref, data Data) error {
	if ref.IsZero() {
		return ErrInvalidRef
	}
	cp, err := deepCopy(data)
	if err != nil {
		return fmt.Errorf("encode %s: %w", ref, err)
	}
	if cp == nil {
		cp = Data{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[ref.Path()] = cp
	return nil
}

func (m *MemoryStore) Update(_ context.Context, ref Ref, data Data) error {
	if ref.IsZero() {
		return ErrInvalidRef
	}
	if len(data) == 0 {
		return ErrEmptyUpdate
	}
	patch, err := deepCopy(data)
	if err != nil {
		return fmt.Errorf("encode %s: %w", ref, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[ref.Path()]
	if !ok {
		return fmt.Errorf("update %s: %w", ref, ErrNotFound)
	}
	m.docs[ref.Path()] = merge(doc, patch)
	return nil
}

func (m *MemoryStore) Get(_ context.Context, ref Ref) (*Snapshot, error) {
	if ref.IsZero() {
		return nil, ErrInvalidRef
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.docs[ref.Path()]
	if !ok {
		return &Snapshot{Ref: ref}, nil
	}
	cp, err := deepCopy(doc)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", ref, err)
	}
	return &Snapshot{Ref: ref, Exists: true, Data: cp}, nil
}

func (m *MemoryStore) Delete(_ context.Context, ref Ref) error {
	if ref.IsZero() {
		return ErrInvalidRef
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, ref.Path())
	return nil
}

func (m *MemoryStore) Close() error { return nil }
