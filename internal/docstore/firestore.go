package docstore

import (
	"context"
	"fmt"
	"sort"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore talks to Cloud Firestore, or to the emulator when
// FIRESTORE_EMULATOR_HOST is set (the client library picks that up itself).
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestore creates a client bound to projectID and databaseID.
// Credentials come from Application Default Credentials.
func NewFirestore(ctx context.Context, projectID, databaseID string) (*FirestoreStore, error) {
	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, fmt.Errorf("firestore client (project=%s database=%s): %w", projectID, databaseID, err)
	}
	return &FirestoreStore{client: client}, nil
}

func (f *FirestoreStore) doc(ref Ref) (*firestore.DocumentRef, error) {
	d := f.client.Doc(ref.Path())
	if d == nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRef, ref.Path())
	}
	return d, nil
}

func (f *FirestoreStore) Set(ctx context.Context, ref Ref, data Data) error {
	d, err := f.doc(ref)
	if err != nil {
		return err
	}
	if data == nil {
		data = Data{}
	}
	_, err = d.Set(ctx, data)
	return err
}

func (f *FirestoreStore) Update(ctx context.Context, ref Ref, data Data) error {
	if len(data) == 0 {
		return ErrEmptyUpdate
	}
	d, err := f.doc(ref)
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	// FieldPath keeps keys containing dots literal.
	updates := make([]firestore.Update, 0, len(keys))
	for _, k := range keys {
		updates = append(updates, firestore.Update{FieldPath: firestore.FieldPath{k}, Value: data[k]})
	}
	if _, err := d.Update(ctx, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("update %s: %w", ref, ErrNotFound)
		}
		return err
	}
	return nil
}

func (f *FirestoreStore) Get(ctx context.Context, ref Ref) (*Snapshot, error) {
	d, err := f.doc(ref)
	if err != nil {
		return nil, err
	}
	snap, err := d.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return &Snapshot{Ref: ref}, nil
		}
		return nil, err
	}
	return &Snapshot{Ref: ref, Exists: snap.Exists(), Data: snap.Data()}, nil
}

func (f *FirestoreStore) Delete(ctx context.Context, ref Ref) error {
	d, err := f.doc(ref)
	if err != nil {
		return err
	}
	_, err = d.Delete(ctx)
	return err
}

func (f *FirestoreStore) Close() error { return f.client.Close() }
