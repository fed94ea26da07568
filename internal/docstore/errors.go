package docstore

import "errors"

// ErrNotFound is returned by Update when the target document does not exist.
var ErrNotFound = errors.New("document not found")

// ErrEmptyUpdate is returned by Update when the patch names no fields.
var ErrEmptyUpdate = errors.New("update has no fields")

// ErrInvalidRef is returned for paths that do not name a document.
var ErrInvalidRef = errors.New("invalid document reference")

// ErrUnknownBackend is returned by Open for an unsupported backend name.
var ErrUnknownBackend = errors.New("unknown document store backend")
