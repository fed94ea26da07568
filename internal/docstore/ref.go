package docstore

import (
	"fmt"
	"strings"
)

// Ref names one document, e.g. "users/user1" or "users/user1/posts/p1".
// It says nothing about whether the document exists.
type Ref struct {
	path string
}

// ParseRef validates path. A document path has an even, non-zero number of
// non-empty segments; leading and trailing slashes are ignored.
func ParseRef(path string) (Ref, error) {
	p := strings.Trim(strings.TrimSpace(path), "/")
	if p == "" {
		return Ref{}, fmt.Errorf("%w: empty path", ErrInvalidRef)
	}
	parts := strings.Split(p, "/")
	for _, s := range parts {
		if s == "" {
			return Ref{}, fmt.Errorf("%w: empty segment in %q", ErrInvalidRef, path)
		}
	}
	if len(parts)%2 != 0 {
		return Ref{}, fmt.Errorf("%w: %q names a collection, not a document", ErrInvalidRef, path)
	}
	return Ref{path: p}, nil
}

// MustRef is ParseRef for constant paths; it panics on error.
func MustRef(path string) Ref {
	r, err := ParseRef(path)
	if err != nil {
		panic(err)
	}
	return r
}

func (r Ref) Path() string   { return r.path }
func (r Ref) String() string { return r.path }
func (r Ref) IsZero() bool   { return r.path == "" }

// ID is the last path segment.
func (r Ref) ID() string {
	return r.path[strings.LastIndexByte(r.path, '/')+1:]
}

// Collection is the path of the parent collection.
func (r Ref) Collection() string {
	if i := strings.LastIndexByte(r.path, '/'); i >= 0 {
		return r.path[:i]
	}
	return ""
}
