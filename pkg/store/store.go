// Package store defines the persistence contract: the collaborator that
// holds committed values keyed by schema id, key name and an optional
// relocation path.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-vartree/pkg/signature"
	"github.com/goliatone/go-vartree/pkg/variant"
)

// ErrUnset reports a key that has no stored value; callers fall back to the
// schema default.
var ErrUnset = errors.New("store: key has no stored value")

// ErrRejected is the sentinel wrapped by RejectedError.
var ErrRejected = errors.New("store: value rejected")

// RejectedError carries the store's verbatim reason for refusing a write,
// such as a locked key. It is surfaced to the user unmodified and never
// retried automatically.
type RejectedError struct {
	Ref    Ref
	Reason string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("store: %s rejected: %s", e.Ref, e.Reason)
}

func (e *RejectedError) Unwrap() error { return ErrRejected }

// Ref addresses one stored value. Sig is the key's declared signature, used
// to decode the stored text form.
type Ref struct {
	SchemaID string
	Key      string
	Path     string
	Sig      *signature.TypeSignature
}

func (r Ref) String() string {
	if r.Path != "" {
		return r.SchemaID + ":" + r.Path + ":" + r.Key
	}
	return r.SchemaID + "." + r.Key
}

// Store persists committed values. Implementations are safe for sequential
// use from one edit session; the core never shares a session across
// goroutines.
type Store interface {
	// Get returns the stored value for ref, or ErrUnset.
	Get(ctx context.Context, ref Ref) (*variant.Value, error)
	// Set commits a fully-recomposed value. Locked keys fail with a
	// RejectedError.
	Set(ctx context.Context, ref Ref, value *variant.Value) error
	// Reset removes the stored value so the schema default applies again.
	Reset(ctx context.Context, ref Ref) error
	// List reports the key names with stored values under a schema and path.
	List(ctx context.Context, schemaID, path string) ([]string, error)
	Close() error
}
