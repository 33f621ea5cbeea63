package codec

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-vartree/pkg/signature"
)

// Sentinels for errors.Is branching across the codec taxonomy.
var (
	ErrTypeMismatch       = errors.New("codec: value type does not match signature")
	ErrCoercion           = errors.New("codec: cannot coerce edited value")
	ErrStructuralMismatch = errors.New("codec: tree structure does not match signature")
)

// TypeMismatchError reports an encoded value whose runtime kind disagrees
// with the static signature. On valid input this is unreachable; it exists as
// a defensive check.
type TypeMismatchError struct {
	Path string
	Want signature.Kind
	Got  signature.Kind
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("codec: type mismatch at %q: signature expects %s, value is %s", e.Path, e.Want, e.Got)
}

func (e *TypeMismatchError) Unwrap() error { return ErrTypeMismatch }

// CoercionError reports leaf text that does not parse as the target
// primitive kind.
type CoercionError struct {
	Path   string
	Text   string
	Target signature.Kind
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("codec: cannot coerce %q to %s at %q", e.Text, e.Target, e.Path)
}

func (e *CoercionError) Unwrap() error { return ErrCoercion }

// StructuralMismatchError reports a tree whose shape disagrees with the
// signature, such as a tuple node with the wrong arity.
type StructuralMismatchError struct {
	Path   string
	Reason string
}

func (e *StructuralMismatchError) Error() string {
	return fmt.Sprintf("codec: structural mismatch at %q: %s", e.Path, e.Reason)
}

func (e *StructuralMismatchError) Unwrap() error { return ErrStructuralMismatch }
