package variant

import (
	"errors"
	"fmt"
)

// ErrSyntax is the sentinel wrapped by every text-notation parse failure.
var ErrSyntax = errors.New("variant: invalid value text")

// SyntaxError reports where and why value text failed to parse.
type SyntaxError struct {
	Offset int
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("variant: invalid value text at offset %d: %s", e.Offset, e.Reason)
}

func (e *SyntaxError) Unwrap() error { return ErrSyntax }

func syntax(offset int, reason string) error {
	return &SyntaxError{Offset: offset, Reason: reason}
}
