package signature

import (
	"errors"
	"fmt"
)

// ErrMalformedSignature is the sentinel wrapped by every parse failure so
// callers can branch with errors.Is without inspecting positions.
var ErrMalformedSignature = errors.New("signature: malformed signature")

// MalformedSignatureError reports where and why a signature failed to parse.
type MalformedSignatureError struct {
	Signature string
	Offset    int
	Reason    string
}

func (e *MalformedSignatureError) Error() string {
	return fmt.Sprintf("signature: malformed signature %q at offset %d: %s", e.Signature, e.Offset, e.Reason)
}

func (e *MalformedSignatureError) Unwrap() error { return ErrMalformedSignature }

func malformed(raw string, offset int, reason string) error {
	return &MalformedSignatureError{Signature: raw, Offset: offset, Reason: reason}
}
