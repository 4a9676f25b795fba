// Package llm abstracts the hosted large-language-model collaborator. The
// rest of the system only sees a Generator; transport and credentials stay
// behind it.
package llm

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotConfigured is returned when no API credential is present. The
// diagnosis feature is disabled in that case; nothing else is.
var ErrNotConfigured = errors.New("llm: GOOGLE_API_KEY is not set")

// Generator produces free-form text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// TransportError wraps a provider-side failure. Callers convert it into a
// user-visible message; it is never fatal to the process.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("llm: transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransport reports whether err is (or wraps) a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
