package sealed

import (
	"errors"
	"fmt"
)

// Construction errors
var (
	ErrInvalidRegistry = errors.New("sealed: invalid registry")
)

// Call errors
var (
	ErrUnknownVariant           = errors.New("sealed: unknown variant")
	ErrDiscriminatorNotYetKnown = errors.New("sealed: payload read before its discriminator")
	ErrMalformedField           = errors.New("sealed: malformed field")
	ErrMissingPayload           = errors.New("sealed: payload was never read")
	ErrInvalidPayload           = errors.New("sealed: payload failed validation")
)

// VariantError reports a value type or discriminator the union does not know.
// It unwraps to ErrUnknownVariant.
type VariantError struct {
	Union string
	// Name is the discriminator read from the wire, empty on encode.
	Name string
	// Type is the Go type of the value being encoded, empty on decode.
	Type string
}

func (e *VariantError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("%v: %s is not a registered variant of %s", ErrUnknownVariant, e.Type, e.Union)
	}
	return fmt.Sprintf("%v: %s has no variant named %q", ErrUnknownVariant, e.Union, e.Name)
}

func (e *VariantError) Unwrap() error { return ErrUnknownVariant }

// FieldError reports a structural problem found while decoding a union.
type FieldError struct {
	Union string
	// Index is the element index reported by the decoder, or -1.
	Index int
	// Discriminator is the discriminator seen so far, if any.
	Discriminator string
	Err           error
}

func (e *FieldError) Error() string {
	disc := e.Discriminator
	if disc == "" {
		disc = "no discriminator"
	}
	if e.Index < 0 {
		return fmt.Sprintf("%v: %s (%s)", e.Err, e.Union, disc)
	}
	return fmt.Sprintf("%v: %s index %d (%s)", e.Err, e.Union, e.Index, disc)
}

func (e *FieldError) Unwrap() error { return e.Err }
