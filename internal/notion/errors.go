package notion

import (
	"errors"
	"fmt"
)

// Decode error kinds, matched with errors.Is against a *DecodeError.
var (
	ErrUnknownVariant = errors.New("unknown variant")
	ErrMissingField   = errors.New("missing field")
	ErrInvalidField   = errors.New("invalid field")
)

// DecodeError reports a wire record that could not be decoded.
// Path names the offending field, e.g. "paragraph.rich_text[1].annotations.bold".
type DecodeError struct {
	Kind  error
	Path  string
	Value string // discriminator for ErrUnknownVariant, Go type for ErrInvalidField
}

func (e *DecodeError) Error() string {
	switch e.Kind {
	case ErrUnknownVariant:
		return fmt.Sprintf("%s: %v %q", e.Path, e.Kind, e.Value)
	case ErrInvalidField:
		return fmt.Sprintf("%s: %v (got %s)", e.Path, e.Kind, e.Value)
	default:
		return fmt.Sprintf("%s: %v", e.Path, e.Kind)
	}
}

func (e *DecodeError) Unwrap() error {
	return e.Kind
}

func unknownVariant(path, discriminator string) error {
	return &DecodeError{Kind: ErrUnknownVariant, Path: path, Value: discriminator}
}

func missingField(path string) error {
	return &DecodeError{Kind: ErrMissingField, Path: path}
}

func invalidField(path string, got any) error {
	return &DecodeError{Kind: ErrInvalidField, Path: path, Value: fmt.Sprintf("%T", got)}
}
