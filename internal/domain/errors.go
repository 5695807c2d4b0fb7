package domain

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrInvalidInput is returned when a prescription value is non-numeric or out of domain
	ErrInvalidInput = errors.New("invalid input")

	// ErrSingularity is returned when the vertex transposition divides by zero
	ErrSingularity = errors.New("vertex transposition is undefined for this power and vertex distance")

	// ErrCatalogUnavailable is returned when the lens catalog cannot be retrieved
	ErrCatalogUnavailable = errors.New("lens catalog unavailable")

	// ErrCatalogUnauthorized is returned when the inventory API rejects our credentials
	ErrCatalogUnauthorized = errors.New("lens catalog rejected credentials")

	// ErrLensNotFound is returned when a lens ID is not in the catalog
	ErrLensNotFound = errors.New("lens not found in catalog")

	// ErrMissingToken is returned when a request needs a bearer token and has none
	ErrMissingToken = errors.New("no authentication token found")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)

// InputError describes a rejected conversion input: which eye, which field,
// and the offending value. Kind is ErrInvalidInput or ErrSingularity.
type InputError struct {
	Kind   error
	Eye    EyeSide
	Field  string
	Value  float64
	Reason string
}

func (e *InputError) Error() string {
	msg := e.Kind.Error()
	if e.Field != "" {
		msg = fmt.Sprintf("%s: %s=%s", msg, e.Field, strconv.FormatFloat(e.Value, 'f', -1, 64))
	}
	if e.Eye != "" {
		msg = fmt.Sprintf("%s eye: %s", e.Eye, msg)
	}
	if e.Reason != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Reason)
	}
	return msg
}

func (e *InputError) Unwrap() error {
	return e.Kind
}

// NewInvalidInput builds an InputError of kind ErrInvalidInput
func NewInvalidInput(field string, value float64, reason string) *InputError {
	return &InputError{Kind: ErrInvalidInput, Field: field, Value: value, Reason: reason}
}

// NewSingularity builds an InputError of kind ErrSingularity
func NewSingularity(field string, value float64) *InputError {
	return &InputError{Kind: ErrSingularity, Field: field, Value: value}
}

// WithEye returns a copy of the error attributed to one eye. Errors that are
// not an *InputError are returned unchanged.
func WithEye(err error, eye EyeSide) error {
	var inputErr *InputError
	if !errors.As(err, &inputErr) {
		return err
	}
	cp := *inputErr
	cp.Eye = eye
	return &cp
}

// CatalogError wraps a failure from a catalog source. It matches both
// ErrCatalogUnavailable and the underlying cause with errors.Is.
type CatalogError struct {
	Source string
	Err    error
}

func (e *CatalogError) Error() string {
	return fmt.Sprintf("%s (source %s): %v", ErrCatalogUnavailable, e.Source, e.Err)
}

func (e *CatalogError) Unwrap() []error {
	return []error{ErrCatalogUnavailable, e.Err}
}
