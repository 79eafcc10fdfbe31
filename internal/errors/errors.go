package errors

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by the service and HTTP layers. Handlers branch on
// these values to pick status codes; nothing below carries internal
// diagnostic detail suitable for clients.

// ErrSlugNotFound is returned when a slug has no mapping in the store.
var ErrSlugNotFound = errors.New("slug not found")

// ErrSlugTaken is returned for an insert whose slug already exists.
var ErrSlugTaken = errors.New("slug in use")

// ErrSlugExhausted is returned when repeated random generation keeps
// colliding and we give up.
var ErrSlugExhausted = errors.New("failed to generate unique slug")

// ErrStoreUnavailable marks store I/O failures, as opposed to the slug
// simply not existing. Match it with errors.Is.
var ErrStoreUnavailable = errors.New("mapping store unavailable")

// ValidationError reports a malformed input field ("url" or "slug").
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s", e.Field)
}

// NotFoundError is the resolver's miss result. It carries the slug exactly
// as the caller supplied it so the boundary can build its message.
type NotFoundError struct {
	Slug string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("slug %q not found", e.Slug)
}

func (e *NotFoundError) Unwrap() error {
	return ErrSlugNotFound
}

// StoreUnavailableError wraps an underlying store failure with the operation
// that hit it. errors.Is(err, ErrStoreUnavailable) matches it.
type StoreUnavailableError struct {
	Op  string
	Err error
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreUnavailableError) Unwrap() error {
	return e.Err
}

func (e *StoreUnavailableError) Is(target error) bool {
	return target == ErrStoreUnavailable
}
