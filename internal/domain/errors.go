package domain

import (
	"errors"
	"fmt"
)

// The error kinds below are what services return. Handlers map each kind to
// an HTTP status; anything else becomes a 500.

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	return describe(e.Resource, "not found", "", "not found")
}

func (e NotFoundError) Unwrap() error { return e.Err }

// ValidationError rejects caller input. Field names the offending input
// when there is one.
type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	switch {
	case e.Field != "" && e.Msg != "":
		return e.Field + ": " + e.Msg
	case e.Field != "":
		return "invalid " + e.Field
	}
	return orDefault(e.Msg, "validation error")
}

func (e ValidationError) Unwrap() error { return e.Err }

// ConflictError reports a uniqueness clash, e.g. a duplicate rate triple.
type ConflictError struct {
	Resource string
	Msg      string
	Err      error
}

func (e ConflictError) Error() string {
	return describe(e.Resource, "conflict", e.Msg, "conflict")
}

func (e ConflictError) Unwrap() error { return e.Err }

type UnauthorizedError struct{ Msg string }

func (e UnauthorizedError) Error() string { return orDefault(e.Msg, "unauthorized") }

type ForbiddenError struct{ Msg string }

func (e ForbiddenError) Error() string { return orDefault(e.Msg, "forbidden") }

// InternalError wraps an unexpected failure with the operation it broke.
// Handlers log it and answer with a generic message.
type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	msg := orDefault(e.Msg, "internal error")
	if e.Err == nil {
		return msg
	}
	return msg + ": " + e.Err.Error()
}

func (e InternalError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool { return is[NotFoundError](err) }
func IsValidation(err error) bool { return is[ValidationError](err) }
func IsConflict(err error) bool { return is[ConflictError](err) }
func IsUnauthorized(err error) bool { return is[UnauthorizedError](err) }
func IsForbidden(err error) bool { return is[ForbiddenError](err) }
func IsInternal(err error) bool { return is[InternalError](err) }

func is[T error](err error) bool {
	var target T
	return errors.As(err, &target)
}

// describe renders "<resource> <what>[: detail]", or detail/fallback when
// resource is empty.
func describe(resource, what, detail, fallback string) string {
	if resource == "" {
		return orDefault(detail, fallback)
	}
	if detail == "" {
		return resource + " " + what
	}
	return fmt.Sprintf("%s %s: %s", resource, what, detail)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
