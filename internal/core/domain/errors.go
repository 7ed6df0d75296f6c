package domain

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedInput     = errors.New("malformed input")
	ErrSourceUnavailable  = errors.New("habit source unavailable")
	ErrPersonNotFound     = errors.New("person not found")
	ErrWeekNotFound       = errors.New("week not found")
	ErrUnknownHabit       = errors.New("unknown habit")
	ErrInvalidQuery       = errors.New("invalid query")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrWeakPassword       = errors.New("password too short")
)

// MalformedInputError pinpoints what was wrong with the loaded table.
// Line is 1-based and counts the header; zero means the problem is not tied to a line.
type MalformedInputError struct {
	Line   int
	Column string
	Reason string
}

func (e *MalformedInputError) Error() string {
	switch {
	case e.Line > 0 && e.Column != "":
		return fmt.Sprintf("malformed input: line %d, column %q: %s", e.Line, e.Column, e.Reason)
	case e.Line > 0:
		return fmt.Sprintf("malformed input: line %d: %s", e.Line, e.Reason)
	case e.Column != "":
		return fmt.Sprintf("malformed input: column %q: %s", e.Column, e.Reason)
	default:
		return "malformed input: " + e.Reason
	}
}

func (e *MalformedInputError) Unwrap() error {
	return ErrMalformedInput
}
