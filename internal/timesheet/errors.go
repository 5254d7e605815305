package timesheet

import (
	"errors"
	"fmt"
)

var (
	ErrOddLines      = errors.New("tag line without a description line")
	ErrMissingAt     = errors.New(`expected exactly one " at " between date and time`)
	ErrMissingTo     = errors.New(`expected exactly one " to " between start and end`)
	ErrBadClock      = errors.New("time is not H:MM AM/PM")
	ErrNegativeRange = errors.New("range ends before it starts")
)

// ParseError names the input that could not be understood.
// Line is 1-based within the cleaned lines, or 0 when unknown.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d %q: %v", e.Line, e.Text, e.Err)
	}
	return fmt.Sprintf("%q: %v", e.Text, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
