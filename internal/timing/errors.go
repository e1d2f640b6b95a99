package timing

import (
	"errors"
	"fmt"
)

var (
	ErrOutOfRange       = errors.New("out of range")
	ErrInvalidGeometry  = errors.New("invalid geometry")
	ErrInvalidDirection = errors.New("invalid direction")
	ErrInvalidDuration  = errors.New("invalid duration")
)

// Error reports which tag and frame index broke a schedule computation.
// Index is the frame index in the sheet, or -1 when the failure is about the tag itself.
type Error struct {
	Kind  error
	Tag   string
	Index int
}

func (e *Error) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("timing: %v: tag %q", e.Kind, e.Tag)
	}
	return fmt.Sprintf("timing: %v: tag %q frame %d", e.Kind, e.Tag, e.Index)
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, tag string, index int) *Error {
	return &Error{Kind: kind, Tag: tag, Index: index}
}
