package rendering

import "errors"

// ErrEmptyInput is returned when a sheet has no product lines.
var ErrEmptyInput = errors.New("rendering: product list is empty")

// RenderError wraps a failure inside the PDF engine.
type RenderError struct {
	Err error
}

func (e *RenderError) Error() string {
	return "rendering: " + e.Err.Error()
}

func (e *RenderError) Unwrap() error {
	return e.Err
}
