// Package session holds the per-user list of product lines being assembled
// into a sheet.
package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Tushar365/reportappmedghor/internal/models"
)

var (
	ErrMissingName = errors.New("product name is required")
	ErrMissingRate = errors.New("rate is required")
)

// IndexError is returned when a removal index is outside the list.
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("line %d out of range (have %d)", e.Index, e.Len)
}

// Editor is an ordered list of product lines owned by one session. It is
// not safe for concurrent use.
type Editor struct {
	lines []models.ProductLine
}

// NewEditor starts an editor with a copy of lines.
func NewEditor(lines []models.ProductLine) *Editor {
	e := &Editor{}
	e.Load(lines)
	return e
}

// Append adds a line at the end. Both fields must be non-blank.
func (e *Editor) Append(line models.ProductLine) error {
	if strings.TrimSpace(line.Name) == "" {
		return ErrMissingName
	}
	if strings.TrimSpace(line.Rate) == "" {
		return ErrMissingRate
	}
	e.lines = append(e.lines, line)
	return nil
}

// Remove deletes the line at idx (zero based), keeping the order of the rest.
func (e *Editor) Remove(idx int) error {
	if idx < 0 || idx >= len(e.lines) {
		return &IndexError{Index: idx, Len: len(e.lines)}
	}
	e.lines = append(e.lines[:idx], e.lines[idx+1:]...)
	return nil
}

// Load replaces the contents with a copy of lines. Lines loaded from a saved
// report are taken as they are, even with empty fields.
func (e *Editor) Load(lines []models.ProductLine) {
	e.lines = append([]models.ProductLine(nil), lines...)
}

// Lines returns a copy of the current lines.
func (e *Editor) Lines() []models.ProductLine {
	return append([]models.ProductLine{}, e.lines...)
}
