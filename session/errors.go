// Package session implements spec §6 "External Interfaces (Session API)":
// the public library surface that drives the feature pipeline, resolves
// persistent references, ray-picks faces and exports meshes/STL, wrapping
// the lower packages' plain errors into the categorised ModelingError of
// spec §7.
package session

import (
	"fmt"

	"github.com/solidtype/kernel/topo"
)

// ErrorCategory tags a ModelingError the way spec §7's table does.
type ErrorCategory int

const (
	CategoryInvalidInput ErrorCategory = iota
	CategoryGeometryError
	CategoryTopologyError
	CategoryValidationError
	CategoryHealingError
	CategoryUnsupported
	CategoryInternal
)

func (c ErrorCategory) String() string {
	switch c {
	case CategoryInvalidInput:
		return "invalidInput"
	case CategoryGeometryError:
		return "geometryError"
	case CategoryTopologyError:
		return "topologyError"
	case CategoryValidationError:
		return "validationError"
	case CategoryHealingError:
		return "healingError"
	case CategoryUnsupported:
		return "unsupported"
	default:
		return "internal"
	}
}

// Hints carries the UI-facing detail spec §7 describes: "a zero-area face
// warning produces a summary + suggestion and flags the profile
// parameter."
type Hints struct {
	Summary         string
	Suggestion      string
	RelatedParams   []string
	ValidationIssue *topo.ValidationReport
}

// ModelingError is the one error type every public Session operation can
// return (spec §7: "Every public operation returns a Result<T,
// ModelingError>... Failure is never thrown across the API boundary.").
// session is the only package in this kernel that categorises; lower
// packages return plain errors that ModelingError wraps with %w so
// errors.Is/errors.As keep working (SPEC_FULL.md §A.2).
type ModelingError struct {
	Category ErrorCategory
	Message  string
	Hints    Hints
	Err      error
}

func (e *ModelingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("session: %s: %s: %v", e.Category, e.Message, e.Err)
	}
	return fmt.Sprintf("session: %s: %s", e.Category, e.Message)
}

func (e *ModelingError) Unwrap() error { return e.Err }

func newError(cat ErrorCategory, message string, err error, hints Hints) *ModelingError {
	return &ModelingError{Category: cat, Message: message, Hints: hints, Err: err}
}

// InvalidInput wraps err as spec §7's "invalidInput" category: "reject
// before any mutation; no state change."
func InvalidInput(message string, err error, related ...string) *ModelingError {
	return newError(CategoryInvalidInput, message, err, Hints{RelatedParams: related})
}

// GeometryError wraps err as spec §7's "geometryError" category.
func GeometryError(message string, err error) *ModelingError {
	return newError(CategoryGeometryError, message, err, Hints{})
}

// TopologyError wraps a failed ValidationReport as spec §7's
// "topologyError" category: "publish nothing; attach the validation
// report."
func TopologyError(message string, err error, report *topo.ValidationReport) *ModelingError {
	return newError(CategoryTopologyError, message, err, Hints{
		Summary:         "the produced topology failed validation",
		Suggestion:      "check that profile edges are not collinear",
		ValidationIssue: report,
	})
}

// HealingError wraps a healing-still-invalid failure as spec §7's
// "healingError" category.
func HealingError(message string, err error, report *topo.ValidationReport) *ModelingError {
	return newError(CategoryHealingError, message, err, Hints{
		Summary:         "healing could not repair the resulting topology",
		ValidationIssue: report,
	})
}

// Unsupported wraps a skipped-feature condition as spec §7's
// "unsupported" category: "the feature pipeline marks the feature as
// skipped and continues from the last valid checkpoint."
func Unsupported(message string, err error) *ModelingError {
	return newError(CategoryUnsupported, message, err, Hints{})
}

// Internal wraps an invariant violation as spec §7's "internal" category:
// "abort the feature; leave the store at the pre-feature checkpoint."
func Internal(message string, err error) *ModelingError {
	return newError(CategoryInternal, message, err, Hints{})
}
