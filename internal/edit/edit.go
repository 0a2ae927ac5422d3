// Package edit applies structured edit intents to Python source text.
//
// Two backends implement the same Mutator contract. The line backend
// treats the source as a list of lines and performs at most one
// line-indexed splice per operation, using the locations the inventory
// reported against the unmodified text. The tree backend re-parses the
// source and splices byte spans out of the syntax tree instead.
//
// Neither backend ever writes partial output: an operation either
// returns the complete modified source or the original text plus an
// error. Failures are reported as *EditError so callers can render the
// conventional "Error: ..." sentinel through ApplyText.
package edit

import (
	"fmt"

	"pyedit/internal/intent"
	"pyedit/internal/inventory"
)

// Backend names accepted by New.
const (
	BackendLine = "line"
	BackendTree = "tree"
)

// Mutator applies one edit intent to source text. The inventory must
// describe exactly the source being edited; locations from a stale
// inventory splice the wrong lines.
type Mutator interface {
	Apply(source string, in intent.Intent, inv *inventory.Inventory) (string, error)
}

// New returns the mutator registered under the backend name, defaulting
// to the line backend for unrecognized names.
func New(backend string) Mutator {
	switch backend {
	case BackendTree:
		return NewTreeMutator()
	default:
		return NewLineMutator()
	}
}

// EditError describes a failed edit operation. Reason is user-facing
// text without the "Error:" prefix; ApplyText adds it.
type EditError struct {
	Action string
	Target string
	Reason string
}

func (e *EditError) Error() string { return e.Reason }

func errf(action, target, format string, args ...interface{}) *EditError {
	return &EditError{
		Action: action,
		Target: target,
		Reason: fmt.Sprintf(format, args...),
	}
}

// ApplyText runs the mutator and flattens failures into the sentinel
// string form used by the interactive and batch surfaces: a result
// beginning with "Error: " is a refused edit, anything else is the new
// source text.
func ApplyText(m Mutator, source string, in intent.Intent, inv *inventory.Inventory) string {
	out, err := m.Apply(source, in, inv)
	if err != nil {
		return "Error: " + err.Error()
	}
	return out
}
