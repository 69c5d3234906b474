// Package document defines the capability interface the validator uses to
// read and mutate the flow, line and project documents it observes.
//
// # Why Document Store Exists
//
// The document object model (XML trees, program lists, parameter groups) is
// not part of the validator. The validator only needs a handful of accessors
// on dictionary parameters, plus three document-level operations used when
// a variable is moved across documents. This package names that contract so
// any document model can sit behind it.
//
// # Handles
//
// Parameters and documents are referred to by opaque integer handles owned by
// the Store implementation. The validator never dereferences document
// internals; it only passes handles back to the Store. The zero values
// NoHandle and NoDoc mean "absent".
//
// # Typical Implementation
//
// See internal/inmemorydoc for the reference arena implementation.
package document

import "github.com/specialistvlad/dictcheck/internal/model"

// Handle identifies one parameter inside a Store.
type Handle uint64

// NoHandle is the absent parameter.
const NoHandle Handle = 0

// DocID identifies one document inside a Store.
type DocID uint64

// NoDoc is the absent document.
const NoDoc DocID = 0

// Triple is the set of documents currently bound to a validator. Any of them
// may be NoDoc.
type Triple struct {
	Flow    DocID
	Line    DocID
	Project DocID
}

// For returns the document bound at the given scope.
func (t Triple) For(scope model.Scope) DocID {
	switch scope {
	case model.ScopeFlow:
		return t.Flow
	case model.ScopeLine:
		return t.Line
	case model.ScopeProject:
		return t.Project
	}
	return NoDoc
}

// Store is the capability interface onto the document model.
//
// Getters on an unknown handle return zero values. Implementations decide
// their own thread-safety; the validator calls them from a single goroutine.
type Store interface {
	// Name returns the parameter's variable name (keyword for program parameters).
	Name(h Handle) string
	SetName(h Handle, name string)

	// Value returns the raw expression text of the parameter.
	Value(h Handle) string
	SetValue(h Handle, value string)

	Type(h Handle) model.VarType

	// Scope returns the scope of the document owning h. Parameters of flow
	// programs report ScopeFlow.
	Scope(h Handle) model.Scope

	// Document returns the document owning h.
	Document(h Handle) DocID

	// IsDictionary reports whether h is a dictionary variable definition as
	// opposed to an ordinary program parameter.
	IsDictionary(h Handle) bool

	// Required reports whether an ordinary parameter must have a value.
	Required(h Handle) bool

	// Iteration returns the step and count expressions of a loop variable.
	// ok is false when h carries no loop bounds.
	Iteration(h Handle) (step, count string, ok bool)

	// DictionaryParameters returns the dictionary variables of doc in
	// declaration order.
	DictionaryParameters(doc DocID) []Handle

	// AppendDictionaryEntry creates a new dictionary variable at the end of doc.
	AppendDictionaryEntry(doc DocID, typ model.VarType, name, value string) (Handle, error)

	// MoveAfter relocates h to sit immediately after pivot in pivot's
	// document.
	MoveAfter(h, pivot Handle) error
}
