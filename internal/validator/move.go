package validator

import (
	"fmt"

	"github.com/specialistvlad/dictcheck/internal/document"
)

// Move relocates the dictionary variable h to sit immediately after pivot
// and returns the handle now holding the definition.
//
// Within one scope h keeps its handle and only its position changes. When
// pivot belongs to another scope the definition moves there: onto the
// existing definition of the same name, whose value is replaced and which
// is placed after pivot, or onto a new dictionary entry inserted after
// pivot. The original is then
// unregistered; deleting it from its document is up to the caller.
//
// A validation error of the resulting definition is returned alongside a
// valid handle.
func (v *Validator) Move(h, pivot document.Handle) (document.Handle, error) {
	name, src := v.docs.Name(h), v.docs.Scope(h)
	rec, ok := v.vars.Lookup(name)
	if !ok || rec.Params[src] != h {
		return document.NoHandle, fmt.Errorf("move %q: %w", name, ErrNotRegistered)
	}
	if h == pivot {
		return h, v.ValidateParam(h)
	}
	dst := v.docs.Scope(pivot)

	if src == dst {
		if err := v.docs.MoveAfter(h, pivot); err != nil {
			return document.NoHandle, fmt.Errorf("move %q: %w", name, err)
		}
		v.vars.RemoveOrder(src, h)
		v.vars.InsertAfter(src, h, name, pivot)
		v.logger.Debug("Moved variable.", "name", name, "scope", src, "weight", rec.Weights[src])

		err := v.revalidate(rec, src)
		v.refreshDependents(name)
		return h, err
	}

	value := v.docs.Value(h)

	if existing := rec.Params[dst]; existing != document.NoHandle {
		if existing != pivot {
			if err := v.docs.MoveAfter(existing, pivot); err != nil {
				return document.NoHandle, fmt.Errorf("move %q: %w", name, err)
			}
			v.vars.RemoveOrder(dst, existing)
			v.vars.InsertAfter(dst, existing, name, pivot)
		}
		v.logger.Debug("Merging variable into existing definition.", "name", name, "from", src, "to", dst, "weight", rec.Weights[dst])
		err := v.ChangeValue(existing, value)
		v.Remove(h)
		return existing, err
	}

	created, err := v.docs.AppendDictionaryEntry(v.docs.Document(pivot), v.docs.Type(h), name, value)
	if err != nil {
		return document.NoHandle, fmt.Errorf("move %q: %w", name, err)
	}
	if err := v.docs.MoveAfter(created, pivot); err != nil {
		return document.NoHandle, fmt.Errorf("move %q: %w", name, err)
	}

	rec.Params[dst] = created
	v.vars.InsertAfter(dst, created, name, pivot)
	v.logger.Debug("Moved variable to another scope.", "name", name, "from", src, "to", dst, "weight", rec.Weights[dst])

	err = v.ChangeValue(created, value)
	v.Remove(h)
	return created, err
}
