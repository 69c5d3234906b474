// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the Scope enumeration. Order is significant: a
// variable defined at a narrower scope shadows one of the same name at a
// broader scope.
package model

import (
	"fmt"
	"strings"
)

// Scope is the document level a dictionary variable is defined at.
type Scope int

const (
	ScopeFlow Scope = iota
	ScopeLine
	ScopeProject
)

// NumScopes is the number of distinct scopes. Per-scope arrays are sized by it.
const NumScopes = 3

var scopeNames = [NumScopes]string{
	ScopeFlow:    "flow",
	ScopeLine:    "line",
	ScopeProject: "project",
}

func (s Scope) String() string {
	if !s.Valid() {
		return fmt.Sprintf("scope(%d)", int(s))
	}
	return scopeNames[s]
}

// Valid reports whether s is one of the three known scopes.
func (s Scope) Valid() bool {
	return s >= ScopeFlow && s <= ScopeProject
}

// Scopes returns every scope from the narrowest to the broadest.
func Scopes() []Scope {
	return []Scope{ScopeFlow, ScopeLine, ScopeProject}
}

// ParseScope converts a scope keyword ("flow", "line", "project") into a Scope.
func ParseScope(s string) (Scope, error) {
	for i, name := range scopeNames {
		if strings.EqualFold(s, name) {
			return Scope(i), nil
		}
	}
	return ScopeFlow, fmt.Errorf("unknown scope %q: must be one of flow, line, project", s)
}
