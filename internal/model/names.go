// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package model

import "regexp"

// IterName is the reserved name of the loop iteration variable.
const IterName = "iter"

var nameRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// ValidName reports whether name is an acceptable variable identifier.
func ValidName(name string) bool {
	return nameRegex.MatchString(name)
}
