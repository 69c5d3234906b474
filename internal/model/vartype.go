// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the parameter types a document can report. Only some
// of them carry an expression: numeric types go through the arithmetic
// evaluator, text types through the string template evaluator, and the
// rest are accepted verbatim.
package model

import (
	"fmt"
	"strings"
)

// VarType is the declared type of a parameter or dictionary variable.
type VarType int

const (
	TypeInt VarType = iota
	TypeFloat
	TypeString
	TypeFile
	TypeRange
	TypeFlag
	TypeEnum
	TypeGroup
)

var typeNames = []string{
	TypeInt:    "int",
	TypeFloat:  "float",
	TypeString: "string",
	TypeFile:   "file",
	TypeRange:  "range",
	TypeFlag:   "flag",
	TypeEnum:   "enum",
	TypeGroup:  "group",
}

func (t VarType) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return fmt.Sprintf("type(%d)", int(t))
	}
	return typeNames[t]
}

// IsNumeric reports whether expressions of this type are arithmetic.
func (t VarType) IsNumeric() bool {
	return t == TypeInt || t == TypeFloat || t == TypeRange
}

// IsText reports whether expressions of this type are string templates.
func (t VarType) IsText() bool {
	return t == TypeString || t == TypeFile
}

// ParseVarType converts a type keyword such as "int" or "string" into a VarType.
func ParseVarType(s string) (VarType, error) {
	for i, name := range typeNames {
		if strings.EqualFold(s, name) {
			return VarType(i), nil
		}
	}
	return TypeString, fmt.Errorf("unknown type %q: supported types are %s", s, strings.Join(typeNames, ", "))
}
