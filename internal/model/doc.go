// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package model holds the vocabulary shared by every layer of the
// validator: the three nested scopes a dictionary variable can live in,
// the parameter types a document exposes, and the validation error
// taxonomy reported back to callers.
//
// Why a separate package?
//
// The document layer, the variable store, the dependency graph and the
// expression adapter all need to talk about scopes, types and errors
// without importing one another. Keeping these plain types in one leaf
// package keeps the import graph a tree.
package model
