// Package validator keeps the dictionary variables of a flow, its line and
// its project consistent while they are edited.
//
// A Validator observes one document triple through a document.Store. Every
// dictionary variable of the triple is registered in a varstore.Store with
// its declaration weight, its dependency edges live in a depgraph.Graph,
// and each definition carries a cached validation result. Structural edits
// (Insert, Remove, Rename, ChangeValue, Move, Update) keep that state
// current, including the cached results of every variable that depends on
// the edited one.
//
// # Visibility
//
// A narrower scope shadows a broader one: Flow over Line over Project. An
// expression sees the definitions of broader scopes and the definitions of
// its own scope declared before it. Ordinary program parameters and
// anonymous expressions see their whole scope.
//
// # Evaluation
//
// Evaluate computes the printable value of a parameter. The visible
// variables are evaluated in declaration order first, from Project down to
// the target's scope, and bound into the environment of the target. When
// the target depends on the loop variable "iter", evaluation runs twice,
// with iter at its first and at its last iteration, and differing results
// print as "[first, ..., last]".
//
// The validator is not safe for concurrent use. Callers serialize access.
package validator
