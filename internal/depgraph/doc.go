// Package depgraph maintains the dependency edges between dictionary
// variables and answers the questions the validator asks about them: is a
// reference resolvable from a given scope and position, is every transitive
// dependency well defined and of a compatible type, does one variable
// (transitively) use another, and which variables are affected when one
// changes.
//
// Edges live on the varstore records: each record lists the names its
// expression references per scope (Deps) and the names referencing it
// (Dependents). The Graph keeps both directions consistent.
//
// # Cycles
//
// Resolution only looks at broader scopes or at earlier siblings of the
// same scope, so resolved definitions cannot form a cycle. Names can: a
// and b may reference each other, in which case the later one reports the
// earlier as not yet defined. Transitive walks still carry the current
// path and stop with a Cycle error on a revisit, so a corrupted store can
// never make a check loop forever.
package depgraph
