// Package varstore is the bookkeeping layer of the validator: it maps each
// variable name to a Record holding its per-scope definitions, weights,
// dependency edges and cached errors, and keeps the declaration order of
// every scope.
//
// # Weights
//
// Each definition carries a floating point weight giving its position among
// the definitions of the same scope. New weights are midpoints between their
// neighbours (or between the last weight and MaxWeight when appending), so
// reordering one variable never renumbers its siblings. When float precision
// runs out the whole scope is respaced evenly.
//
// The package holds no validation logic.
package varstore
