// Package types defines the shared data model for owl: managed entries,
// package specs, state records, filesystem observations, and the action
// plan that flows from the planner through the resolver to the executor.
//
// This package has no dependencies on other owl packages so that every
// component can share these types without import cycles.
package types
