// Package services provides domain services that orchestrate business rules
// across multiple domain entities in the workflow engine. It implements logic
// that doesn't naturally belong to a single aggregate root.
//
// The package includes:
//   - ConditionEvaluator: A domain service that decides whether a rule
//     condition matches a recorded transition event
//
// Domain services coordinate between aggregates, implementing business logic
// that spans multiple bounded contexts following Domain-Driven Design principles.
package services
