// Package status provides the domain model of the order status directory:
// the configurable graph of workflow statuses and the automation rules
// attached to them.
//
// The package includes:
//   - Status: the aggregate root holding a node's configuration (edges,
//     trigger rules, email rule, dwell estimation, presentation annotations)
//   - Kind: core (built-in, undeletable, always enabled) vs custom
//   - Ref: an outgoing edge, either resolved to a status id or still
//     expressed as a slug right after a preset import
//   - Condition: the shared predicate gating email and trigger rules
//   - EmailRule / TriggerRule: the two automation rule types
//   - Preset: bundled status definition sets (core, manufactory,
//     food delivery) merged into the live directory by the import engine
//
// Key business rules:
//   - Slugs are normalized: lowercased, reserved prefix stripped, at most
//     20 characters
//   - Core statuses cannot be deleted and report enabled regardless of the
//     stored flag
//   - A custom status holding live orders can only be deleted together with
//     a reassignment target
//
// The package follows Domain-Driven Design principles, providing rich domain
// behavior, encapsulation, and validation to ensure business rules are enforced.
package status
