// Package transition provides the domain model of the transition event log.
//
// The package includes:
//   - Event: an append-mostly record of one observed order-status transition
//     with two independent, monotonic processed stamps
//
// Key business rules:
//   - Events are immutable except for the trigger-processed and notified
//     stamps, which only ever move from unset to set
//   - At most one unresolved event exists per (order, from, to) triple;
//     recording deduplicates against events whose trigger stamp is unset
//   - Events are never deleted by the engine
package transition
