// Package analyze implements the usage-resolution and cruft-scoring engine.
//
// This package contains the algorithmic core of Spruce:
//   - Referenced: membership extraction from container records
//   - Partition: the used/unused/all split for one object type
//   - ResolveNesting: transitive closure over smart-group "member of" edges
//   - EmptyGroups: the orthogonal zero-member-count signal
//   - Score: the normalized cruftiness ratio
//
// Everything here is pure computation over already-materialized catalog
// snapshots. The package never fetches, never mutates its inputs, and never
// touches ambient state; all data arrives through parameters and all results
// leave as new values. That keeps the engine trivially testable and makes
// the pipeline package the single place where fetching and computation meet.
package analyze
