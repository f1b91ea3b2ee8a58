// Package device implements staleness and spread analysis for device
// inventories.
//
// Given a homogeneous collection of computers or mobile devices it computes:
//   - the out-of-date set: devices that have not checked in within the
//     configured period, counting missing or unparseable timestamps as stale
//   - the orphaned set: devices in no group beyond the platform's default
//     catch-all groups
//   - version and model histograms, with version strings normalized and
//     model identifiers ordered numerically rather than lexicographically
//
// Like the analyze package, everything here is pure computation over
// snapshots; time is injected so tests are deterministic.
package device
