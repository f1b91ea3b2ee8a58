// Package model defines the core data structures used throughout Spruce.
//
// This package contains the following main types:
//   - Identity: An (id, name) pair naming one catalog object
//   - ObjectKind: The catalog object types Spruce knows how to audit
//   - Record: An XML-backed structured field tree queryable by path
//   - CruftReport: The per-object-type audit result structure
//   - RunReport: A full audit run composed of one CruftReport per type
//   - RemovalDocument: The editable removal list produced by -o/--ofile
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (analyze, device, pipeline, report) need to
// use these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON and YAML for report
// output and removal-document round trips.
package model
