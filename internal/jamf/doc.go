// Package jamf is the thin accessor for the server's Classic API.
//
// It fetches object lists and fully-populated records as XML, wraps them in
// model.Record trees, and derives the typed Group and Device views the
// analysis layer consumes. It deliberately does no retrying, paging, or
// caching; a failed fetch is reported to the pipeline, which decides how
// much of the run survives.
package jamf
