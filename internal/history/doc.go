// Package history stores per-run audit summaries in SQLite.
//
// Each completed run is recorded as one row of run metadata plus one
// summary row per report result, enough to answer "is the catalog getting
// cleaner or cruftier" without keeping full reports around. The compare
// command diffs two stored runs.
package history
