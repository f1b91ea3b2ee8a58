// Package pipeline orchestrates the audit as an ordered sequence of steps.
//
// Each step audits one object type: it pulls the type's catalog and the
// containers that reference it, computes the used/unused partition, and
// appends a finished CruftReport to the run. Steps are independent, so a
// contract violation in one type's audit fails that report alone while the
// rest of the run completes.
package pipeline
