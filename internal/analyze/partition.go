package analyze

import "github.com/jssimporter/spruce/internal/model"

// UsagePartition is the used/unused split of one object type's catalog.
//
// Invariants, maintained by construction: the three slices are deduplicated
// by id, Used and Unused are disjoint, and their union is All (in All's
// order). A reference to an id absent from the catalog list is ignored; it
// appears in none of the three sets.
//
// Design decision: UsagePartition is a value. The nesting resolver returns a
// new partition rather than mutating set references shared with a report, so
// a Result reused across report sections can never be changed behind the
// assembler's back.
type UsagePartition struct {
	// Kind is the audited object type.
	Kind model.ObjectKind

	// All is the deduplicated catalog list.
	All []model.Identity

	// Used holds catalog objects referenced by at least one container.
	Used []model.Identity

	// Unused is All minus Used, keyed by id.
	Unused []model.Identity
}

// Partition computes the used/unused split for one object type.
//
// all is the flat catalog list; used is the id-keyed reference set produced
// by Referenced. Identity equality is keyed by id only; the name carried in
// each set comes from the catalog list, not from the container reference, so
// display stays consistent even when a container holds a stale name.
//
// An empty catalog is not an error: all three sets come back empty and the
// caller assembles an empty report for the type.
func Partition(kind model.ObjectKind, all []model.Identity, used map[int]model.Identity) UsagePartition {
	p := UsagePartition{Kind: kind}
	seen := make(map[int]bool, len(all))
	for _, id := range all {
		if seen[id.ID] {
			continue
		}
		seen[id.ID] = true
		p.All = append(p.All, id)
		if _, ok := used[id.ID]; ok {
			p.Used = append(p.Used, id)
		} else {
			p.Unused = append(p.Unused, id)
		}
	}
	return p
}

// Results converts the partition into its three report results in the fixed
// order All, Used, Unused. The first two are verbose-only; Unused always
// renders and carries the supplied description explaining what "unused"
// means for this object type.
func (p UsagePartition) Results(unusedDescription string) []model.Result {
	kind := p.Kind.String()
	return []model.Result{
		{
			Heading:     "All " + kind,
			Description: "Every " + kind + " entry in the catalog.",
			VerboseOnly: true,
			Identities:  p.All,
		},
		{
			Heading:     "Used " + kind,
			Description: kind + " referenced by at least one container object.",
			VerboseOnly: true,
			Identities:  p.Used,
		},
		{
			Heading:     "Unused " + kind,
			Description: unusedDescription,
			Identities:  p.Unused,
		},
	}
}

// Cruftiness returns the partition's cruft ratio: unused over all.
func (p UsagePartition) Cruftiness() float64 {
	return Score(len(p.Unused), len(p.All))
}
