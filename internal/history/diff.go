package history

// Delta is the change in one result count between two runs.
type Delta struct {
	// Kind is the object kind tag.
	Kind string

	// Heading is the result heading the counts belong to.
	Heading string

	// Before and After are the counts in the older and newer run.
	// A heading absent from one run counts as zero there.
	Before int
	After  int
}

// Change returns After minus Before.
func (d Delta) Change() int {
	return d.After - d.Before
}

// Compare diffs two runs' summaries by (kind, heading).
//
// Order follows the after run, so the diff reads like the newer report;
// headings that disappeared between the runs are appended at the end in
// the before run's order.
func Compare(before, after []Summary) []Delta {
	type key struct {
		kind    string
		heading string
	}

	beforeCounts := make(map[key]int, len(before))
	for _, sum := range before {
		beforeCounts[key{sum.Kind, sum.Heading}] = sum.Count
	}

	deltas := make([]Delta, 0, len(after))
	seen := make(map[key]bool, len(after))
	for _, sum := range after {
		k := key{sum.Kind, sum.Heading}
		seen[k] = true
		deltas = append(deltas, Delta{
			Kind:    sum.Kind,
			Heading: sum.Heading,
			Before:  beforeCounts[k],
			After:   sum.Count,
		})
	}

	for _, sum := range before {
		k := key{sum.Kind, sum.Heading}
		if seen[k] {
			continue
		}
		deltas = append(deltas, Delta{
			Kind:    sum.Kind,
			Heading: sum.Heading,
			Before:  sum.Count,
			After:   0,
		})
	}

	return deltas
}
