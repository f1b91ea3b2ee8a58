package analyze

import (
	"fmt"

	"github.com/jssimporter/spruce/internal/model"
)

// EmptyGroups flags groups whose cached member count is zero.
//
// Emptiness is orthogonal to scoping: a group can be scoped (used) and
// empty, or unscoped and full. It is therefore reported as its own Result
// with its own cruft score rather than folded into the usage partition.
//
// Calling this with a non-group kind is a caller contract violation, not a
// data condition, and returns an error; the pipeline fails that one report
// and lets the rest of the run complete.
func EmptyGroups(kind model.ObjectKind, groups []model.Group) (model.Result, error) {
	if !kind.IsGroup() {
		return model.Result{}, fmt.Errorf("empty-group detection requires a group kind, got %s", kind.Tag())
	}

	var empty []model.Identity
	for _, g := range groups {
		if g.MemberCount == 0 {
			empty = append(empty, g.Identity)
		}
	}
	return model.Result{
		Heading:     "Empty " + kind.String(),
		Description: kind.String() + " with no members at all. Smart groups with no matching devices, or static groups nobody filled in.",
		Identities:  empty,
	}, nil
}
