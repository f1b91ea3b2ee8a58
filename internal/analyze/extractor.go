package analyze

import "github.com/jssimporter/spruce/internal/model"

// Source pairs a set of container records with the field path at which they
// reference objects of the type under audit, e.g. policies with
// "scope/computer_groups/computer_group".
type Source struct {
	// Containers holds the fully-populated container records to scan.
	Containers []*model.Record

	// Path is the slash-separated field path whose matches each yield an
	// (id, name) reference.
	Path string
}

// Referenced extracts the set of identities referenced across all sources,
// keyed by id.
//
// Results from every (containers, path) pair are unioned: a package that
// appears only in an exclusion scope is still referenced, so callers pass
// the inclusion and exclusion paths as separate sources and membership in
// either counts as "used". Matched nodes lacking an id are skipped by the
// record layer and therefore never counted.
func Referenced(sources ...Source) map[int]model.Identity {
	var refs []model.Identity
	for _, source := range sources {
		for _, container := range source.Containers {
			refs = append(refs, container.Identities(source.Path)...)
		}
	}
	return model.IdentitySet(refs)
}
