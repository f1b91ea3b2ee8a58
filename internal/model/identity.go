package model

import "strconv"

// Identity is an (id, name) pair identifying one catalog object.
//
// The numeric ID is the authoritative key for every set operation that feeds
// removal: the server enforces ID uniqueness but not name uniqueness, and
// names may be empty. Name is carried for display only.
type Identity struct {
	// ID is the server-assigned numeric identifier.
	ID int `json:"id" yaml:"id"`

	// Name is the human-readable object name. Informational only; never
	// used to resolve identity.
	Name string `json:"name" yaml:"name"`
}

// String returns the display form "Name (ID: n)".
func (i Identity) String() string {
	return i.Name + " (ID: " + strconv.Itoa(i.ID) + ")"
}

// IdentitySet builds an id-keyed lookup from a list of identities.
// Later duplicates of the same id are ignored, keeping the first name seen.
func IdentitySet(ids []Identity) map[int]Identity {
	set := make(map[int]Identity, len(ids))
	for _, id := range ids {
		if _, ok := set[id.ID]; !ok {
			set[id.ID] = id
		}
	}
	return set
}
