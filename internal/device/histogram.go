package device

import (
	"sort"
	"strings"

	"github.com/jssimporter/spruce/internal/model"
)

// Histogram is a frequency count keyed by a spread dimension
// (OS version or model identifier).
type Histogram map[string]int

// Entry is one histogram bucket with its count.
type Entry struct {
	Key   string
	Count int
}

// VersionHistogram counts devices per normalized OS version.
//
// Version strings are normalized to at least major.minor.patch before
// counting so that "10.2" and "10.2.0" land in the same bucket. Devices
// reporting no version at all are counted under "unknown".
func VersionHistogram(devices []model.Device) Histogram {
	h := make(Histogram)
	for _, d := range devices {
		key := NormalizeVersion(d.OSVersion)
		if key == "" {
			key = "unknown"
		}
		h[key]++
	}
	return h
}

// ModelHistogram counts devices per hardware model identifier.
// Devices reporting no model are counted under "unknown".
func ModelHistogram(devices []model.Device) Histogram {
	h := make(Histogram)
	for _, d := range devices {
		key := d.ModelID
		if key == "" {
			key = "unknown"
		}
		h[key]++
	}
	return h
}

// NormalizeVersion pads a dotted version string to at least three
// components: "10.2" becomes "10.2.0", "10" becomes "10.0.0". Components
// beyond the third are preserved untouched, and an empty input stays empty.
func NormalizeVersion(version string) string {
	if version == "" {
		return ""
	}
	parts := strings.Split(version, ".")
	for len(parts) < 3 {
		parts = append(parts, "0")
	}
	return strings.Join(parts, ".")
}

// Entries returns the histogram buckets sorted by key.
// Version keys sort with the same structured comparison as versions are
// compared anywhere else: numerically per component where possible.
func (h Histogram) Entries() []Entry {
	entries := make([]Entry, 0, len(h))
	for key, count := range h {
		entries = append(entries, Entry{Key: key, Count: count})
	}
	sort.Slice(entries, func(i, j int) bool {
		return compareDotted(entries[i].Key, entries[j].Key) < 0
	})
	return entries
}

// EntriesByModel returns the buckets ordered by the structured model
// identifier comparison, so "iMac9,1" sorts before "iMac13,2" before
// "iMac13,10" rather than in lexicographic order.
func (h Histogram) EntriesByModel() []Entry {
	entries := make([]Entry, 0, len(h))
	for key, count := range h {
		entries = append(entries, Entry{Key: key, Count: count})
	}
	sort.Slice(entries, func(i, j int) bool {
		return CompareModelIDs(entries[i].Key, entries[j].Key) < 0
	})
	return entries
}

// compareDotted compares two dotted strings component-wise, numerically
// where both components parse as integers and lexicographically otherwise.
func compareDotted(a, b string) int {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")
	for i := 0; i < len(as) && i < len(bs); i++ {
		an, aok := atoi(as[i])
		bn, bok := atoi(bs[i])
		switch {
		case aok && bok:
			if an != bn {
				if an < bn {
					return -1
				}
				return 1
			}
		default:
			if c := strings.Compare(as[i], bs[i]); c != 0 {
				return c
			}
		}
	}
	return len(as) - len(bs)
}
