package model

import "fmt"

// Rank is the discrete cruftiness bucket derived from a cruft ratio.
// Eleven ranks cover the deciles 0-9 plus a terminal rank reserved for
// exactly 100% cruft.
//
// Design decision: Ranks exist purely for human-readable severity signaling
// in report output; no control decision is ever made from a Rank. We use
// iota-based constants rather than strings for cheap comparisons, with
// String() providing the display form, mirroring how severity levels are
// usually modeled.
type Rank int

const (
	// RankSpotless covers ratios in [0.0, 0.1): effectively no cruft.
	RankSpotless Rank = iota

	// RankTidy covers [0.1, 0.2).
	RankTidy

	// RankLivedIn covers [0.2, 0.3).
	RankLivedIn

	// RankUntended covers [0.3, 0.4).
	RankUntended

	// RankCluttered covers [0.4, 0.5).
	RankCluttered

	// RankMessy covers [0.5, 0.6): more unused than used.
	RankMessy

	// RankNeglected covers [0.6, 0.7).
	RankNeglected

	// RankOvergrown covers [0.7, 0.8).
	RankOvergrown

	// RankDerelict covers [0.8, 0.9).
	RankDerelict

	// RankCondemned covers [0.9, 1.0).
	RankCondemned

	// RankHopeless is reserved for a ratio of exactly 1.0:
	// nothing in the catalog is used at all.
	RankHopeless
)

// rankLabels maps ranks to their display labels.
var rankLabels = map[Rank]string{
	RankSpotless:  "Spotless",
	RankTidy:      "Tidy",
	RankLivedIn:   "Lived-in",
	RankUntended:  "Untended",
	RankCluttered: "Cluttered",
	RankMessy:     "Messy",
	RankNeglected: "Neglected",
	RankOvergrown: "Overgrown",
	RankDerelict:  "Derelict",
	RankCondemned: "Condemned",
	RankHopeless:  "Hopeless",
}

// String returns the human-readable label for the rank.
func (r Rank) String() string {
	if label, ok := rankLabels[r]; ok {
		return label
	}
	return "Unknown"
}

// RankForRatio maps a cruft ratio in [0,1] to its Rank bucket.
// Values outside the range are clamped, so a caller can never derive an
// out-of-range rank from a degenerate ratio.
func RankForRatio(ratio float64) Rank {
	switch {
	case ratio <= 0:
		return RankSpotless
	case ratio >= 1:
		return RankHopeless
	default:
		return Rank(int(ratio * 10))
	}
}

// FormatScore renders a cruft ratio as a percentage with its rank label,
// e.g. "66.67% (Neglected)". This is the single formatting point for
// cruftiness metadata entries so text, Markdown, and YAML output agree.
func FormatScore(ratio float64) string {
	return fmt.Sprintf("%.2f%% (%s)", ratio*100, RankForRatio(ratio))
}
