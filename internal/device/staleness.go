package device

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/jssimporter/spruce/internal/model"
)

// DefaultCheckInDays is the fallback check-in period.
// Thirty days roughly covers one patch cycle plus vacation slack; a device
// silent for longer than that is worth a look regardless of fleet size.
const DefaultCheckInDays = 30

// checkInLayouts are the timestamp formats the server is known to emit for
// last-contact fields, tried in order.
var checkInLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05.000-0700",
}

// CheckInPeriod parses a raw check-in period into days.
//
// A missing or non-numeric value is not fatal: it degrades to
// DefaultCheckInDays with an informational log line, per the recovery policy
// for invalid numeric input. Zero and negative values count as invalid.
func CheckInPeriod(raw string, logger *slog.Logger) int {
	if raw == "" {
		return DefaultCheckInDays
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days <= 0 {
		logger.Info("invalid check-in period, using default",
			"value", raw,
			"default", DefaultCheckInDays,
		)
		return DefaultCheckInDays
	}
	return days
}

// Analyzer computes staleness and spread over one device collection.
type Analyzer struct {
	// CheckInDays is the staleness threshold in days.
	CheckInDays int

	// CatchAllGroups lists the platform-default groups every device
	// belongs to automatically. Membership in these conveys no
	// administrative signal and is ignored by orphan detection.
	CatchAllGroups []string

	// Now supplies the current time; injected for testability.
	// Defaults to time.Now when nil.
	Now func() time.Time
}

// NewAnalyzer creates an Analyzer with the given threshold and catch-all
// group names.
func NewAnalyzer(checkInDays int, catchAllGroups []string) *Analyzer {
	if checkInDays <= 0 {
		checkInDays = DefaultCheckInDays
	}
	return &Analyzer{
		CheckInDays:    checkInDays,
		CatchAllGroups: catchAllGroups,
	}
}

func (a *Analyzer) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// OutOfDate returns devices whose last check-in is older than the threshold.
//
// A device with no check-in field, or one whose timestamp fails to parse in
// every known layout, is conservatively counted as out of date: a record the
// server cannot date is exactly the kind of record this report exists to
// surface. Per-record parse failures never abort the report.
func (a *Analyzer) OutOfDate(devices []model.Device) []model.Identity {
	cutoff := a.now().AddDate(0, 0, -a.CheckInDays)
	var stale []model.Identity
	for _, d := range devices {
		checkIn, ok := parseCheckIn(d.LastCheckIn)
		if !ok || checkIn.Before(cutoff) {
			stale = append(stale, d.Identity)
		}
	}
	return stale
}

// Orphaned returns devices that belong to no group once the catch-all
// groups are excluded.
func (a *Analyzer) Orphaned(devices []model.Device) []model.Identity {
	catchAll := make(map[string]bool, len(a.CatchAllGroups))
	for _, name := range a.CatchAllGroups {
		catchAll[name] = true
	}

	var orphans []model.Identity
	for _, d := range devices {
		meaningful := 0
		for _, g := range d.Groups {
			if !catchAll[g] {
				meaningful++
			}
		}
		if meaningful == 0 {
			orphans = append(orphans, d.Identity)
		}
	}
	return orphans
}

// parseCheckIn tries each known timestamp layout in order.
func parseCheckIn(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range checkInLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
