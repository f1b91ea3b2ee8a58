package device

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/jssimporter/spruce/internal/model"
)

// fixedNow is the reference time used by all staleness tests.
var fixedNow = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

// testAnalyzer builds an Analyzer pinned to fixedNow.
func testAnalyzer(days int, catchAll ...string) *Analyzer {
	a := NewAnalyzer(days, catchAll)
	a.Now = func() time.Time { return fixedNow }
	return a
}

// computer builds a test computer record.
func computer(id int, name, lastCheckIn string, groups ...string) model.Device {
	return model.Device{
		Identity:    model.Identity{ID: id, Name: name},
		Kind:        model.KindComputer,
		LastCheckIn: lastCheckIn,
		Groups:      groups,
	}
}

// TestCheckInPeriod tests threshold parsing and default substitution.
func TestCheckInPeriod(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	tests := []struct {
		name string
		raw  string
		want int
	}{
		{"valid value parses", "45", 45},
		{"empty defaults to 30", "", 30},
		{"non-numeric defaults to 30", "about a month", 30},
		{"zero defaults to 30", "0", 30},
		{"negative defaults to 30", "-7", 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := CheckInPeriod(tt.raw, logger); got != tt.want {
				t.Errorf("CheckInPeriod(%q) = %d, expected %d", tt.raw, got, tt.want)
			}
		})
	}
}

// TestOutOfDate tests the staleness computation.
func TestOutOfDate(t *testing.T) {
	t.Parallel()

	t.Run("device past the threshold is out of date", func(t *testing.T) {
		t.Parallel()
		a := testAnalyzer(30)
		devices := []model.Device{
			computer(1, "fresh", fixedNow.AddDate(0, 0, -5).Format("2006-01-02 15:04:05")),
			computer(2, "stale", fixedNow.AddDate(0, 0, -45).Format("2006-01-02 15:04:05")),
		}

		stale := a.OutOfDate(devices)

		if len(stale) != 1 || stale[0].ID != 2 {
			t.Errorf("got %v, expected only the stale device", stale)
		}
	})

	t.Run("missing check-in counts as out of date", func(t *testing.T) {
		t.Parallel()
		a := testAnalyzer(30)
		devices := []model.Device{computer(1, "never-seen", "")}

		stale := a.OutOfDate(devices)

		if len(stale) != 1 {
			t.Errorf("got %v, expected device with no check-in flagged", stale)
		}
	})

	t.Run("unparseable check-in counts as out of date", func(t *testing.T) {
		t.Parallel()
		a := testAnalyzer(30)
		devices := []model.Device{computer(1, "garbled", "not a timestamp")}

		stale := a.OutOfDate(devices)

		if len(stale) != 1 {
			t.Errorf("got %v, expected unparseable timestamp flagged", stale)
		}
	})

	t.Run("accepts RFC3339 timestamps", func(t *testing.T) {
		t.Parallel()
		a := testAnalyzer(30)
		devices := []model.Device{
			computer(1, "fresh", fixedNow.AddDate(0, 0, -1).Format(time.RFC3339)),
		}

		if stale := a.OutOfDate(devices); len(stale) != 0 {
			t.Errorf("got %v, expected fresh RFC3339 device not flagged", stale)
		}
	})

	t.Run("empty collection yields empty set", func(t *testing.T) {
		t.Parallel()
		if stale := testAnalyzer(30).OutOfDate(nil); len(stale) != 0 {
			t.Errorf("got %v, expected empty", stale)
		}
	})
}

// TestOrphaned tests orphan detection with catch-all exclusion.
func TestOrphaned(t *testing.T) {
	t.Parallel()

	t.Run("device only in catch-all groups is orphaned", func(t *testing.T) {
		t.Parallel()
		a := testAnalyzer(30, "All Managed Clients")
		devices := []model.Device{
			computer(1, "orphan", "", "All Managed Clients"),
			computer(2, "grouped", "", "All Managed Clients", "Finance Macs"),
		}

		orphans := a.Orphaned(devices)

		if len(orphans) != 1 || orphans[0].ID != 1 {
			t.Errorf("got %v, expected only the catch-all-only device", orphans)
		}
	})

	t.Run("device in no groups at all is orphaned", func(t *testing.T) {
		t.Parallel()
		a := testAnalyzer(30, "All Managed Clients")
		devices := []model.Device{computer(1, "loner", "")}

		if orphans := a.Orphaned(devices); len(orphans) != 1 {
			t.Errorf("got %v, expected groupless device flagged", orphans)
		}
	})

	t.Run("orphan status ignores staleness", func(t *testing.T) {
		t.Parallel()
		a := testAnalyzer(30, "All Managed Clients")
		fresh := fixedNow.AddDate(0, 0, -1).Format("2006-01-02 15:04:05")
		devices := []model.Device{computer(1, "fresh-orphan", fresh, "All Managed Clients")}

		if orphans := a.Orphaned(devices); len(orphans) != 1 {
			t.Errorf("got %v, expected fresh device still orphaned", orphans)
		}
	})
}

// TestNewAnalyzer tests threshold fallback in the constructor.
func TestNewAnalyzer(t *testing.T) {
	t.Parallel()

	if a := NewAnalyzer(0, nil); a.CheckInDays != DefaultCheckInDays {
		t.Errorf("got %d, expected default threshold for zero input", a.CheckInDays)
	}
	if a := NewAnalyzer(60, nil); a.CheckInDays != 60 {
		t.Errorf("got %d, expected explicit threshold kept", a.CheckInDays)
	}
}
