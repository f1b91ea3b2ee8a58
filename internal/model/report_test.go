package model

import "testing"

// TestCruftReport tests result ordering and lookup.
func TestCruftReport(t *testing.T) {
	t.Parallel()

	t.Run("preserves result insertion order", func(t *testing.T) {
		t.Parallel()
		report := NewCruftReport(KindComputerGroup)
		for _, heading := range []string{"All Computer Groups", "Used Computer Groups", "Unused Computer Groups", "Empty Computer Groups"} {
			report.AddResult(Result{Heading: heading})
		}

		want := []string{"All Computer Groups", "Used Computer Groups", "Unused Computer Groups", "Empty Computer Groups"}
		for i, heading := range want {
			if report.Results[i].Heading != heading {
				t.Errorf("position %d: got %q, expected %q", i, report.Results[i].Heading, heading)
			}
		}
	})

	t.Run("lookup by heading returns a mutable result", func(t *testing.T) {
		t.Parallel()
		report := NewCruftReport(KindPackage)
		report.AddResult(Result{Heading: "Unused Packages"})

		result, ok := report.ResultByHeading("Unused Packages")
		if !ok {
			t.Fatal("expected lookup to succeed")
		}
		result.Identities = []Identity{{ID: 1, Name: "Flash"}}

		again, _ := report.ResultByHeading("Unused Packages")
		if len(again.Identities) != 1 {
			t.Error("expected mutation through the returned pointer to stick")
		}
	})

	t.Run("lookup of missing heading reports false", func(t *testing.T) {
		t.Parallel()
		report := NewCruftReport(KindPackage)
		if _, ok := report.ResultByHeading("Nope"); ok {
			t.Error("expected missing heading to report false")
		}
	})

	t.Run("metadata preserves section and entry order", func(t *testing.T) {
		t.Parallel()
		report := NewCruftReport(KindComputer)
		report.AddMetadata("Cruftiness", "Out-of-date computer cruftiness", "10.00% (Tidy)")
		report.AddMetadata("Version Spread", "10.2.0", "4")
		report.AddMetadata("Version Spread", "10.3.0", "2")

		if len(report.Metadata) != 2 {
			t.Fatalf("got %d sections, expected 2", len(report.Metadata))
		}
		if report.Metadata[0].Name != "Cruftiness" || report.Metadata[1].Name != "Version Spread" {
			t.Errorf("sections out of order: %v", report.Metadata)
		}
		spread, ok := report.MetadataSection("Version Spread")
		if !ok || len(spread.Entries) != 2 {
			t.Fatalf("expected two spread entries, got %+v", spread)
		}
		if spread.Entries[0].Key != "10.2.0" {
			t.Errorf("entries out of order: %v", spread.Entries)
		}
	})
}

// TestRunReport tests run-level composition.
func TestRunReport(t *testing.T) {
	t.Parallel()

	t.Run("stamps metadata", func(t *testing.T) {
		t.Parallel()
		run := NewRunReport("https://jss.example.com", "2.0.0")
		if run.Server != "https://jss.example.com" || run.ToolVersion != "2.0.0" {
			t.Errorf("got %+v", run)
		}
		if run.GeneratedAt.IsZero() {
			t.Error("expected GeneratedAt stamped")
		}
	})

	t.Run("lookup by kind", func(t *testing.T) {
		t.Parallel()
		run := NewRunReport("server", "v")
		run.AddReport(NewCruftReport(KindPackage))
		run.AddReport(NewCruftReport(KindScript))

		if _, ok := run.ReportByKind(KindScript); !ok {
			t.Error("expected script report found")
		}
		if _, ok := run.ReportByKind(KindEBook); ok {
			t.Error("expected missing kind to report false")
		}
	})
}

// TestRemovalCandidates tests removal entry collection.
func TestRemovalCandidates(t *testing.T) {
	t.Parallel()

	run := NewRunReport("server", "v")

	packages := NewCruftReport(KindPackage)
	packages.AddResult(Result{Heading: "All Packages", VerboseOnly: true,
		Identities: []Identity{{ID: 1, Name: "Chrome"}, {ID: 2, Name: "Flash"}}})
	packages.AddResult(Result{Heading: "Unused Packages",
		Identities: []Identity{{ID: 2, Name: "Flash"}}})
	run.AddReport(packages)

	groups := NewCruftReport(KindComputerGroup)
	groups.AddResult(Result{Heading: "Unused Computer Groups",
		Identities: []Identity{{ID: 9, Name: "Old Lab"}}})
	groups.AddResult(Result{Heading: "Empty Computer Groups",
		Identities: []Identity{{ID: 9, Name: "Old Lab"}, {ID: 10, Name: "Pilot"}}})
	run.AddReport(groups)

	computers := NewCruftReport(KindComputer)
	computers.AddResult(Result{Heading: "Out-of-date Computers",
		Identities: []Identity{{ID: 55, Name: "kiosk-3"}}})
	run.AddReport(computers)

	entries := run.RemovalCandidates()

	t.Run("includes non-verbose results only", func(t *testing.T) {
		t.Parallel()
		for _, e := range entries {
			if e.Kind == KindPackage.Tag() && e.ID == 1 {
				t.Error("verbose-only All result leaked into removal candidates")
			}
		}
	})

	t.Run("deduplicates within one report", func(t *testing.T) {
		t.Parallel()
		count := 0
		for _, e := range entries {
			if e.Kind == KindComputerGroup.Tag() && e.ID == 9 {
				count++
			}
		}
		if count != 1 {
			t.Errorf("group 9 listed %d times, expected once", count)
		}
	})

	t.Run("skips device inventory reports", func(t *testing.T) {
		t.Parallel()
		for _, e := range entries {
			if e.Kind == KindComputer.Tag() {
				t.Error("device records must not become removal candidates")
			}
		}
	})

	t.Run("collects expected total", func(t *testing.T) {
		t.Parallel()
		// Flash, Old Lab, Pilot.
		if len(entries) != 3 {
			t.Errorf("got %d entries, expected 3: %v", len(entries), entries)
		}
	})
}
