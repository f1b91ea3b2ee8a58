package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/jssimporter/spruce/internal/model"
)

// testRun builds a small run with one package report.
func testRun() *model.RunReport {
	run := model.NewRunReport("https://jss.example.com", "2.0.0")
	report := model.NewCruftReport(model.KindPackage)
	report.AddResult(model.Result{
		Heading:     "All Packages",
		VerboseOnly: true,
		Identities: []model.Identity{
			{ID: 1, Name: "Chrome"}, {ID: 2, Name: "Flash"}, {ID: 3, Name: "Firefox"},
		},
	})
	report.AddResult(model.Result{
		Heading:     "Used Packages",
		VerboseOnly: true,
		Identities:  []model.Identity{{ID: 1, Name: "Chrome"}},
	})
	report.AddResult(model.Result{
		Heading:     "Unused Packages",
		Description: "Packages not installed by any policy or imaging configuration.",
		Identities:  []model.Identity{{ID: 2, Name: "Flash"}, {ID: 3, Name: "Firefox"}},
	})
	report.AddMetadata("Cruftiness", "Unused package cruftiness", model.FormatScore(2.0/3.0))
	run.AddReport(report)
	return run
}

// TestSimpleWriter tests text rendering and the verbosity filter.
func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("non-verbose hides All and Used", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(testRun()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out := buf.String()

		if strings.Contains(out, "All Packages") || strings.Contains(out, "Used Packages") {
			t.Error("verbose-only results leaked into non-verbose output")
		}
		if !strings.Contains(out, "Unused Packages") {
			t.Error("expected Unused Packages section")
		}
		if !strings.Contains(out, "66.67%") {
			t.Error("expected cruftiness metadata rendered")
		}
	})

	t.Run("verbose shows everything", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf, WithVerbose(true)).Write(testRun()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out := buf.String()

		for _, heading := range []string{"All Packages", "Used Packages", "Unused Packages"} {
			if !strings.Contains(out, heading) {
				t.Errorf("expected %q in verbose output", heading)
			}
		}
	})

	t.Run("sorts names case-insensitively", func(t *testing.T) {
		t.Parallel()
		run := model.NewRunReport("server", "v")
		report := model.NewCruftReport(model.KindScript)
		report.AddResult(model.Result{
			Heading: "Unused Scripts",
			Identities: []model.Identity{
				{ID: 1, Name: "zz-last.sh"},
				{ID: 2, Name: "Aardvark.sh"},
				{ID: 3, Name: "adobe-flash.sh"},
			},
		})
		run.AddReport(report)

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(run); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out := buf.String()

		aardvark := strings.Index(out, "Aardvark.sh")
		adobe := strings.Index(out, "adobe-flash.sh")
		last := strings.Index(out, "zz-last.sh")
		if !(aardvark < adobe && adobe < last) {
			t.Errorf("names out of order:\n%s", out)
		}
	})
}

// TestJSONWriter tests JSON rendering.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("emits valid JSON with kind tags", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithPrettyPrint()).Write(testRun()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var decoded struct {
			Server  string `json:"server"`
			Reports []struct {
				Kind string `json:"kind"`
			} `json:"reports"`
		}
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if decoded.Server != "https://jss.example.com" {
			t.Errorf("got server %q", decoded.Server)
		}
		if len(decoded.Reports) != 1 || decoded.Reports[0].Kind != "package" {
			t.Errorf("got reports %+v, expected one package report", decoded.Reports)
		}
	})
}

// TestMarkdownWriter tests Markdown rendering.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if _, err := NewMarkdownWriter(&buf).Write(testRun()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "# Spruce Report") {
		t.Error("expected top-level heading")
	}
	if !strings.Contains(out, "## Packages") {
		t.Error("expected per-kind section")
	}
	if !strings.Contains(out, "Flash") {
		t.Error("expected unused package listed")
	}
	if strings.Contains(out, "All Packages") {
		t.Error("verbose-only result leaked into non-verbose markdown")
	}
}

// TestMultiWriter tests fan-out composition.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes to all writers", func(t *testing.T) {
		t.Parallel()
		var a, b bytes.Buffer
		mw := NewMultiWriter(NewSimpleWriter(&a), NewJSONWriter(&b))

		if _, err := mw.Write(testRun()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if a.Len() == 0 || b.Len() == 0 {
			t.Error("expected both writers to receive output")
		}
	})

	t.Run("stops on first error", func(t *testing.T) {
		t.Parallel()
		var b bytes.Buffer
		mw := NewMultiWriter(NewSimpleWriter(failingWriter{}), NewSimpleWriter(&b))

		if _, err := mw.Write(testRun()); err == nil {
			t.Fatal("expected an error")
		}
		if b.Len() != 0 {
			t.Error("expected second writer skipped after failure")
		}
	})
}

// failingWriter always fails.
type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}
