package evidence

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/gp3-app/calgo/internal/compliance"
	"github.com/gp3-app/calgo/internal/models"
)

func fleet(now time.Time) []models.Equipment {
	past := now.AddDate(0, -11, 0)
	overdueAt := now.AddDate(0, 0, -10)
	soonAt := now.AddDate(0, 0, 30)
	farAt := now.AddDate(0, 6, 0)

	return []models.Equipment{
		{AssetTag: "OVR-1", LastCalDate: &past, NextDueDate: &overdueAt, Critical: true},
		{AssetTag: "SOON-1", LastCalDate: &past, NextDueDate: &soonAt},
		{AssetTag: "CUR-1", LastCalDate: &past, NextDueDate: &farAt},
		{AssetTag: "NEW-1"}, // no data
	}
}

func TestFilterSelectsByClassifier(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	eq := fleet(now)

	cases := map[Type]string{
		TypeOverdue:      "OVR-1",
		TypeExpiringSoon: "SOON-1",
		TypeAllCurrent:   "CUR-1",
	}

	for etype, wantTag := range cases {
		selected, err := Filter(eq, etype, now)
		if err != nil {
			t.Fatalf("Filter(%s): %v", etype, err)
		}
		if len(selected) != 1 || selected[0].AssetTag != wantTag {
			t.Errorf("Filter(%s): expected [%s], got %+v", etype, wantTag, selected)
		}
	}
}

func TestFilterExcludesNoData(t *testing.T) {
	// A never-calibrated record must not leak into any evidence type.
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	eq := fleet(now)

	for _, etype := range []Type{TypeAllCurrent, TypeOverdue, TypeExpiringSoon} {
		selected, _ := Filter(eq, etype, now)
		for _, s := range selected {
			if s.AssetTag == "NEW-1" {
				t.Errorf("no_data record leaked into %s filter", etype)
			}
		}
	}
}

func TestFilterRejectsUnknownType(t *testing.T) {
	if _, err := Filter(nil, Type("everything"), time.Now()); err == nil {
		t.Error("expected error for unknown evidence type")
	}
}

func TestFilterIsIdempotent(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	eq := fleet(now)

	first, _ := Filter(eq, TypeOverdue, now)
	second, _ := Filter(eq, TypeOverdue, now)

	if !reflect.DeepEqual(first, second) {
		t.Error("repeated filtering without writes must yield identical record sets")
	}
}

func TestBuildSummary(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	eq := fleet(now)
	selected, _ := Filter(eq, TypeOverdue, now)

	var counts compliance.Counts
	for _, e := range eq {
		counts.Add(compliance.Classify(now, e.LastCalDate, e.NextDueDate))
	}

	summary := BuildSummary("Acme Aerospace", TypeOverdue, selected, counts, now)

	for _, want := range []string{
		"Acme Aerospace",
		"Type: Overdue",
		"Records in package: 1",
		"4 total | 1 current | 1 expiring soon | 1 overdue | 1 without data",
		"OVR-1",
		"[CRITICAL]",
	} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q:\n%s", want, summary)
		}
	}
}

func TestBuildSummaryEmptySelection(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	summary := BuildSummary("Acme", TypeOverdue, nil, compliance.Counts{}, now)
	if !strings.Contains(summary, "Records in package: 0") {
		t.Errorf("empty summary should report zero records:\n%s", summary)
	}
	if !strings.Contains(summary, "No equipment records matched") {
		t.Errorf("empty summary should state the empty selection:\n%s", summary)
	}
}

func TestBuildPDF(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	eq := fleet(now)
	selected, _ := Filter(eq, TypeOverdue, now)

	var counts compliance.Counts
	for _, e := range eq {
		counts.Add(compliance.Classify(now, e.LastCalDate, e.NextDueDate))
	}

	doc, err := BuildPDF("Acme", TypeOverdue, selected, counts, now)
	if err != nil {
		t.Fatalf("BuildPDF: %v", err)
	}
	if len(doc) == 0 {
		t.Fatal("document should not be empty")
	}
	if !strings.HasPrefix(string(doc[:5]), "%PDF-") {
		t.Errorf("output is not a PDF, starts with %q", doc[:5])
	}

	// Empty selection still produces a document.
	doc, err = BuildPDF("Acme", TypeOverdue, nil, counts, now)
	if err != nil {
		t.Fatalf("BuildPDF empty: %v", err)
	}
	if len(doc) == 0 {
		t.Fatal("empty-selection document should still render")
	}
}
