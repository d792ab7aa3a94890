package compliance

import (
	"testing"
	"time"
)

func date(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestClassifyNoData(t *testing.T) {
	now := *date("2026-06-01")

	if got := Classify(now, nil, nil); got != StatusNoData {
		t.Errorf("nil dates: expected no_data, got %s", got)
	}
	// A record with a recorded calibration but no derived due date is
	// unschedulable, not overdue.
	if got := Classify(now, date("2026-01-01"), nil); got != StatusNoData {
		t.Errorf("missing next due: expected no_data, got %s", got)
	}
	if got := Classify(now, nil, date("2026-07-01")); got != StatusNoData {
		t.Errorf("missing last cal: expected no_data, got %s", got)
	}
}

func TestClassifyBoundaries(t *testing.T) {
	now := *date("2026-06-01")
	last := date("2025-06-01")

	// Due exactly at now counts as overdue.
	if got := Classify(now, last, date("2026-06-01")); got != StatusOverdue {
		t.Errorf("due == now: expected overdue, got %s", got)
	}
	if got := Classify(now, last, date("2026-05-31")); got != StatusOverdue {
		t.Errorf("due < now: expected overdue, got %s", got)
	}

	// Due exactly at now + 60 days is still expiring_soon.
	if got := Classify(now, last, date("2026-07-31")); got != StatusExpiringSoon {
		t.Errorf("due == now+60d: expected expiring_soon, got %s", got)
	}
	if got := Classify(now, last, date("2026-06-02")); got != StatusExpiringSoon {
		t.Errorf("due == now+1d: expected expiring_soon, got %s", got)
	}

	// One day past the window is current.
	if got := Classify(now, last, date("2026-08-01")); got != StatusCurrent {
		t.Errorf("due == now+61d: expected current, got %s", got)
	}
}

func TestClassifyIsTotal(t *testing.T) {
	// Every input lands in exactly one of the four buckets.
	now := *date("2026-06-01")
	last := date("2025-06-01")

	dues := []*time.Time{
		nil,
		date("2020-01-01"),
		date("2026-06-01"),
		date("2026-07-15"),
		date("2026-07-31"),
		date("2030-01-01"),
	}

	valid := map[Status]bool{
		StatusCurrent:      true,
		StatusExpiringSoon: true,
		StatusOverdue:      true,
		StatusNoData:       true,
	}

	for _, due := range dues {
		if got := Classify(now, last, due); !valid[got] {
			t.Errorf("unexpected status %q for due %v", got, due)
		}
	}
}

func TestRecordThenClassifyIsCurrent(t *testing.T) {
	// Classifying immediately after a calibration with now == event date
	// must yield current for any positive interval beyond the window.
	now := *date("2026-06-01")
	due := now.AddDate(1, 0, 0)

	if got := Classify(now, &now, &due); got != StatusCurrent {
		t.Errorf("fresh annual calibration: expected current, got %s", got)
	}

	// A 30-day interval lands inside the expiring window but is still
	// never overdue on the day of calibration.
	shortDue := now.AddDate(0, 0, 30)
	if got := Classify(now, &now, &shortDue); got == StatusOverdue {
		t.Error("fresh calibration must never classify as overdue")
	}
}

func TestCounts(t *testing.T) {
	var c Counts
	for _, s := range []Status{StatusCurrent, StatusCurrent, StatusOverdue, StatusNoData} {
		c.Add(s)
	}
	if c.Current != 2 || c.Overdue != 1 || c.NoData != 1 || c.ExpiringSoon != 0 {
		t.Errorf("unexpected tally: %+v", c)
	}
	if c.Total() != 4 {
		t.Errorf("expected total 4, got %d", c.Total())
	}
}
