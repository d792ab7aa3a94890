package registry

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/gp3-app/calgo/internal/compliance"
	"github.com/gp3-app/calgo/internal/models"
	"gorm.io/gorm"
)

func TestIsNotFoundMatchesWrappedErrors(t *testing.T) {
	if !isNotFound(gorm.ErrRecordNotFound) {
		t.Error("bare record-not-found should match")
	}
	if !isNotFound(fmt.Errorf("loading equipment: %w", gorm.ErrRecordNotFound)) {
		t.Error("wrapped record-not-found should match")
	}
	if isNotFound(fmt.Errorf("connection refused")) {
		t.Error("unrelated errors should not match")
	}
	if isNotFound(nil) {
		t.Error("nil should not match")
	}
}

func TestNextDueFor(t *testing.T) {
	date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	due := NextDueFor(date, 365)
	if due.Year() != 2027 || due.Month() != 3 || due.Day() != 1 {
		t.Errorf("unexpected due date: %v", due)
	}
}

func TestRecordNumberFormat(t *testing.T) {
	date := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	num := NewRecordNumber(date)
	if !strings.HasPrefix(num, "CAL-20260830-") {
		t.Errorf("unexpected record number: %s", num)
	}
	if len(num) != len("CAL-20260830-")+8 {
		t.Errorf("unexpected record number length: %s", num)
	}
	if num == NewRecordNumber(date) {
		t.Error("record numbers must be unique per mint")
	}
}

func TestApplyStatus(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	past := now.AddDate(0, -13, 0)
	overdue := now.AddDate(0, -1, 0)
	soon := now.AddDate(0, 0, 30)

	equipment := []models.Equipment{
		{AssetTag: "A"},                                     // never calibrated
		{AssetTag: "B", LastCalDate: &past, NextDueDate: &overdue},
		{AssetTag: "C", LastCalDate: &past, NextDueDate: &soon},
	}

	ApplyStatus(equipment, now)

	if equipment[0].Status != string(compliance.StatusNoData) {
		t.Errorf("A: expected no_data, got %s", equipment[0].Status)
	}
	if equipment[1].Status != string(compliance.StatusOverdue) {
		t.Errorf("B: expected overdue, got %s", equipment[1].Status)
	}
	if equipment[2].Status != string(compliance.StatusExpiringSoon) {
		t.Errorf("C: expected expiring_soon, got %s", equipment[2].Status)
	}
}

func TestRecordThenClassifyRoundTrip(t *testing.T) {
	// Recording a calibration and classifying at the event date must
	// yield a non-overdue status for any positive interval.
	eventDate := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	for _, interval := range []int{30, 91, 182, 365, 730} {
		due := NextDueFor(eventDate, interval)
		got := compliance.Classify(eventDate, &eventDate, &due)
		if got == compliance.StatusOverdue || got == compliance.StatusNoData {
			t.Errorf("interval %d: expected current or expiring_soon, got %s", interval, got)
		}
		if interval > 60 && got != compliance.StatusCurrent {
			t.Errorf("interval %d: expected current, got %s", interval, got)
		}
	}
}
