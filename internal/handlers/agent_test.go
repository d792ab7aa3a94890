package handlers

import (
	"testing"

	"github.com/gp3-app/calgo/internal/agent"
)

func TestEventFromExtraction(t *testing.T) {
	in, err := eventFromExtraction(&agent.Extraction{
		ToolNumber:      "TQ-001",
		CalibrationDate: "2026-08-01",
		NextDueDate:     "2027-08-01",
		Technician:      "M. Osei",
		Result:          "pass",
	})
	if err != nil {
		t.Fatalf("eventFromExtraction: %v", err)
	}
	if in.Date.Year() != 2026 || in.Date.Month() != 8 {
		t.Errorf("unexpected calibration date: %v", in.Date)
	}
	if in.NextDueDate == nil || in.NextDueDate.Year() != 2027 {
		t.Errorf("due date override not kept: %v", in.NextDueDate)
	}
	if in.Result != "pass" || in.Technician != "M. Osei" {
		t.Errorf("unexpected event fields: %+v", in)
	}
}

func TestEventFromExtractionBadDueDate(t *testing.T) {
	in, err := eventFromExtraction(&agent.Extraction{
		ToolNumber:      "TQ-001",
		CalibrationDate: "2026-08-01",
		NextDueDate:     "next summer",
	})
	if err != nil {
		t.Fatalf("eventFromExtraction: %v", err)
	}
	if in.NextDueDate != nil {
		t.Errorf("unparseable due date should be dropped, got %v", in.NextDueDate)
	}
}

func TestEventFromExtractionRequiresDate(t *testing.T) {
	if _, err := eventFromExtraction(&agent.Extraction{ToolNumber: "TQ-001"}); err == nil {
		t.Error("expected error when calibration date is missing")
	}
}
