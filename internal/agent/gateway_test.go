package agent

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gp3-app/calgo/internal/models"
	"github.com/gp3-app/calgo/internal/registry"
)

type failingModel struct{}

func (failingModel) GenerateContent(ctx context.Context, prompt string) (string, error) {
	return "", errors.New("backend unreachable")
}

func TestAskReturnsApologyWhenUnconfigured(t *testing.T) {
	g := NewGateway(nil, nil)

	answer := g.Ask(context.Background(), "c1", "Acme", "what is overdue?")
	if answer != Apology {
		t.Errorf("expected apology, got %q", answer)
	}
}

func TestAskConvertsBackendFailureToApology(t *testing.T) {
	g := NewGateway(failingModel{}, nil)

	answer := g.askWithContext(context.Background(), "Acme", "Equipment registry:\n", "what is overdue?")
	if answer != Apology {
		t.Errorf("expected apology on backend failure, got %q", answer)
	}
}

func TestAuditApologyWhenCountsUnavailable(t *testing.T) {
	// An audit that cannot read its counts must degrade to the apology,
	// never to a zero-filled answer presented as exact.
	g := NewGateway(failingModel{}, nil)

	answer := g.Audit("c1")
	if answer != Apology {
		t.Errorf("expected apology, got %q", answer)
	}
	if strings.Contains(answer, "0 pieces") {
		t.Error("unavailable counts must not render as zeroes")
	}
}

func TestExtractCertificateErrorsWhenUnconfigured(t *testing.T) {
	g := NewGateway(nil, nil)

	if _, err := g.ExtractCertificate(context.Background(), "cert.pdf", 1024); err == nil {
		t.Error("expected error from unconfigured gateway")
	}
}

func TestRenderContextEmptyRegistry(t *testing.T) {
	out := RenderContext(nil, nil)

	if !strings.Contains(out, "No equipment registered yet") {
		t.Errorf("empty registry not rendered: %q", out)
	}
	if !strings.Contains(out, "No calibration records on file yet") {
		t.Errorf("empty ledger not rendered: %q", out)
	}
}

func TestRenderContext(t *testing.T) {
	due := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	equipment := []models.Equipment{
		{AssetTag: "CAL-0042", Type: "caliper", IntervalDays: 365, LabName: "Acme Labs",
			Critical: true, NextDueDate: &due, Status: "expiring_soon"},
	}
	events := []models.CalibrationEvent{
		{RecordNumber: "CAL-20250915-abcd1234", Date: due.AddDate(-1, 0, 0),
			NextDueDate: due, Result: "pass", Technician: "J. Ortiz"},
	}

	out := RenderContext(equipment, events)

	for _, want := range []string{"CAL-0042", "caliper", "Acme Labs", "CRITICAL",
		"due 2026-09-15", "CAL-20250915-abcd1234", "result=pass", "J. Ortiz"} {
		if !strings.Contains(out, want) {
			t.Errorf("context missing %q:\n%s", want, out)
		}
	}
}

func TestFormatAuditAnswer(t *testing.T) {
	answer := FormatAuditAnswer(&registry.AuditCounts{
		TotalEquipment: 12,
		WithNextDue:    9,
		MissingNextDue: 3,
		WithLab:        7,
		MissingLab:     5,
		DistinctLabs:   2,
	})

	for _, want := range []string{"12 pieces", "9 have a next-due date", "3 are missing",
		"7 have a calibrating lab", "5 do not", "2 approved lab"} {
		if !strings.Contains(answer, want) {
			t.Errorf("audit answer missing %q: %s", want, answer)
		}
	}
}

func TestFormatAuditAnswerEmpty(t *testing.T) {
	answer := FormatAuditAnswer(&registry.AuditCounts{})
	if !strings.Contains(answer, "0 pieces of equipment") {
		t.Errorf("empty audit answer should state zero count: %s", answer)
	}
}

func TestParseExtraction(t *testing.T) {
	raw := "```json\n{\"tool_number\": \"CAL-0042\", \"calibration_date\": \"2026-08-01\", \"next_due_date\": \"2027-08-01\", \"result\": \"pass\"}\n```"

	ex, err := ParseExtraction(raw)
	if err != nil {
		t.Fatalf("ParseExtraction: %v", err)
	}
	if ex.ToolNumber != "CAL-0042" || ex.Result != "pass" {
		t.Errorf("unexpected extraction: %+v", ex)
	}
}

func TestParseExtractionRejectsGarbage(t *testing.T) {
	if _, err := ParseExtraction("the scan was too blurry to read"); err == nil {
		t.Error("expected parse failure for non-JSON output")
	}
	if _, err := ParseExtraction(`{"result": "pass"}`); err == nil {
		t.Error("expected failure when tool number is missing")
	}
}
