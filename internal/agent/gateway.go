// Package agent is the natural-language query gateway over the equipment
// registry. Its one promise is "never guess": every question is answered
// against registry data read at call time, and every backend failure is
// converted into a polite apology instead of an error.
package agent

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/gp3-app/calgo/internal/models"
	"github.com/gp3-app/calgo/internal/registry"
)

// Generator produces text for a prompt. *GeminiClient is the production
// implementation.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Gateway answers free-text questions about one tenant's fleet.
type Gateway struct {
	model Generator
	reg   *registry.Service
}

// NewGateway creates a gateway. A nil model means the agent backend is not
// configured; every Ask then degrades to the apology answer.
func NewGateway(model Generator, reg *registry.Service) *Gateway {
	return &Gateway{model: model, reg: reg}
}

// Ask resolves a free-text question against live registry data. It never
// returns an error to the caller: any failure becomes the apology string,
// distinguishable from a real answer only by its content.
func (g *Gateway) Ask(ctx context.Context, companyID, companyName, question string) string {
	if g.model == nil {
		log.Println("⚠️ Agent: no model configured, returning degraded answer")
		return Apology
	}

	dataContext, err := g.buildContext(companyID)
	if err != nil {
		log.Printf("⚠️ Agent: context build failed: %v", err)
		return Apology
	}

	return g.askWithContext(ctx, companyName, dataContext, question)
}

// askWithContext runs the model call for an already-rendered data context
// and converts any failure into the apology answer.
func (g *Gateway) askWithContext(ctx context.Context, companyName, dataContext, question string) string {
	prompt := strings.Replace(SystemPrompt, "{TENANT_NAME}", companyName, 1) +
		"\n### DATA CONTEXT\n" + dataContext +
		"\n### QUESTION\n" + question

	answer, err := g.model.GenerateContent(ctx, prompt)
	if err != nil {
		log.Printf("⚠️ Agent: generation failed: %v", err)
		return Apology
	}
	return answer
}

// buildContext renders the tenant's current registry state as plain text.
// Rebuilt from the database on every call; never cached.
func (g *Gateway) buildContext(companyID string) (string, error) {
	if g.reg == nil {
		return "", fmt.Errorf("registry not attached")
	}
	equipment, err := g.reg.List(companyID)
	if err != nil {
		return "", err
	}
	events, err := g.reg.RecentEvents(companyID, 50)
	if err != nil {
		return "", err
	}
	return RenderContext(equipment, events), nil
}

// RenderContext formats registry rows for the model prompt.
func RenderContext(equipment []models.Equipment, events []models.CalibrationEvent) string {
	var b strings.Builder

	b.WriteString("Equipment registry:\n")
	if len(equipment) == 0 {
		b.WriteString("  No equipment registered yet.\n")
	}
	for _, eq := range equipment {
		b.WriteString(fmt.Sprintf("  %s: type=%s | interval=%dd | lab=%s | status=%s",
			eq.AssetTag, orDash(eq.Type), eq.IntervalDays, orDash(eq.LabName), eq.Status))
		if eq.Critical {
			b.WriteString(" | CRITICAL")
		}
		if eq.NextDueDate != nil {
			b.WriteString(" | due " + eq.NextDueDate.Format("2006-01-02"))
		}
		b.WriteString("\n")
	}

	b.WriteString("Recent calibration events:\n")
	if len(events) == 0 {
		b.WriteString("  No calibration records on file yet.\n")
	}
	for _, ev := range events {
		b.WriteString(fmt.Sprintf("  %s: cal %s, due %s, result=%s, tech=%s\n",
			ev.RecordNumber, ev.Date.Format("2006-01-02"),
			ev.NextDueDate.Format("2006-01-02"), ev.Result, orDash(ev.Technician)))
	}

	return b.String()
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// Generate runs a raw prompt against the model. Callers own their own
// degradation policy; an unconfigured backend is an error here.
func (g *Gateway) Generate(ctx context.Context, prompt string) (string, error) {
	if g.model == nil {
		return "", fmt.Errorf("agent backend not configured")
	}
	return g.model.GenerateContent(ctx, prompt)
}

// Summarize writes an executive narrative over an already-rendered record
// summary. Unlike Ask it returns an error: evidence generation has a
// deterministic fallback and decides the degradation itself.
func (g *Gateway) Summarize(ctx context.Context, companyName, evidenceType, recordSummary string) (string, error) {
	if g.model == nil {
		return "", fmt.Errorf("agent backend not configured")
	}

	prompt := strings.Replace(SystemPrompt, "{TENANT_NAME}", companyName, 1) +
		"\n### TASK\nWrite a short executive summary of calibration program health for an audit evidence package." +
		" Call out items needing immediate attention and recommendations by priority." +
		"\nEvidence type requested: " + evidenceType +
		"\n### RECORDS\n" + recordSummary

	return g.model.GenerateContent(ctx, prompt)
}

// Audit answers the structured audit query with literal counts computed
// straight from the registry. No model call is involved: approximations
// are exactly what this query exists to rule out.
func (g *Gateway) Audit(companyID string) string {
	if g.reg == nil {
		log.Println("⚠️ Agent: no registry attached, returning degraded answer")
		return Apology
	}
	counts, err := g.reg.Audit(companyID)
	if err != nil {
		log.Printf("⚠️ Agent: audit query failed: %v", err)
		return Apology
	}
	return FormatAuditAnswer(counts)
}

// FormatAuditAnswer renders the audit counts as exact text.
func FormatAuditAnswer(c *registry.AuditCounts) string {
	if c.TotalEquipment == 0 {
		return "Your registry is empty: 0 pieces of equipment on file. Add your first tool to begin tracking calibration compliance."
	}
	return fmt.Sprintf(
		"Registry audit: %d pieces of equipment on file. "+
			"%d have a next-due date set, %d are missing one. "+
			"%d have a calibrating lab assigned, %d do not. "+
			"%d approved lab(s) in use.",
		c.TotalEquipment, c.WithNextDue, c.MissingNextDue,
		c.WithLab, c.MissingLab, c.DistinctLabs)
}
