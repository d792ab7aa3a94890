// Package evidence produces exportable compliance packages for audits.
// Both output formats are built from one filtered record set, so the
// summary text and the PDF can never disagree about what they cover.
package evidence

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gp3-app/calgo/internal/agent"
	"github.com/gp3-app/calgo/internal/compliance"
	"github.com/gp3-app/calgo/internal/models"
	"github.com/gp3-app/calgo/internal/registry"
)

// Type selects which equipment subset the package covers.
type Type string

const (
	TypeAllCurrent   Type = "all_current"
	TypeOverdue      Type = "overdue"
	TypeExpiringSoon Type = "expiring_soon"
)

// Format selects the output rendering.
type Format string

const (
	FormatSummary  Format = "summary"
	FormatDocument Format = "document"
)

// EmptySelectionWarning is attached to a package whose filter matched
// nothing. The package is still returned; an auditor asking for overdue
// evidence and getting zero records is a good day.
const EmptySelectionWarning = "no records matched the selected evidence filter"

// Package is one generated evidence package.
type Package struct {
	EvidenceType Type      `json:"evidenceType"`
	Format       Format    `json:"format"`
	RecordCount  int       `json:"recordCount"`
	GeneratedAt  time.Time `json:"generatedAt"`
	Description  string    `json:"packageDescription,omitempty"`
	Document     []byte    `json:"-"`
	Warning      string    `json:"warning,omitempty"`
}

// Generator builds evidence packages from live registry data.
type Generator struct {
	reg *registry.Service
	gw  *agent.Gateway
}

// NewGenerator creates a generator. The gateway may be nil; packages then
// carry only the deterministic description.
func NewGenerator(reg *registry.Service, gw *agent.Gateway) *Generator {
	return &Generator{reg: reg, gw: gw}
}

// Filter selects the records a package covers. It applies the one
// classifier boundary rule, so a record can never land in two packages of
// different types generated at the same instant, and no_data records
// never appear in any of them.
func Filter(equipment []models.Equipment, evidenceType Type, now time.Time) ([]models.Equipment, error) {
	var want compliance.Status
	switch evidenceType {
	case TypeAllCurrent:
		want = compliance.StatusCurrent
	case TypeOverdue:
		want = compliance.StatusOverdue
	case TypeExpiringSoon:
		want = compliance.StatusExpiringSoon
	default:
		return nil, fmt.Errorf("unknown evidence type %q", evidenceType)
	}

	selected := make([]models.Equipment, 0, len(equipment))
	for _, eq := range equipment {
		status := compliance.Classify(now, eq.LastCalDate, eq.NextDueDate)
		if status == want {
			eq.Status = string(status)
			selected = append(selected, eq)
		}
	}
	return selected, nil
}

// Generate builds a package for the tenant.
func (g *Generator) Generate(ctx context.Context, companyID, companyName string, evidenceType Type, format Format) (*Package, error) {
	if format != FormatSummary && format != FormatDocument {
		return nil, fmt.Errorf("unknown format %q", format)
	}

	all, err := g.reg.List(companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load registry: %w", err)
	}

	now := time.Now().UTC()
	selected, err := Filter(all, evidenceType, now)
	if err != nil {
		return nil, err
	}

	var counts compliance.Counts
	for _, eq := range all {
		counts.Add(compliance.Classify(now, eq.LastCalDate, eq.NextDueDate))
	}

	pkg := &Package{
		EvidenceType: evidenceType,
		Format:       format,
		RecordCount:  len(selected),
		GeneratedAt:  now,
	}
	if len(selected) == 0 {
		pkg.Warning = EmptySelectionWarning
	}

	description := BuildSummary(companyName, evidenceType, selected, counts, now)
	if g.gw != nil && len(selected) > 0 {
		if narrative, err := g.gw.Summarize(ctx, companyName, string(evidenceType), description); err == nil {
			description = narrative + "\n\n" + description
		} else {
			log.Printf("⚠️ Evidence: narrative generation failed, using plain summary: %v", err)
		}
	}
	pkg.Description = description

	if format == FormatDocument {
		doc, err := BuildPDF(companyName, evidenceType, selected, counts, now)
		if err != nil {
			return nil, fmt.Errorf("failed to build evidence document: %w", err)
		}
		pkg.Document = doc
	}

	return pkg, nil
}

// BuildSummary renders the deterministic textual description of a package.
func BuildSummary(companyName string, evidenceType Type, selected []models.Equipment, counts compliance.Counts, generatedAt time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Calibration evidence package for %s\n", companyName)
	fmt.Fprintf(&b, "Type: %s | Generated: %s UTC\n", displayType(evidenceType), generatedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "Records in package: %d\n", len(selected))
	fmt.Fprintf(&b, "Fleet: %d total | %d current | %d expiring soon | %d overdue | %d without data\n",
		counts.Total(), counts.Current, counts.ExpiringSoon, counts.Overdue, counts.NoData)

	if total := counts.Total() - counts.NoData; total > 0 {
		fmt.Fprintf(&b, "Compliance rate: %.1f%%\n", float64(counts.Current)/float64(total)*100)
	}

	if len(selected) == 0 {
		b.WriteString("\nNo equipment records matched this filter.\n")
		return b.String()
	}

	b.WriteString("\n")
	for _, eq := range selected {
		fmt.Fprintf(&b, "- %s (%s): last cal %s, due %s, lab %s",
			eq.AssetTag, orDash(eq.Type), fmtDate(eq.LastCalDate), fmtDate(eq.NextDueDate), orDash(eq.LabName))
		if eq.Critical {
			b.WriteString(" [CRITICAL]")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func displayType(t Type) string {
	words := strings.Split(string(t), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func fmtDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02")
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
