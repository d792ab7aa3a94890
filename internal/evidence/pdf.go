package evidence

import (
	"bytes"
	"fmt"
	"time"

	"github.com/gp3-app/calgo/internal/compliance"
	"github.com/gp3-app/calgo/internal/models"
	"github.com/jung-kurt/gofpdf"
)

// BuildPDF renders the evidence document from the same filtered record
// set the summary is built from.
func BuildPDF(companyName string, evidenceType Type, selected []models.Equipment, counts compliance.Counts, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(18, 18, 18)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	// Title block
	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(0, 10, "Calibration Evidence Package", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.SetTextColor(60, 60, 60)
	pdf.CellFormat(0, 7, companyName, "", 1, "L", false, 0, "")
	pdf.Ln(6)

	// Cover stats
	rate := "N/A"
	if total := counts.Total() - counts.NoData; total > 0 {
		rate = fmt.Sprintf("%.1f%%", float64(counts.Current)/float64(total)*100)
	}
	cover := [][2]string{
		{"Report Type", displayType(evidenceType)},
		{"Generated", generatedAt.Format("2006-01-02 15:04 UTC")},
		{"Records in Package", fmt.Sprintf("%d", len(selected))},
		{"Fleet Size", fmt.Sprintf("%d", counts.Total())},
		{"Compliance Rate", rate},
		{"Current", fmt.Sprintf("%d", counts.Current)},
		{"Expiring Soon", fmt.Sprintf("%d", counts.ExpiringSoon)},
		{"Overdue", fmt.Sprintf("%d", counts.Overdue)},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, row := range cover {
		pdf.SetFillColor(0, 51, 102)
		pdf.SetTextColor(255, 255, 255)
		pdf.CellFormat(50, 7, row[0], "1", 0, "L", true, 0, "")
		pdf.SetTextColor(30, 30, 30)
		pdf.CellFormat(70, 7, row[1], "1", 1, "L", false, 0, "")
	}
	pdf.Ln(8)

	// Record table
	pdf.SetFont("Helvetica", "B", 13)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(0, 8, "Calibration Records", "", 1, "L", false, 0, "")

	if len(selected) == 0 {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(0, 8, "No equipment records matched this filter.", "", 1, "L", false, 0, "")
	} else {
		headers := []string{"Asset Tag", "Type", "Manufacturer", "Last Cal", "Next Due", "Status"}
		widths := []float64{32, 28, 34, 24, 24, 32}

		pdf.SetFont("Helvetica", "B", 8)
		pdf.SetFillColor(0, 51, 102)
		pdf.SetTextColor(255, 255, 255)
		for i, h := range headers {
			pdf.CellFormat(widths[i], 6, h, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(30, 30, 30)
		for i, eq := range selected {
			if i%2 == 1 {
				pdf.SetFillColor(245, 245, 245)
			} else {
				pdf.SetFillColor(255, 255, 255)
			}
			status := eq.Status
			if eq.Critical {
				status += " !"
			}
			cells := []string{
				eq.AssetTag, eq.Type, eq.Manufacturer,
				fmtDate(eq.LastCalDate), fmtDate(eq.NextDueDate), status,
			}
			for j, c := range cells {
				pdf.CellFormat(widths[j], 6, c, "1", 0, "L", true, 0, "")
			}
			pdf.Ln(-1)
		}
	}

	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(136, 136, 136)
	pdf.CellFormat(0, 5, fmt.Sprintf("Confidential - %s", companyName), "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
