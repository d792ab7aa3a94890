// Package labels renders printable QR label sheets for physical tools so
// the asset tag on the bench matches the registry record.
package labels

import (
	"bytes"
	"fmt"
	"time"

	"github.com/gp3-app/calgo/internal/models"
	"github.com/jung-kurt/gofpdf"
	"github.com/skip2/go-qrcode"
)

// SheetConfig holds the label grid geometry for one A4 sheet.
type SheetConfig struct {
	Cols       int     `json:"cols"`
	Rows       int     `json:"rows"`
	MarginTop  float64 `json:"marginTop"`
	MarginLeft float64 `json:"marginLeft"`
	GapX       float64 `json:"gapX"`
	GapY       float64 `json:"gapY"`
}

// DefaultSheet is a common 3x7 adhesive label layout.
var DefaultSheet = SheetConfig{Cols: 3, Rows: 7, MarginTop: 12, MarginLeft: 8, GapX: 2, GapY: 2}

// normalize fills unset geometry with the default layout.
func (c SheetConfig) normalize() SheetConfig {
	if c.Cols <= 0 {
		c.Cols = DefaultSheet.Cols
	}
	if c.Rows <= 0 {
		c.Rows = DefaultSheet.Rows
	}
	if c.MarginTop <= 0 {
		c.MarginTop = DefaultSheet.MarginTop
	}
	if c.MarginLeft <= 0 {
		c.MarginLeft = DefaultSheet.MarginLeft
	}
	return c
}

// QRContent is the payload encoded on an equipment label.
func QRContent(companySlug, assetTag string) string {
	return fmt.Sprintf("CALGO/%s/%s", companySlug, assetTag)
}

// GenerateSheet creates a PDF of QR asset-tag labels for the given equipment.
func GenerateSheet(cfg SheetConfig, companySlug string, equipment []models.Equipment) ([]byte, error) {
	cfg = cfg.normalize()

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetFont("Helvetica", "B", 10)

	pageWidth, pageHeight := 210.0, 297.0
	totalGapX := float64(cfg.Cols-1) * cfg.GapX
	totalGapY := float64(cfg.Rows-1) * cfg.GapY
	availW := pageWidth - (cfg.MarginLeft * 2)
	availH := pageHeight - (cfg.MarginTop * 2)
	labelW := (availW - totalGapX) / float64(cfg.Cols)
	labelH := (availH - totalGapY) / float64(cfg.Rows)

	labelsPerPage := cfg.Cols * cfg.Rows

	for i, eq := range equipment {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		indexOnPage := i % labelsPerPage
		col := indexOnPage % cfg.Cols
		row := indexOnPage / cfg.Cols
		x := cfg.MarginLeft + float64(col)*(labelW+cfg.GapX)
		y := cfg.MarginTop + float64(row)*(labelH+cfg.GapY)

		qrPng, err := qrcode.Encode(QRContent(companySlug, eq.AssetTag), qrcode.Low, 256)
		if err != nil {
			return nil, fmt.Errorf("qr encode for %s: %w", eq.AssetTag, err)
		}

		imgName := fmt.Sprintf("qr_%d", i)
		imgOptions := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
		_ = pdf.RegisterImageOptionsReader(imgName, imgOptions, bytes.NewReader(qrPng))

		qrSize := labelH * 0.6
		if qrSize > labelW {
			qrSize = labelW * 0.9
		}
		qrX := x + (labelW-qrSize)/2
		qrY := y + (labelH-qrSize)/2 - 3

		pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, imgOptions, 0, "")

		// Asset tag below the code
		pdf.SetXY(x, y+labelH-9)
		pdf.SetFontSize(8)
		pdf.CellFormat(labelW, 4, eq.AssetTag, "", 0, "C", false, 0, "")

		// Next due date, the one line a technician checks at a glance
		pdf.SetXY(x, y+labelH-5)
		pdf.SetFontSize(6)
		pdf.CellFormat(labelW, 3, dueLine(eq.NextDueDate), "", 0, "C", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func dueLine(due *time.Time) string {
	if due == nil {
		return "CAL DUE: not scheduled"
	}
	return "CAL DUE: " + due.Format("2006-01-02")
}
