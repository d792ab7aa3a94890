package labels

import (
	"strings"
	"testing"
	"time"

	"github.com/gp3-app/calgo/internal/models"
)

func TestQRContent(t *testing.T) {
	got := QRContent("acme", "CAL-0042")
	if got != "CALGO/acme/CAL-0042" {
		t.Errorf("unexpected QR payload: %s", got)
	}
}

func TestGenerateSheet(t *testing.T) {
	due := time.Date(2027, 1, 15, 0, 0, 0, 0, time.UTC)
	equipment := []models.Equipment{
		{AssetTag: "CAL-0001", NextDueDate: &due},
		{AssetTag: "CAL-0002"},
	}

	doc, err := GenerateSheet(SheetConfig{}, "acme", equipment)
	if err != nil {
		t.Fatalf("GenerateSheet: %v", err)
	}
	if len(doc) == 0 {
		t.Fatal("sheet should not be empty")
	}
	if !strings.HasPrefix(string(doc[:5]), "%PDF-") {
		t.Errorf("output is not a PDF, starts with %q", doc[:5])
	}
}

func TestSheetConfigNormalize(t *testing.T) {
	cfg := SheetConfig{}.normalize()
	if cfg.Cols != 3 || cfg.Rows != 7 {
		t.Errorf("expected default 3x7 grid, got %dx%d", cfg.Cols, cfg.Rows)
	}

	custom := SheetConfig{Cols: 2, Rows: 4}.normalize()
	if custom.Cols != 2 || custom.Rows != 4 {
		t.Errorf("explicit grid overridden: %+v", custom)
	}
}
