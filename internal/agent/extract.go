package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gp3-app/calgo/internal/utils"
)

// Extraction holds the fields pulled from an uploaded certificate.
type Extraction struct {
	ToolNumber      string `json:"tool_number"`
	CalibrationDate string `json:"calibration_date"`
	NextDueDate     string `json:"next_due_date"`
	Technician      string `json:"technician"`
	Result          string `json:"result"`
	Comments        string `json:"comments"`
}

// ExtractCertificate asks the model to read an uploaded certificate file
// and returns the structured fields. Unlike Ask, it returns an error: the
// upload channel reports extraction failures as a warning status, not as
// conversation.
func (g *Gateway) ExtractCertificate(ctx context.Context, filename string, size int64) (*Extraction, error) {
	if g.model == nil {
		return nil, fmt.Errorf("agent backend not configured")
	}

	prompt := fmt.Sprintf("%s\nFilename: %s\nFile size: %d bytes\n", ExtractionPrompt, filename, size)

	raw, err := g.model.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("extraction call failed: %w", err)
	}

	return ParseExtraction(raw)
}

// ParseExtraction decodes raw model output into an Extraction.
func ParseExtraction(raw string) (*Extraction, error) {
	cleaned := utils.SanitizeJSON(raw)

	var ex Extraction
	if err := json.Unmarshal([]byte(cleaned), &ex); err != nil {
		return nil, fmt.Errorf("could not parse certificate data: %w", err)
	}
	if ex.ToolNumber == "" {
		return nil, fmt.Errorf("certificate did not identify a tool number")
	}
	return &ex, nil
}
