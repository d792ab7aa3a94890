package registry

import (
	"strings"

	"github.com/gp3-app/calgo/internal/models"
)

// CreateInput is the external create-equipment payload. The client schema
// has drifted across versions: the identifier has been sent as
// equipment_id, number and asset_tag, and the interval as a month count,
// a named frequency and a day count. All versions decode into this one
// struct and Normalize folds them into the canonical Equipment shape, so
// nothing past this boundary depends on which field names were used.
type CreateInput struct {
	AssetTag    string `json:"asset_tag"`
	Number      string `json:"number"`
	EquipmentID string `json:"equipment_id"`

	Type          string `json:"type"`
	EquipmentType string `json:"equipment_type"`

	Description  string `json:"description"`
	Manufacturer string `json:"manufacturer"`
	Model        string `json:"model"`
	SerialNumber string `json:"serial_number"`
	Location     string `json:"location"`
	Building     string `json:"building"`
	Ownership    string `json:"ownership"`
	LabName      string `json:"lab_name"`
	Critical     bool   `json:"critical"`

	IntervalDays    int    `json:"interval_days"`
	FrequencyMonths int    `json:"cal_frequency_months"`
	Frequency       string `json:"frequency"`
}

// namedFrequencies maps the legacy frequency enum to month counts.
var namedFrequencies = map[string]int{
	"monthly":    1,
	"quarterly":  3,
	"semiannual": 6,
	"annual":     12,
	"biennial":   24,
}

func monthsToDays(months int) int {
	return months * 365 / 12
}

// Normalize folds the versioned aliases into a canonical Equipment record.
// The identifier field is required; an unrecognized named frequency is
// rejected rather than silently defaulted.
func (in CreateInput) Normalize() (*models.Equipment, error) {
	tag := firstNonEmpty(in.AssetTag, in.Number, in.EquipmentID)
	if tag == "" {
		return nil, &ValidationError{Field: "asset_tag", Reason: "identifier is required"}
	}

	interval, err := in.intervalDays()
	if err != nil {
		return nil, err
	}

	return &models.Equipment{
		AssetTag:     tag,
		Type:         firstNonEmpty(in.Type, in.EquipmentType),
		Description:  in.Description,
		Manufacturer: in.Manufacturer,
		Model:        in.Model,
		SerialNumber: in.SerialNumber,
		Location:     in.Location,
		Building:     in.Building,
		Ownership:    in.Ownership,
		LabName:      in.LabName,
		Critical:     in.Critical,
		IntervalDays: interval,
	}, nil
}

func (in CreateInput) intervalDays() (int, error) {
	switch {
	case in.IntervalDays > 0:
		return in.IntervalDays, nil
	case in.IntervalDays < 0:
		return 0, &ValidationError{Field: "interval_days", Reason: "must be positive"}
	case in.FrequencyMonths > 0:
		return monthsToDays(in.FrequencyMonths), nil
	case in.FrequencyMonths < 0:
		return 0, &ValidationError{Field: "cal_frequency_months", Reason: "must be positive"}
	case in.Frequency != "":
		months, ok := namedFrequencies[strings.ToLower(strings.TrimSpace(in.Frequency))]
		if !ok {
			return 0, &ValidationError{Field: "frequency", Reason: "unknown frequency name"}
		}
		return monthsToDays(months), nil
	default:
		// Annual is the historical default for unspecified intervals.
		return monthsToDays(12), nil
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
