// Package registry is the canonical store of equipment records and their
// calibration event ledger. Creating a calibration event is the only way
// an equipment record's last-cal/next-due date pair changes, and events
// themselves are append-only audit evidence: no delete operation exists.
package registry

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gp3-app/calgo/internal/compliance"
	"github.com/gp3-app/calgo/internal/database"
	"github.com/gp3-app/calgo/internal/models"
	"gorm.io/gorm"
)

// Service exposes the equipment registry operations for one database.
type Service struct {
	db *database.DB
}

// NewService creates a registry service
func NewService(db *database.DB) *Service {
	return &Service{db: db}
}

// List returns all equipment for the tenant with derived status attached.
func (s *Service) List(companyID string) ([]models.Equipment, error) {
	var equipment []models.Equipment
	err := s.db.Where("company_id = ?", companyID).
		Order("type, asset_tag").Find(&equipment).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list equipment: %w", err)
	}
	ApplyStatus(equipment, time.Now().UTC())
	return equipment, nil
}

// ApplyStatus stamps each record with its derived compliance status.
func ApplyStatus(equipment []models.Equipment, now time.Time) {
	for i := range equipment {
		equipment[i].Status = string(compliance.Classify(now, equipment[i].LastCalDate, equipment[i].NextDueDate))
	}
}

// isNotFound matches GORM's record-not-found error through any wrapping.
func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// Get loads one equipment record scoped to the tenant.
func (s *Service) Get(companyID, equipmentID string) (*models.Equipment, error) {
	var eq models.Equipment
	err := s.db.Where("company_id = ? AND id = ?", companyID, equipmentID).First(&eq).Error
	if isNotFound(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &eq, nil
}

// FindByAssetTag resolves a tool by its external identifier.
func (s *Service) FindByAssetTag(companyID, assetTag string) (*models.Equipment, error) {
	var eq models.Equipment
	err := s.db.Where("company_id = ? AND asset_tag = ?", companyID, strings.TrimSpace(assetTag)).First(&eq).Error
	if isNotFound(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &eq, nil
}

// Create validates and persists a new equipment record.
func (s *Service) Create(companyID string, in CreateInput) (*models.Equipment, error) {
	eq, err := in.Normalize()
	if err != nil {
		return nil, err
	}
	eq.CompanyID = companyID

	var count int64
	err = s.db.Model(&models.Equipment{}).
		Where("company_id = ? AND asset_tag = ?", companyID, eq.AssetTag).
		Count(&count).Error
	if err != nil {
		return nil, fmt.Errorf("failed to check asset tag: %w", err)
	}
	if count > 0 {
		return nil, &ValidationError{Field: "asset_tag", Reason: "already registered for this tenant"}
	}

	if err := s.db.Create(eq).Error; err != nil {
		return nil, fmt.Errorf("failed to create equipment: %w", err)
	}
	return eq, nil
}

// EventInput describes one completed calibration to record.
type EventInput struct {
	Date         time.Time  `json:"calibration_date"`
	Result       string     `json:"result"`
	Technician   string     `json:"technician"`
	Traceability string     `json:"traceability"`
	Comments     string     `json:"comments"`
	// NextDueDate overrides the derived due date, e.g. when the lab's
	// certificate states one explicitly.
	NextDueDate *time.Time `json:"next_due_date"`
}

// NextDueFor derives the due date from an event date and an interval.
func NextDueFor(date time.Time, intervalDays int) time.Time {
	return date.AddDate(0, 0, intervalDays)
}

// NewRecordNumber mints a calibration record number, e.g. CAL-20260830-1a2b3c4d.
func NewRecordNumber(date time.Time) string {
	return fmt.Sprintf("CAL-%s-%s", date.Format("20060102"), uuid.NewString()[:8])
}

// RecordCalibration appends a calibration event and rewrites the owning
// record's date pair. The event and the equipment update commit together.
func (s *Service) RecordCalibration(companyID, equipmentID string, in EventInput) (*models.Equipment, error) {
	eq, err := s.Get(companyID, equipmentID)
	if err != nil {
		return nil, err
	}

	if in.Date.IsZero() {
		return nil, &ValidationError{Field: "calibration_date", Reason: "date is required"}
	}

	result := in.Result
	if result == "" {
		result = "pass"
	}

	nextDue := NextDueFor(in.Date, eq.IntervalDays)
	if in.NextDueDate != nil {
		nextDue = *in.NextDueDate
	}

	event := &models.CalibrationEvent{
		RecordNumber: NewRecordNumber(in.Date),
		EquipmentID:  eq.ID,
		CompanyID:    companyID,
		Date:         in.Date,
		Result:       result,
		NextDueDate:  nextDue,
		Technician:   in.Technician,
		Traceability: in.Traceability,
		Comments:     in.Comments,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(event).Error; err != nil {
			return err
		}
		return tx.Model(eq).Updates(map[string]interface{}{
			"last_cal_date": in.Date,
			"next_due_date": nextDue,
		}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record calibration: %w", err)
	}

	eq.LastCalDate = &event.Date
	eq.NextDueDate = &event.NextDueDate
	return eq, nil
}

// Events returns the calibration ledger for one equipment record, newest first.
func (s *Service) Events(companyID, equipmentID string) ([]models.CalibrationEvent, error) {
	var events []models.CalibrationEvent
	err := s.db.Where("company_id = ? AND equipment_id = ?", companyID, equipmentID).
		Order("calibration_date DESC").Find(&events).Error
	return events, err
}

// RecentEvents returns the tenant's latest calibration activity.
func (s *Service) RecentEvents(companyID string, limit int) ([]models.CalibrationEvent, error) {
	var events []models.CalibrationEvent
	err := s.db.Where("company_id = ?", companyID).
		Order("created_at DESC").Limit(limit).Find(&events).Error
	return events, err
}

// AuditCounts are the literal tallies the agent's audit query reports.
type AuditCounts struct {
	TotalEquipment int64 `json:"totalEquipment"`
	WithNextDue    int64 `json:"withNextDue"`
	MissingNextDue int64 `json:"missingNextDue"`
	WithLab        int64 `json:"withLab"`
	MissingLab     int64 `json:"missingLab"`
	DistinctLabs   int64 `json:"distinctLabs"`
}

// Audit computes exact data-quality counts straight from the registry.
func (s *Service) Audit(companyID string) (*AuditCounts, error) {
	var c AuditCounts
	base := func() *gorm.DB {
		return s.db.Model(&models.Equipment{}).Where("company_id = ?", companyID)
	}

	// The answer is presented as exact, so every count must succeed.
	if err := base().Count(&c.TotalEquipment).Error; err != nil {
		return nil, fmt.Errorf("audit query failed: %w", err)
	}
	if err := base().Where("next_due_date IS NOT NULL").Count(&c.WithNextDue).Error; err != nil {
		return nil, fmt.Errorf("audit query failed: %w", err)
	}
	if err := base().Where("lab_name <> ''").Count(&c.WithLab).Error; err != nil {
		return nil, fmt.Errorf("audit query failed: %w", err)
	}
	if err := base().Where("lab_name <> ''").Distinct("lab_name").Count(&c.DistinctLabs).Error; err != nil {
		return nil, fmt.Errorf("audit query failed: %w", err)
	}

	c.MissingNextDue = c.TotalEquipment - c.WithNextDue
	c.MissingLab = c.TotalEquipment - c.WithLab
	return &c, nil
}
