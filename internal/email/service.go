package email

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gp3-app/calgo/internal/agent"
	"github.com/gp3-app/calgo/internal/config"
	"github.com/gp3-app/calgo/internal/database"
	"github.com/gp3-app/calgo/internal/models"
	"github.com/gp3-app/calgo/internal/registry"
	"github.com/gp3-app/calgo/internal/websocket"
	"gorm.io/gorm"
)

// Service handles the tenant mailboxes over the shared data stores.
type Service struct {
	db        *database.DB
	gw        *agent.Gateway
	reg       *registry.Service
	hub       *websocket.Hub
	cfg       config.EmailConfig
	uploadDir string
	client    *http.Client
}

// NewService creates an email service
func NewService(db *database.DB, gw *agent.Gateway, reg *registry.Service, hub *websocket.Hub, cfg config.EmailConfig, uploadDir string) *Service {
	return &Service{
		db:        db,
		gw:        gw,
		reg:       reg,
		hub:       hub,
		cfg:       cfg,
		uploadDir: uploadDir,
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

// IngestResult reports what happened to one inbound email.
type IngestResult struct {
	Status         string          `json:"status"` // processed / ignored / duplicate
	Reason         string          `json:"reason,omitempty"`
	EmailLogID     string          `json:"emailLogId,omitempty"`
	Classification *Classification `json:"classification,omitempty"`
	Actions        []string        `json:"actions,omitempty"`
}

// Ingest receives one inbound email from the mail webhook. Unrecognized
// recipients and unknown tenants are ignored rather than rejected, so a
// misrouted message never makes the provider retry. Redelivered messages
// are deduplicated by Message-ID.
func (s *Service) Ingest(ctx context.Context, p WebhookPayload) (*IngestResult, error) {
	slug := ExtractTenantSlug(p.ToAddress)
	if slug == "" {
		return &IngestResult{Status: "ignored", Reason: fmt.Sprintf("unrecognized recipient: %s", p.ToAddress)}, nil
	}

	var company models.Company
	err := s.db.Where("slug = ? AND is_active = ?", slug, true).First(&company).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &IngestResult{Status: "ignored", Reason: fmt.Sprintf("unknown tenant: %s", slug)}, nil
		}
		return nil, fmt.Errorf("failed to resolve tenant: %w", err)
	}

	if p.MessageID != "" {
		var existing models.EmailLog
		err := s.db.Where("message_id = ?", p.MessageID).First(&existing).Error
		if err == nil {
			return &IngestResult{Status: "duplicate", EmailLogID: existing.ID}, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check message id: %w", err)
		}
	}

	entry := models.EmailLog{
		CompanyID:       company.ID,
		Direction:       "inbound",
		FromAddress:     p.FromAddress,
		ToAddress:       p.ToAddress,
		CCAddresses:     p.CC,
		Subject:         p.Subject,
		BodyText:        p.BodyText,
		BodyHTML:        p.BodyHTML,
		HasAttachments:  len(p.Attachments) > 0,
		AttachmentCount: len(p.Attachments),
		MessageID:       p.MessageID,
		InReplyTo:       p.InReplyTo,
		Status:          "received",
	}
	if err := s.db.Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("failed to log email: %w", err)
	}

	classification := s.classify(ctx, p)
	actions := s.act(ctx, company.ID, classification, p.Attachments)

	if raw, err := json.Marshal(classification); err == nil {
		entry.ProcessingResult = raw
	}
	now := time.Now().UTC()
	entry.Status = "processed"
	entry.ProcessedAt = &now
	if err := s.db.Save(&entry).Error; err != nil {
		log.Printf("⚠️ Email: failed to update log entry %s: %v", entry.ID, err)
	}

	if len(actions) > 0 && s.hub != nil {
		s.hub.BroadcastToCompany(company.ID, websocket.Event{
			Type:    "attention_required",
			Message: fmt.Sprintf("I just received an email from %s. %s", p.FromAddress, classification.Summary),
			At:      now,
		})
	}

	return &IngestResult{
		Status:         "processed",
		EmailLogID:     entry.ID,
		Classification: classification,
		Actions:        actions,
	}, nil
}

// classify asks the model what the email is about. A dead backend or
// unparseable answer degrades to OTHER; the email stays logged either way.
func (s *Service) classify(ctx context.Context, p WebhookPayload) *Classification {
	names := make([]string, 0, len(p.Attachments))
	for _, a := range p.Attachments {
		names = append(names, a.Filename)
	}
	body := p.BodyText
	if len(body) > 2000 {
		body = body[:2000]
	}

	prompt := ClassificationPrompt +
		"\n### EMAIL\n" +
		fmt.Sprintf("From: %s\nSubject: %s\nBody: %s\nAttachments: %d files (%s)\n",
			p.FromAddress, p.Subject, body, len(p.Attachments), strings.Join(names, ", "))

	raw, err := s.gw.Generate(ctx, prompt)
	if err != nil {
		log.Printf("⚠️ Email: classification failed: %v", err)
		return fallbackClassification()
	}
	return ParseClassification(raw)
}

// act applies the classification. Certificate attachments run through
// the same extraction and recording path as manual uploads; a failing
// attachment is kept on disk for operator review instead of being lost.
func (s *Service) act(ctx context.Context, companyID string, c *Classification, attachments []Attachment) []string {
	var actions []string

	switch c.Category {
	case CategoryCertificate:
		for _, att := range attachments {
			if !att.IsCertificateCandidate() {
				continue
			}
			actions = append(actions, s.processAttachment(ctx, companyID, att))
		}
	case CategoryPONotification:
		actions = append(actions, "PO notification logged, expected return will be tracked")
	case CategoryStatusUpdate:
		actions = append(actions, "Status update logged against equipment records")
	}

	return actions
}

// processAttachment stores one certificate attachment and records the
// calibration when the tool resolves. Always returns a human-readable
// action line for the ingest result.
func (s *Service) processAttachment(ctx context.Context, companyID string, att Attachment) string {
	content, err := att.Decode()
	if err != nil {
		return fmt.Sprintf("Attachment %q could not be decoded", att.Filename)
	}

	storedName := uuid.NewString() + filepath.Ext(att.Filename)
	storedPath := filepath.Join(s.uploadDir, storedName)
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return fmt.Sprintf("Attachment %q could not be stored", att.Filename)
	}
	if err := os.WriteFile(storedPath, content, 0o644); err != nil {
		return fmt.Sprintf("Attachment %q could not be stored", att.Filename)
	}

	cert := models.Certificate{
		CompanyID:    companyID,
		Filename:     storedName,
		OriginalName: att.Filename,
		FileSize:     int64(len(content)),
		MimeType:     att.ContentType,
	}
	if err := s.db.Create(&cert).Error; err != nil {
		return fmt.Sprintf("Attachment %q stored but could not be logged", att.Filename)
	}

	extraction, err := s.gw.ExtractCertificate(ctx, storedPath, cert.FileSize)
	if err != nil {
		return fmt.Sprintf("Certificate %q stored, needs manual review", att.Filename)
	}
	if raw, err := json.Marshal(extraction); err == nil {
		cert.ExtractedData = raw
		s.db.Save(&cert)
	}

	eq, err := s.reg.FindByAssetTag(companyID, extraction.ToolNumber)
	if err != nil {
		return fmt.Sprintf("Certificate %q stored, no equipment matches tool %q", att.Filename, extraction.ToolNumber)
	}

	date, err := time.Parse("2006-01-02", extraction.CalibrationDate)
	if err != nil {
		return fmt.Sprintf("Certificate %q stored for %s, dates need manual entry", att.Filename, eq.AssetTag)
	}
	in := registry.EventInput{
		Date:       date,
		Result:     extraction.Result,
		Technician: extraction.Technician,
		Comments:   extraction.Comments,
	}
	if due, err := time.Parse("2006-01-02", extraction.NextDueDate); err == nil {
		in.NextDueDate = &due
	}
	if _, err := s.reg.RecordCalibration(companyID, eq.ID, in); err != nil {
		return fmt.Sprintf("Certificate %q stored for %s, recording failed", att.Filename, eq.AssetTag)
	}

	cert.EquipmentID = &eq.ID
	s.db.Save(&cert)
	return fmt.Sprintf("Calibration recorded for %s from certificate %q", eq.AssetTag, att.Filename)
}

// SendInput is one outbound email request.
type SendInput struct {
	To      string `json:"to"`
	CC      string `json:"cc,omitempty"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Send delivers an email from the tenant's agent mailbox via the Mailgun
// HTTP API and logs the attempt.
func (s *Service) Send(ctx context.Context, companyID string, in SendInput) error {
	if in.To == "" || in.Subject == "" {
		return fmt.Errorf("to and subject are required")
	}
	if s.cfg.MailgunAPIKey == "" {
		return fmt.Errorf("email sending not configured")
	}

	var company models.Company
	if err := s.db.First(&company, "id = ?", companyID).Error; err != nil {
		return fmt.Errorf("failed to load company: %w", err)
	}
	sender := fmt.Sprintf("Cal - %s <cal@%s.gp3.app>", company.Name, company.Slug)

	form := url.Values{}
	form.Set("from", sender)
	form.Set("to", in.To)
	form.Set("subject", in.Subject)
	form.Set("text", in.Body)
	if in.CC != "" {
		form.Set("cc", in.CC)
	}

	endpoint := fmt.Sprintf("https://api.mailgun.net/v3/%s/messages", s.cfg.MailgunDomain)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build send request: %w", err)
	}
	req.SetBasicAuth("api", s.cfg.MailgunAPIKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	entry := models.EmailLog{
		CompanyID:   companyID,
		Direction:   "outbound",
		FromAddress: sender,
		ToAddress:   in.To,
		CCAddresses: in.CC,
		Subject:     in.Subject,
		BodyText:    in.Body,
	}

	resp, err := s.client.Do(req)
	if err != nil {
		entry.Status = "failed"
		s.db.Create(&entry)
		return fmt.Errorf("email send failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		entry.Status = "failed"
		s.db.Create(&entry)
		return fmt.Errorf("email send failed: relay returned %d: %s", resp.StatusCode, detail)
	}

	var relay struct {
		ID string `json:"id"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&relay)
	entry.Status = "sent"
	entry.MessageID = relay.ID
	if err := s.db.Create(&entry).Error; err != nil {
		log.Printf("⚠️ Email: sent but failed to log: %v", err)
	}
	return nil
}

// Log returns the tenant's recent email activity, newest first.
func (s *Service) Log(companyID string, limit int) ([]models.EmailLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var entries []models.EmailLog
	err := s.db.Where("company_id = ?", companyID).
		Order("created_at DESC").Limit(limit).Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list email log: %w", err)
	}
	return entries, nil
}
