// Package email receives the agent's inbound mail and sends its replies.
// Every tenant has a mailbox at cal@{slug}.gp3.app; the mail provider's
// webhook normalizes inbound messages to one payload shape and posts
// them here. Certificate attachments flow through the same extraction
// and recording path as manual uploads.
package email

import (
	"encoding/base64"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/gp3-app/calgo/internal/utils"
)

// tenantPattern matches the agent mailbox address cal@{slug}.gp3.app.
var tenantPattern = regexp.MustCompile(`^cal@([^.]+)\.gp3\.app$`)

// ExtractTenantSlug pulls the tenant slug out of a recipient address.
// Returns "" when the address is not an agent mailbox.
func ExtractTenantSlug(toAddress string) string {
	m := tenantPattern.FindStringSubmatch(strings.ToLower(strings.TrimSpace(toAddress)))
	if m == nil {
		return ""
	}
	return m[1]
}

// Attachment is one file carried by an inbound email, content base64
// encoded by the webhook worker.
type Attachment struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	Content     string `json:"content"`
}

// Decode returns the attachment bytes.
func (a Attachment) Decode() ([]byte, error) {
	return base64.StdEncoding.DecodeString(a.Content)
}

// IsCertificateCandidate reports whether the attachment could hold a
// calibration certificate worth extracting.
func (a Attachment) IsCertificateCandidate() bool {
	return strings.HasPrefix(a.ContentType, "application/pdf") ||
		strings.HasPrefix(a.ContentType, "image/")
}

// WebhookPayload is the normalized inbound email shape posted by the
// mail provider's webhook (Cloudflare Email Workers, Mailgun, SendGrid).
type WebhookPayload struct {
	FromAddress   string       `json:"from_address"`
	ToAddress     string       `json:"to_address"`
	CC            string       `json:"cc"`
	Subject       string       `json:"subject"`
	BodyText      string       `json:"body_text"`
	BodyHTML      string       `json:"body_html"`
	MessageID     string       `json:"message_id"`
	InReplyTo     string       `json:"in_reply_to"`
	Attachments   []Attachment `json:"attachments"`
	WebhookSecret string       `json:"webhook_secret"`
}

// Email categories the classifier sorts inbound mail into.
const (
	CategoryCertificate    = "CERTIFICATE"
	CategoryPONotification = "PO_NOTIFICATION"
	CategoryStatusUpdate   = "STATUS_UPDATE"
	CategoryQuestion       = "QUESTION"
	CategoryOther          = "OTHER"
)

// ClassificationPrompt asks the model to sort an inbound email. The
// response must be a bare JSON object.
const ClassificationPrompt = `
Classify this email into one of these categories:
1. CERTIFICATE - Contains a calibration certificate (PDF/image attachment)
2. PO_NOTIFICATION - Purchase order or shipping notification for calibration services
3. STATUS_UPDATE - Status update on equipment sent for calibration
4. QUESTION - Someone asking a calibration-related question
5. OTHER - Unrelated or spam

Return ONLY a valid JSON object:
{"category": "CATEGORY", "summary": "1-sentence summary", "tool_numbers": ["CAL-XXXX"] or [], "action": "suggested next action"}
`

// Classification is the model's reading of an inbound email.
type Classification struct {
	Category    string   `json:"category"`
	Summary     string   `json:"summary"`
	ToolNumbers []string `json:"tool_numbers,omitempty"`
	Action      string   `json:"action,omitempty"`
}

// fallbackClassification stands in when the model is unavailable or its
// output cannot be parsed; the email is still logged and kept.
func fallbackClassification() *Classification {
	return &Classification{Category: CategoryOther, Summary: "Could not classify"}
}

// ParseClassification decodes raw model output, tolerating code fences
// and surrounding prose. An unrecognized category degrades to OTHER.
func ParseClassification(raw string) *Classification {
	cleaned := utils.SanitizeJSON(raw)

	var c Classification
	if err := json.Unmarshal([]byte(cleaned), &c); err != nil || c.Category == "" {
		return fallbackClassification()
	}
	switch c.Category {
	case CategoryCertificate, CategoryPONotification, CategoryStatusUpdate, CategoryQuestion, CategoryOther:
		return &c
	default:
		c.Category = CategoryOther
		return &c
	}
}
