package email

import (
	"encoding/base64"
	"testing"
)

func TestExtractTenantSlug(t *testing.T) {
	if slug := ExtractTenantSlug("cal@acme-demo.gp3.app"); slug != "acme-demo" {
		t.Errorf("expected acme-demo, got %q", slug)
	}
	if slug := ExtractTenantSlug("  CAL@Acme-Demo.GP3.APP  "); slug != "acme-demo" {
		t.Errorf("case and whitespace should fold, got %q", slug)
	}
}

func TestExtractTenantSlugRejectsForeignAddresses(t *testing.T) {
	for _, addr := range []string{
		"support@acme-demo.gp3.app",
		"cal@gp3.app",
		"cal@acme.example.com",
		"cal@acme-demo.gp3.app.evil.com",
		"someone@else.net",
		"",
	} {
		if slug := ExtractTenantSlug(addr); slug != "" {
			t.Errorf("%q should not resolve a tenant, got %q", addr, slug)
		}
	}
}

func TestParseClassification(t *testing.T) {
	raw := "```json\n{\"category\": \"CERTIFICATE\", \"summary\": \"Cert for TQ-001\", \"tool_numbers\": [\"TQ-001\"]}\n```"

	c := ParseClassification(raw)
	if c.Category != CategoryCertificate {
		t.Errorf("expected CERTIFICATE, got %s", c.Category)
	}
	if len(c.ToolNumbers) != 1 || c.ToolNumbers[0] != "TQ-001" {
		t.Errorf("unexpected tool numbers: %v", c.ToolNumbers)
	}
}

func TestParseClassificationDegradesToOther(t *testing.T) {
	if c := ParseClassification("I couldn't decide what this is"); c.Category != CategoryOther {
		t.Errorf("garbage output should degrade to OTHER, got %s", c.Category)
	}
	if c := ParseClassification(`{"category": "INVOICE"}`); c.Category != CategoryOther {
		t.Errorf("unknown category should degrade to OTHER, got %s", c.Category)
	}
	if c := ParseClassification(`{"summary": "no category"}`); c.Category != CategoryOther {
		t.Errorf("missing category should degrade to OTHER, got %s", c.Category)
	}
}

func TestAttachmentDecode(t *testing.T) {
	att := Attachment{
		Filename:    "cert.pdf",
		ContentType: "application/pdf",
		Content:     base64.StdEncoding.EncodeToString([]byte("%PDF-1.4 test")),
	}

	content, err := att.Decode()
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if string(content) != "%PDF-1.4 test" {
		t.Errorf("unexpected content: %q", content)
	}

	if _, err := (Attachment{Content: "not base64!!"}).Decode(); err == nil {
		t.Error("expected decode failure for invalid base64")
	}
}

func TestIsCertificateCandidate(t *testing.T) {
	yes := []Attachment{
		{ContentType: "application/pdf"},
		{ContentType: "image/png"},
		{ContentType: "image/jpeg"},
	}
	for _, a := range yes {
		if !a.IsCertificateCandidate() {
			t.Errorf("%s should be a certificate candidate", a.ContentType)
		}
	}
	no := []Attachment{
		{ContentType: "text/plain"},
		{ContentType: "application/zip"},
		{ContentType: ""},
	}
	for _, a := range no {
		if a.IsCertificateCandidate() {
			t.Errorf("%s should not be a certificate candidate", a.ContentType)
		}
	}
}
