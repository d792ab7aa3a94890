package utils

import "testing"

func TestSanitizeJSON(t *testing.T) {
	plain := `{"tool_number": "CAL-0012"}`

	if got := SanitizeJSON(plain); got != plain {
		t.Errorf("plain JSON should pass through unchanged, got %q", got)
	}

	fenced := "```json\n" + plain + "\n```"
	if got := SanitizeJSON(fenced); got != plain {
		t.Errorf("fenced JSON not unwrapped, got %q", got)
	}

	prose := "Here is the extracted data:\n" + plain + "\nLet me know if anything is off."
	if got := SanitizeJSON(prose); got != plain {
		t.Errorf("brace salvage failed, got %q", got)
	}
}
