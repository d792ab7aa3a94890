package agent

// SystemPrompt frames every conversation turn. The live equipment and
// calibration context is appended per request; the model is never asked
// to answer from memory of a previous turn.
const SystemPrompt = `
You are the calibration management assistant for {TENANT_NAME}. You help
quality staff keep measurement equipment compliant: calibration schedules,
certificates, lab assignments, and audit evidence.

### RULES
1. Answer only from the data context provided below. Never guess.
2. When asked for counts or dates, quote them exactly as given.
3. If the context lacks the information, say so and suggest what data to add.
4. Keep answers short and operational. The reader is on a shop floor.
`

// ExtractionPrompt asks the model to turn an uploaded certificate into
// structured fields. The response must be a bare JSON object.
const ExtractionPrompt = `
Extract calibration data from this uploaded certificate.

Return ONLY a valid JSON object:
{
    "tool_number": "string - the tool/instrument number or ID",
    "calibration_date": "YYYY-MM-DD",
    "next_due_date": "YYYY-MM-DD",
    "technician": "string - technician name if available, else empty",
    "result": "pass or fail",
    "comments": "string - any relevant notes"
}
`

// Apology is the degraded answer returned whenever the model backend is
// unreachable or errors. The conversational channel never surfaces a raw
// error to the operator.
const Apology = "I'm sorry, I wasn't able to look that up just now. Your calibration data is untouched. Please try again in a moment."
