package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gp3-app/calgo/internal/email"
)

// ingestEmail receives inbound mail from the provider webhook. The route
// is outside the JWT surface; a shared webhook secret gates it instead.
func (r *Router) ingestEmail(w http.ResponseWriter, req *http.Request) {
	var payload email.WebhookPayload
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid webhook payload")
		return
	}

	if secret := r.cfg.Email.WebhookSecret; secret != "" {
		if subtle.ConstantTimeCompare([]byte(payload.WebhookSecret), []byte(secret)) != 1 {
			respondError(w, http.StatusForbidden, "Invalid webhook secret")
			return
		}
	}

	result, err := r.mail.Ingest(req.Context(), payload)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to process email")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// sendEmail delivers an outbound message from the tenant's agent mailbox
func (r *Router) sendEmail(w http.ResponseWriter, req *http.Request) {
	sess, ok := r.session(w, req)
	if !ok {
		return
	}

	var in email.SendInput
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := r.mail.Send(req.Context(), sess.CompanyID, in); err != nil {
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "sent",
		"to":      in.To,
		"subject": in.Subject,
	})
}

// emailLog lists the tenant's recent email activity
func (r *Router) emailLog(w http.ResponseWriter, req *http.Request) {
	sess, ok := r.session(w, req)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
	entries, err := r.mail.Log(sess.CompanyID, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to list email log")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"emails": entries,
		"count":  len(entries),
	})
}
