package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gp3-app/calgo/internal/onboarding"
)

// AdvanceRequest carries one onboarding event from the operator
type AdvanceRequest struct {
	Event string `json:"event"`
}

// getOnboarding returns the operator's session, creating it on first
// contact. Completed sessions come back unchanged.
func (r *Router) getOnboarding(w http.ResponseWriter, req *http.Request) {
	sess, ok := r.session(w, req)
	if !ok {
		return
	}

	session, err := r.onboard.GetOrCreate(sess.CompanyID, sess.UserID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load onboarding session")
		return
	}
	respondJSON(w, http.StatusOK, session)
}

// advanceOnboarding applies one operator event to the session. The
// begin_audit event runs the registry audit as part of the move; the
// rest are plain transitions.
func (r *Router) advanceOnboarding(w http.ResponseWriter, req *http.Request) {
	sess, ok := r.session(w, req)
	if !ok {
		return
	}

	var aReq AdvanceRequest
	if err := json.NewDecoder(req.Body).Decode(&aReq); err != nil || aReq.Event == "" {
		respondError(w, http.StatusBadRequest, "event is required")
		return
	}

	var session interface{}
	var err error
	if aReq.Event == "begin_audit" {
		session, err = r.onboard.BeginAudit(req.Context(), sess.CompanyID, sess.UserID)
	} else {
		session, err = r.onboard.Apply(sess.CompanyID, sess.UserID, onboarding.Event(aReq.Event))
	}
	if err != nil {
		respondError(w, http.StatusConflict, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, session)
}

// onboardingChat records one question/answer turn in the chat state
func (r *Router) onboardingChat(w http.ResponseWriter, req *http.Request) {
	sess, ok := r.session(w, req)
	if !ok {
		return
	}

	var qReq QuestionRequest
	if err := json.NewDecoder(req.Body).Decode(&qReq); err != nil || qReq.Question == "" {
		respondError(w, http.StatusBadRequest, "question is required")
		return
	}

	session, answer, err := r.onboard.Chat(req.Context(), sess.CompanyID,
		r.companyName(sess.CompanyID), sess.UserID, qReq.Question)
	if err != nil {
		respondError(w, http.StatusConflict, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"answer":  answer,
		"session": session,
	})
}
