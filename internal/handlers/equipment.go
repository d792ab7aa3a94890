package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gp3-app/calgo/internal/registry"
)

// listEquipment returns the tenant's fleet with derived status attached
func (r *Router) listEquipment(w http.ResponseWriter, req *http.Request) {
	sess, ok := r.session(w, req)
	if !ok {
		return
	}

	equipment, err := r.reg.List(sess.CompanyID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to list equipment")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"equipment": equipment,
		"count":     len(equipment),
	})
}

// createEquipment registers a new tool. The request body may use any of
// the historical field spellings; the adapter folds them together.
func (r *Router) createEquipment(w http.ResponseWriter, req *http.Request) {
	sess, ok := r.session(w, req)
	if !ok {
		return
	}

	var in registry.CreateInput
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	eq, err := r.reg.Create(sess.CompanyID, in)
	if err != nil {
		if registry.IsValidation(err) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondError(w, http.StatusConflict, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, eq)
}

// getEquipment returns one equipment record
func (r *Router) getEquipment(w http.ResponseWriter, req *http.Request) {
	sess, ok := r.session(w, req)
	if !ok {
		return
	}

	eq, err := r.reg.Get(sess.CompanyID, mux.Vars(req)["id"])
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Equipment not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to load equipment")
		return
	}
	respondJSON(w, http.StatusOK, eq)
}

// listCalibrations returns the append-only event ledger for one tool
func (r *Router) listCalibrations(w http.ResponseWriter, req *http.Request) {
	sess, ok := r.session(w, req)
	if !ok {
		return
	}

	events, err := r.reg.Events(sess.CompanyID, mux.Vars(req)["id"])
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to list calibrations")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"calibrations": events,
		"count":        len(events),
	})
}

// recordCalibration appends an event and moves the tool's due date
func (r *Router) recordCalibration(w http.ResponseWriter, req *http.Request) {
	sess, ok := r.session(w, req)
	if !ok {
		return
	}

	var in registry.EventInput
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if in.Date.IsZero() {
		respondError(w, http.StatusBadRequest, "calibration_date is required")
		return
	}

	eq, err := r.reg.RecordCalibration(sess.CompanyID, mux.Vars(req)["id"], in)
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Equipment not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to record calibration")
		return
	}
	respondJSON(w, http.StatusCreated, eq)
}
