package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gp3-app/calgo/internal/labels"
	"github.com/gp3-app/calgo/internal/models"
)

// LabelsRequest selects the equipment to put on a label sheet. An empty
// selection means the whole fleet.
type LabelsRequest struct {
	EquipmentIDs []string `json:"equipmentIds"`
}

// printLabels streams a PDF label sheet with one QR sticker per tool
func (r *Router) printLabels(w http.ResponseWriter, req *http.Request) {
	sess, ok := r.session(w, req)
	if !ok {
		return
	}

	var lReq LabelsRequest
	if err := json.NewDecoder(req.Body).Decode(&lReq); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	equipment, err := r.reg.List(sess.CompanyID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load equipment")
		return
	}
	if len(lReq.EquipmentIDs) > 0 {
		wanted := make(map[string]bool, len(lReq.EquipmentIDs))
		for _, id := range lReq.EquipmentIDs {
			wanted[id] = true
		}
		var selected []models.Equipment
		for _, eq := range equipment {
			if wanted[eq.ID] {
				selected = append(selected, eq)
			}
		}
		equipment = selected
	}
	if len(equipment) == 0 {
		respondError(w, http.StatusBadRequest, "No equipment selected")
		return
	}

	var company models.Company
	if err := r.db.First(&company, "id = ?", sess.CompanyID).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load company")
		return
	}

	pdf, err := labels.GenerateSheet(labels.DefaultSheet, company.Slug, equipment)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to generate labels")
		return
	}

	filename := fmt.Sprintf("labels_%s.pdf", time.Now().UTC().Format("20060102"))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}
