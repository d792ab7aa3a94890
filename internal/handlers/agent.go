package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/gp3-app/calgo/internal/agent"
	"github.com/gp3-app/calgo/internal/evidence"
	"github.com/gp3-app/calgo/internal/models"
	"github.com/gp3-app/calgo/internal/registry"
)

const maxUploadSize = 25 << 20 // 25MB

// QuestionRequest is a free-form operator question for the agent
type QuestionRequest struct {
	Question string `json:"question"`
}

// askQuestion routes an operator question through the agent gateway.
// The response is always 200 with an answer string; gateway failures
// surface as the apology, never as an HTTP error.
func (r *Router) askQuestion(w http.ResponseWriter, req *http.Request) {
	sess, ok := r.session(w, req)
	if !ok {
		return
	}

	var qReq QuestionRequest
	if err := json.NewDecoder(req.Body).Decode(&qReq); err != nil || qReq.Question == "" {
		respondError(w, http.StatusBadRequest, "question is required")
		return
	}

	answer := r.gw.Ask(req.Context(), sess.CompanyID, r.companyName(sess.CompanyID), qReq.Question)
	respondJSON(w, http.StatusOK, map[string]string{"answer": answer})
}

// uploadCertificate stores a calibration certificate, extracts its
// fields, and when the tool can be resolved records the calibration in
// one step. The response status tells the client how far that got:
// success (recorded), warning (stored but needs operator review) or
// error (nothing stored).
func (r *Router) uploadCertificate(w http.ResponseWriter, req *http.Request) {
	sess, ok := r.session(w, req)
	if !ok {
		return
	}

	req.Body = http.MaxBytesReader(w, req.Body, maxUploadSize)
	if err := req.ParseMultipartForm(maxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid multipart payload")
		return
	}
	file, header, err := req.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	// Store under a generated name so original filenames cannot collide
	storedName := uuid.NewString() + filepath.Ext(header.Filename)
	if err := os.MkdirAll(r.cfg.UploadDir, 0o755); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to prepare upload directory")
		return
	}
	dst, err := os.Create(filepath.Join(r.cfg.UploadDir, storedName))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to store file")
		return
	}
	size, err := io.Copy(dst, file)
	dst.Close()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to store file")
		return
	}

	cert := models.Certificate{
		CompanyID:    sess.CompanyID,
		Filename:     storedName,
		OriginalName: header.Filename,
		FileSize:     size,
		MimeType:     header.Header.Get("Content-Type"),
	}
	if err := r.db.Create(&cert).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to save certificate record")
		return
	}

	extraction, err := r.gw.ExtractCertificate(req.Context(), filepath.Join(r.cfg.UploadDir, storedName), size)
	if err != nil {
		log.Printf("⚠️ Certificate extraction failed for %s: %v", header.Filename, err)
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"status":      "warning",
			"message":     "Certificate stored, but its contents could not be read. Please record the calibration manually.",
			"certificate": cert,
		})
		return
	}

	if raw, err := json.Marshal(extraction); err == nil {
		cert.ExtractedData = raw
		r.db.Save(&cert)
	}

	eq, err := r.reg.FindByAssetTag(sess.CompanyID, extraction.ToolNumber)
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			respondJSON(w, http.StatusOK, map[string]interface{}{
				"status":      "warning",
				"message":     fmt.Sprintf("Certificate stored, but no equipment matches tool number %q.", extraction.ToolNumber),
				"extraction":  extraction,
				"certificate": cert,
			})
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to look up equipment")
		return
	}

	in, err := eventFromExtraction(extraction)
	if err != nil {
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"status":      "warning",
			"message":     fmt.Sprintf("Certificate stored for %s, but the dates could not be parsed. Please record the calibration manually.", eq.AssetTag),
			"extraction":  extraction,
			"certificate": cert,
		})
		return
	}

	updated, err := r.reg.RecordCalibration(sess.CompanyID, eq.ID, *in)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to record calibration")
		return
	}

	cert.EquipmentID = &eq.ID
	r.db.Save(&cert)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "success",
		"message":     fmt.Sprintf("Calibration recorded for %s.", eq.AssetTag),
		"equipment":   updated,
		"extraction":  extraction,
		"certificate": cert,
	})
}

// eventFromExtraction converts extracted certificate fields into a
// calibration event. The calibration date is mandatory; the due date
// override is kept only when it parses.
func eventFromExtraction(ex *agent.Extraction) (*registry.EventInput, error) {
	date, err := time.Parse("2006-01-02", ex.CalibrationDate)
	if err != nil {
		return nil, fmt.Errorf("unparseable calibration date %q: %w", ex.CalibrationDate, err)
	}
	in := registry.EventInput{
		Date:       date,
		Result:     ex.Result,
		Technician: ex.Technician,
		Comments:   ex.Comments,
	}
	if due, err := time.Parse("2006-01-02", ex.NextDueDate); err == nil {
		in.NextDueDate = &due
	}
	return &in, nil
}

// DownloadRequest selects an evidence package
type DownloadRequest struct {
	EvidenceType string `json:"evidenceType"`
	Format       string `json:"format"`
}

// downloadEvidence builds an evidence package from the live registry.
// Summary format responds as JSON; document format streams a PDF.
func (r *Router) downloadEvidence(w http.ResponseWriter, req *http.Request) {
	sess, ok := r.session(w, req)
	if !ok {
		return
	}

	var dReq DownloadRequest
	if err := json.NewDecoder(req.Body).Decode(&dReq); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	format := evidence.Format(dReq.Format)
	if format == "" {
		format = evidence.FormatSummary
	}

	pkg, err := r.gen.Generate(req.Context(), sess.CompanyID, r.companyName(sess.CompanyID),
		evidence.Type(dReq.EvidenceType), format)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if format == evidence.FormatDocument {
		filename := fmt.Sprintf("evidence_%s_%s.pdf", dReq.EvidenceType, time.Now().UTC().Format("20060102"))
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		w.WriteHeader(http.StatusOK)
		w.Write(pkg.Document)
		return
	}
	respondJSON(w, http.StatusOK, pkg)
}
