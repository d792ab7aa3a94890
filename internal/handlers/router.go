package handlers

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/gp3-app/calgo/internal/agent"
	"github.com/gp3-app/calgo/internal/config"
	"github.com/gp3-app/calgo/internal/database"
	"github.com/gp3-app/calgo/internal/email"
	"github.com/gp3-app/calgo/internal/evidence"
	"github.com/gp3-app/calgo/internal/middleware"
	"github.com/gp3-app/calgo/internal/models"
	"github.com/gp3-app/calgo/internal/onboarding"
	"github.com/gp3-app/calgo/internal/registry"
	"github.com/gp3-app/calgo/internal/websocket"
)

// Router wraps the mux router with the services behind the API
type Router struct {
	*mux.Router
	db      *database.DB
	cfg     *config.Config
	reg     *registry.Service
	gw      *agent.Gateway
	gen     *evidence.Generator
	onboard *onboarding.Service
	mail    *email.Service
	hub     *websocket.Hub
}

// NewRouter creates a new HTTP router with all routes
func NewRouter(db *database.DB, cfg *config.Config, reg *registry.Service, gw *agent.Gateway, hub *websocket.Hub) *Router {
	r := &Router{
		Router:  mux.NewRouter(),
		db:      db,
		cfg:     cfg,
		reg:     reg,
		gw:      gw,
		gen:     evidence.NewGenerator(reg, gw),
		onboard: onboarding.NewService(db, gw),
		mail:    email.NewService(db, gw, reg, hub, cfg.Email, cfg.UploadDir),
		hub:     hub,
	}

	// Health check endpoint
	r.HandleFunc("/health", r.healthCheck).Methods("GET")

	// Auth routes
	auth := r.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/login", r.login).Methods("POST")
	auth.HandleFunc("/register", r.register).Methods("POST")
	auth.HandleFunc("/logout", r.logout).Methods("POST")

	// Calibration routes (protected)
	cal := r.PathPrefix("/cal").Subrouter()
	cal.Use(middleware.Auth(cfg.JWTSecret))
	cal.HandleFunc("/equipment", r.listEquipment).Methods("GET")
	cal.HandleFunc("/equipment", r.createEquipment).Methods("POST")
	cal.HandleFunc("/equipment/{id}", r.getEquipment).Methods("GET")
	cal.HandleFunc("/equipment/{id}/calibrations", r.listCalibrations).Methods("GET")
	cal.HandleFunc("/equipment/{id}/calibrations", r.recordCalibration).Methods("POST")
	cal.HandleFunc("/upload", r.uploadCertificate).Methods("POST")
	cal.HandleFunc("/question", r.askQuestion).Methods("POST")
	cal.HandleFunc("/download", r.downloadEvidence).Methods("POST")
	cal.HandleFunc("/dashboard", r.dashboard).Methods("GET")
	cal.HandleFunc("/onboarding", r.getOnboarding).Methods("GET")
	cal.HandleFunc("/onboarding/advance", r.advanceOnboarding).Methods("POST")
	cal.HandleFunc("/onboarding/chat", r.onboardingChat).Methods("POST")
	cal.HandleFunc("/labels", r.printLabels).Methods("POST")
	cal.HandleFunc("/proactive/check", r.proactiveCheck).Methods("POST")
	cal.HandleFunc("/email/send", r.sendEmail).Methods("POST")
	cal.HandleFunc("/email/log", r.emailLog).Methods("GET")

	// Inbound mail webhook (secret-gated, no JWT: the provider calls it)
	r.HandleFunc("/email/ingest", r.ingestEmail).Methods("POST")

	// Agent event stream (protected via token query param inside handler)
	r.HandleFunc("/ws/agent-events", r.agentEvents).Methods("GET")

	// Static files for the web frontend
	if publicDir := os.Getenv("FRONTEND_DIR"); publicDir != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(publicDir)))
	}

	return r
}

// healthCheck returns the health status of the API
func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"server": "local",
	})
}

// session pulls the authenticated session or writes a 401.
func (r *Router) session(w http.ResponseWriter, req *http.Request) (*middleware.Session, bool) {
	sess, ok := middleware.GetSession(req.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authenticated")
		return nil, false
	}
	return sess, true
}

// companyName resolves the tenant's display name for agent prompts.
func (r *Router) companyName(companyID string) string {
	var company models.Company
	if err := r.db.First(&company, "id = ?", companyID).Error; err != nil {
		return ""
	}
	return company.Name
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
