package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gp3-app/calgo/internal/compliance"
	"github.com/gp3-app/calgo/internal/models"
	"github.com/gp3-app/calgo/internal/utils"
	"github.com/gp3-app/calgo/internal/websocket"
)

// agentEvents upgrades the connection to the tenant's event stream.
// Browsers cannot set headers on websocket requests, so the token rides
// in the query string.
func (r *Router) agentEvents(w http.ResponseWriter, req *http.Request) {
	token := req.URL.Query().Get("token")
	if token == "" {
		respondError(w, http.StatusUnauthorized, "token query parameter required")
		return
	}
	claims, err := utils.ValidateToken(token, r.cfg.JWTSecret)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid token")
		return
	}
	companyID, _ := claims["companyId"].(string)
	if companyID == "" {
		respondError(w, http.StatusUnauthorized, "Invalid token")
		return
	}
	websocket.ServeWs(r.hub, companyID, w, req)
}

// proactiveCheck scans the fleet and pushes an attention event to the
// tenant's listeners when anything is overdue or about to lapse.
// Critical tools lead the message.
func (r *Router) proactiveCheck(w http.ResponseWriter, req *http.Request) {
	sess, ok := r.session(w, req)
	if !ok {
		return
	}

	equipment, err := r.reg.List(sess.CompanyID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to scan equipment")
		return
	}

	var overdue, expiring []models.Equipment
	criticalOverdue := 0
	for _, eq := range equipment {
		switch compliance.Status(eq.Status) {
		case compliance.StatusOverdue:
			if eq.Critical {
				criticalOverdue++
				overdue = append([]models.Equipment{eq}, overdue...)
			} else {
				overdue = append(overdue, eq)
			}
		case compliance.StatusExpiringSoon:
			expiring = append(expiring, eq)
		}
	}

	notified := 0
	if len(overdue) > 0 || len(expiring) > 0 {
		message := fmt.Sprintf("%d tool(s) overdue and %d due soon.", len(overdue), len(expiring))
		if criticalOverdue > 0 {
			message = fmt.Sprintf("%d CRITICAL tool(s) overdue. ", criticalOverdue) + message
		}
		notified = r.hub.BroadcastToCompany(sess.CompanyID, websocket.Event{
			Type:    "attention_required",
			Message: message,
			Payload: map[string]interface{}{
				"overdue":  overdue,
				"expiring": expiring,
			},
			At: time.Now().UTC(),
		})
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"overdueCount":      len(overdue),
		"expiringCount":     len(expiring),
		"criticalOverdue":   criticalOverdue,
		"listenersNotified": notified,
	})
}
