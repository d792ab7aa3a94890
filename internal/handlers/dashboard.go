package handlers

import (
	"net/http"
	"sort"
	"time"

	"github.com/gp3-app/calgo/internal/compliance"
	"github.com/gp3-app/calgo/internal/models"
)

// dashboard returns the tenant's compliance overview: status counts,
// the overdue list with critical tools first, what comes due inside the
// warning window, and recent activity.
func (r *Router) dashboard(w http.ResponseWriter, req *http.Request) {
	sess, ok := r.session(w, req)
	if !ok {
		return
	}

	equipment, err := r.reg.List(sess.CompanyID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}

	var counts compliance.Counts
	var overdue, upcoming []models.Equipment
	for _, eq := range equipment {
		status := compliance.Status(eq.Status)
		counts.Add(status)
		switch status {
		case compliance.StatusOverdue:
			overdue = append(overdue, eq)
		case compliance.StatusExpiringSoon:
			upcoming = append(upcoming, eq)
		}
	}

	// Critical tools first, then earliest due date
	sort.SliceStable(overdue, func(i, j int) bool {
		if overdue[i].Critical != overdue[j].Critical {
			return overdue[i].Critical
		}
		return overdue[i].NextDueDate.Before(*overdue[j].NextDueDate)
	})
	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].NextDueDate.Before(*upcoming[j].NextDueDate)
	})

	events, err := r.reg.RecentEvents(sess.CompanyID, 10)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load recent activity")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"totalEquipment": len(equipment),
		"statusCounts": map[string]int{
			string(compliance.StatusCurrent):      counts.Current,
			string(compliance.StatusExpiringSoon): counts.ExpiringSoon,
			string(compliance.StatusOverdue):      counts.Overdue,
			string(compliance.StatusNoData):       counts.NoData,
		},
		"overdue":      overdue,
		"upcoming":     upcoming,
		"recentEvents": events,
		"generatedAt":  time.Now().UTC(),
	})
}
