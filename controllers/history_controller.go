// controllers/history_controller.go
package controllers

import (
	"net/http"
	"time"

	"Gin_postgres_redis_material_tracker/app"
	"Gin_postgres_redis_material_tracker/models"

	"github.com/gin-gonic/gin"
)

type HistoryController struct{ *Srv }

func NewHistoryController(s *Srv) *HistoryController { return &HistoryController{Srv: s} }

// HistoryRow is the display shape: a ledger entry with the performer's
// username resolved at read time.
type HistoryRow struct {
	ID                string    `json:"id"`
	Action            string    `json:"action"`
	PerformedBy       string    `json:"performedBy"`
	PerformerUsername string    `json:"performerUsername,omitempty"`
	Details           string    `json:"details,omitempty"`
	PreviousStatus    *string   `json:"previousStatus,omitempty"`
	NewStatus         *string   `json:"newStatus,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
}

// GET /api/items/:id/history: most recent first.
func (hc *HistoryController) ListForItem(c *gin.Context) {
	actor, ok := app.Actor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}
	entries, err := hc.Engine.ListHistory(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"history": hc.assemble(c, entries)})
}

func (hc *HistoryController) assemble(c *gin.Context, entries []models.HistoryEntry) []HistoryRow {
	ids := make([]string, 0, len(entries))
	seen := map[string]bool{}
	for _, e := range entries {
		if !seen[e.PerformedBy] {
			seen[e.PerformedBy] = true
			ids = append(ids, e.PerformedBy)
		}
	}
	names, err := hc.Repo.UsernamesByIDs(c.Request.Context(), ids)
	if err != nil {
		names = map[string]string{}
	}

	rows := make([]HistoryRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, HistoryRow{
			ID:                e.ID,
			Action:            e.Action,
			PerformedBy:       e.PerformedBy,
			PerformerUsername: names[e.PerformedBy],
			Details:           e.Details,
			PreviousStatus:    e.PreviousStatus,
			NewStatus:         e.NewStatus,
			CreatedAt:         e.CreatedAt,
		})
	}
	return rows
}
