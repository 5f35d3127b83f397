// controllers/request_controller.go
package controllers

import (
	"net/http"

	"Gin_postgres_redis_material_tracker/app"

	"github.com/gin-gonic/gin"
)

type RequestController struct{ *Srv }

func NewRequestController(s *Srv) *RequestController { return &RequestController{Srv: s} }

// POST /api/items/:id/requests: submit a use/return request. Submitting
// never changes item status; only an approval does.
func (rc *RequestController) Submit(c *gin.Context) {
	actor, ok := app.Actor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}
	var in struct {
		Type string `json:"type" binding:"required,oneof=use return"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	req, err := rc.Engine.SubmitRequest(c.Request.Context(), actor, c.Param("id"), in.Type)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, req)
}

// GET /api/items/:id/requests: open requests for one item.
func (rc *RequestController) ListForItem(c *gin.Context) {
	actor, ok := app.Actor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}
	reqs, err := rc.Engine.ListPendingForItem(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"requests": reqs})
}

// GET /api/requests/mine
func (rc *RequestController) ListMine(c *gin.Context) {
	actor, ok := app.Actor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}
	reqs, err := rc.Repo.ListRequestsForUser(c.Request.Context(), actor.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"requests": reqs})
}

// POST /api/requests/:id/approve: the chosen request wins; every other open
// request of the same item is rejected and the queue ends empty.
func (rc *RequestController) Approve(c *gin.Context) {
	actor, ok := app.Actor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}
	if err := rc.Engine.ApproveRequest(c.Request.Context(), actor, c.Param("id")); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// POST /api/requests/:id/reject: targeted rejection of a single request.
func (rc *RequestController) Reject(c *gin.Context) {
	actor, ok := app.Actor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}
	if err := rc.Engine.RejectRequest(c.Request.Context(), actor, c.Param("id")); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}
