// controllers/item_controller.go
package controllers

import (
	"net/http"
	"strconv"

	"Gin_postgres_redis_material_tracker/app"
	"Gin_postgres_redis_material_tracker/core"
	"Gin_postgres_redis_material_tracker/db"

	"github.com/gin-gonic/gin"
)

type ItemController struct{ *Srv }

func NewItemController(s *Srv) *ItemController { return &ItemController{Srv: s} }

// POST /api/items: admin/manager creates a new item.
func (ic *ItemController) CreateItem(c *gin.Context) {
	actor, ok := app.Actor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}
	var in struct {
		Material    string `json:"material" binding:"required"`
		Description string `json:"description"`
		Serial      string `json:"serial" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	it, err := ic.Engine.CreateItem(c.Request.Context(), actor, core.CreateItemInput{
		Material:    in.Material,
		Description: in.Description,
		Serial:      in.Serial,
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, it)
}

// PATCH /api/items/:id: edit material/description.
func (ic *ItemController) UpdateItem(c *gin.Context) {
	actor, ok := app.Actor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}
	var in struct {
		Material    *string `json:"material"`
		Description *string `json:"description"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	it, err := ic.Engine.UpdateItem(c.Request.Context(), actor, c.Param("id"), core.UpdateItemInput{
		Material:    in.Material,
		Description: in.Description,
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, it)
}

// GET /api/items: listing with borrower usernames joined in.
func (ic *ItemController) ListItems(c *gin.Context) {
	q := db.ItemsQuery{
		Q:      c.Query("q"),
		Status: c.Query("status"),
	}
	q.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	q.Size, _ = strconv.Atoi(c.DefaultQuery("size", "20"))

	res, err := ic.Repo.ListItemRows(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"total": res.Total, "items": res.Items})
}

// GET /api/items/:id
func (ic *ItemController) GetItem(c *gin.Context) {
	it, err := ic.Repo.FindItemByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, it)
}

// POST /api/items/:id/archive
func (ic *ItemController) Archive(c *gin.Context) {
	actor, ok := app.Actor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}
	var in struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	it, err := ic.Engine.Archive(c.Request.Context(), actor, c.Param("id"), in.Reason)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, it)
}

// POST /api/items/:id/restore
func (ic *ItemController) Restore(c *gin.Context) {
	actor, ok := app.Actor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}
	it, err := ic.Engine.Restore(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, it)
}
