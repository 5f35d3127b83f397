package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"Gin_postgres_redis_material_tracker/app"
	"Gin_postgres_redis_material_tracker/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UserController struct{ *Srv }

func GetUserController(s *Srv) *UserController { return &UserController{Srv: s} }

// POST /auth/login: minimal username exchange. Credential verification is a
// separate concern handled upstream; this service only issues the session the
// role gate consumes.
func (uc *UserController) Login(c *gin.Context) {
	var in struct {
		Username string `json:"username" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	u, err := uc.Repo.FindUserByUsername(c.Request.Context(), in.Username)
	if err != nil {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unknown user"})
		return
	}
	if !u.IsActive() {
		c.JSON(http.StatusUnauthorized, app.H{"error": "account deactivated"})
		return
	}

	sid := uuid.NewString()
	if err := uc.AppSess.Create(c.Request.Context(), sid, u.ID); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": "session store unavailable"})
		return
	}
	_ = uc.Repo.TouchUserLogin(c.Request.Context(), u.ID)

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     app.AppSessionCookie,
		Value:    sid,
		Path:     "/",
		MaxAge:   int(uc.Cfg.SessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   strings.HasPrefix(uc.Cfg.WebOrigin, "https://"),
	})
	c.JSON(http.StatusOK, app.H{"user": u})
}

// POST /auth/logout
func (uc *UserController) Logout(c *gin.Context) {
	if ck, err := c.Request.Cookie(app.AppSessionCookie); err == nil && ck.Value != "" {
		_ = uc.AppSess.Delete(c.Request.Context(), ck.Value)
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     app.AppSessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   strings.HasPrefix(uc.Cfg.WebOrigin, "https://"),
	})
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// GET /auth/whoami
func (uc *UserController) WhoAmI(c *gin.Context) {
	actor, ok := app.Actor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}
	u, err := uc.Repo.FindUserByID(c.Request.Context(), actor.ID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}
	c.JSON(http.StatusOK, app.H{"user": u})
}

// GET /api/users?q=alice&page=1&size=20
func (uc *UserController) ListUsers(c *gin.Context) {
	q := c.Query("q")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))

	res, err := uc.Repo.ListUsers(c.Request.Context(), q, page, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"total": res.Total, "users": res.Users})
}

// GET /api/users/:id
func (uc *UserController) GetUser(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "invalid uuid"})
		return
	}
	user, err := uc.Repo.FindUserByID(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"user": user})
}

// POST /api/users: admin registers an employee/manager account.
func (uc *UserController) CreateUser(c *gin.Context) {
	var in struct {
		Username    string `json:"username" binding:"required"`
		DisplayName string `json:"displayName"`
		Role        string `json:"role" binding:"omitempty,oneof=admin manager employee"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	if in.DisplayName == "" {
		in.DisplayName = in.Username
	}
	if in.Role == "" {
		in.Role = models.RoleEmployee
	}
	u := &models.User{
		ID:          uuid.NewString(),
		Username:    in.Username,
		DisplayName: in.DisplayName,
		Role:        in.Role,
		Status:      models.UserActive,
	}
	if err := uc.Repo.CreateUser(c.Request.Context(), u); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, app.H{"user": u})
}

// PATCH /api/users/:id/status {"status":"deactive"}: deactivation also
// revokes every session, so the gate rejects the user immediately.
func (uc *UserController) SetStatus(c *gin.Context) {
	id := c.Param("id")
	var in struct {
		Status string `json:"status" binding:"required,oneof=active deactive"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	if v, ok := c.Get(app.CtxUserID); ok {
		if uid, _ := v.(string); uid == id && in.Status == models.UserDeactive {
			c.JSON(http.StatusBadRequest, app.H{"error": "cannot deactivate yourself"})
			return
		}
	}
	if err := uc.Repo.SetUserStatus(c.Request.Context(), id, in.Status); err != nil {
		respondErr(c, err)
		return
	}
	if in.Status == models.UserDeactive {
		_ = uc.AppSess.RevokeAllForUser(c.Request.Context(), id)
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// PATCH /api/users/:id/role {"role":"manager"}
func (uc *UserController) SetRole(c *gin.Context) {
	id := c.Param("id")
	var in struct {
		Role string `json:"role" binding:"required,oneof=admin manager employee"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	if err := uc.Repo.SetUserRole(c.Request.Context(), id, in.Role); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// DELETE /api/users/:id
func (uc *UserController) DeleteUser(c *gin.Context) {
	id := c.Param("id")

	// Deleting yourself would lock the account out mid-session.
	if v, ok := c.Get(app.CtxUserID); ok {
		if uid, _ := v.(string); uid == id {
			c.JSON(http.StatusBadRequest, app.H{"error": "cannot delete yourself"})
			return
		}
	}

	target, err := uc.Repo.FindUserByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, app.H{"error": "user not found"})
		return
	}
	if target.Role == models.RoleAdmin {
		c.JSON(http.StatusForbidden, app.H{"error": "cannot delete an admin"})
		return
	}

	if err := uc.Repo.DeleteUserByID(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	_ = uc.AppSess.RevokeAllForUser(c.Request.Context(), id)
	c.JSON(http.StatusOK, app.H{"ok": true})
}
