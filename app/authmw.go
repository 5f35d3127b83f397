package app

import (
	"Gin_postgres_redis_material_tracker/core"
	"Gin_postgres_redis_material_tracker/db"
	"Gin_postgres_redis_material_tracker/models"
	"Gin_postgres_redis_material_tracker/session"
	"net/http"

	"github.com/gin-gonic/gin"
)

const AppSessionCookie = "app_session"

// Context keys set by AuthRequired.
const (
	CtxUserID   = "userID"
	CtxUsername = "username"
	CtxActor    = "actor"
)

// AuthRequired resolves the session cookie, confirms the user still exists
// and is active, and injects the core.Actor for downstream handlers. Role and
// status are re-read per request so deactivation takes effect immediately.
func AuthRequired(appSess *session.AppSessionStore, repo *db.Repo) gin.HandlerFunc {
	return func(c *gin.Context) {
		ck, err := c.Request.Cookie(AppSessionCookie)
		if err != nil || ck.Value == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		as, err := appSess.Get(c.Request.Context(), ck.Value)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "invalid session"})
			return
		}

		u, err := repo.FindUserByID(c.Request.Context(), as.UserID)
		if err != nil {
			_ = appSess.Delete(c.Request.Context(), ck.Value)
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		if !u.IsActive() {
			_ = appSess.Delete(c.Request.Context(), ck.Value)
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "account deactivated"})
			return
		}

		c.Set(CtxUserID, u.ID)
		c.Set(CtxUsername, u.Username)
		c.Set(CtxActor, core.ActorFromUser(u))
		c.Next()
	}
}

// Actor pulls the injected identity out of the Gin context.
func Actor(c *gin.Context) (core.Actor, bool) {
	v, ok := c.Get(CtxActor)
	if !ok {
		return core.Actor{}, false
	}
	a, ok := v.(core.Actor)
	return a, ok
}

// ArbiterOnly admits admins and managers; everyone else gets 403. The engine
// enforces the same rule again on every call, this just fails fast at the
// HTTP edge.
func ArbiterOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		a, ok := Actor(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		if a.Role != models.RoleAdmin && a.Role != models.RoleManager {
			c.AbortWithStatusJSON(http.StatusForbidden, H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

// AdminOnly admits admins only (user management).
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		a, ok := Actor(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		if a.Role != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}
