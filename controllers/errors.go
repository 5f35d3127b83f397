// controllers/errors.go
package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"Gin_postgres_redis_material_tracker/app"
	"Gin_postgres_redis_material_tracker/core"
)

// respondErr maps engine errors onto HTTP statuses. Validation failures keep
// their human-readable reason; anything unrecognized is a storage-level 500.
func respondErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		c.JSON(http.StatusNotFound, app.H{"error": err.Error()})
	case errors.Is(err, core.ErrInvalidRequestType):
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
	case errors.Is(err, core.ErrInvalidState),
		errors.Is(err, core.ErrDuplicateRequest),
		errors.Is(err, core.ErrDuplicateSerial),
		errors.Is(err, core.ErrDuplicateUsername),
		errors.Is(err, core.ErrStatusConflict):
		c.JSON(http.StatusConflict, app.H{"error": err.Error()})
	case errors.Is(err, core.ErrRequestNoLongerPending):
		// The caller should refresh and re-decide; the engine never
		// auto-retries an approval.
		c.JSON(http.StatusConflict, app.H{"error": err.Error(), "refresh": true})
	case errors.Is(err, core.ErrNotAuthorizedForReturn):
		c.JSON(http.StatusForbidden, app.H{"error": err.Error()})
	case errors.Is(err, core.ErrUnauthorized):
		c.JSON(http.StatusForbidden, app.H{"error": err.Error()})
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("unhandled error")
		c.JSON(http.StatusInternalServerError, app.H{"error": "internal error"})
	}
}
