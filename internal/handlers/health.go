package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yukikurage/tenant-task-api/internal/database"
	"github.com/yukikurage/tenant-task-api/internal/dto"
	apierrors "github.com/yukikurage/tenant-task-api/internal/errors"
	"github.com/yukikurage/tenant-task-api/internal/logger"
)

const healthPingTimeout = 2 * time.Second

// HealthHandler reports whether the service can reach its database.
type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Check pings the database.
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
	defer cancel()

	if err := database.Ping(ctx, h.db); err != nil {
		logger.FromGin(c).Warn("Health check failed", zap.Error(err))
		apierrors.ServiceUnavailable(c, "Database unavailable")
		return
	}

	c.JSON(http.StatusOK, dto.OK(gin.H{
		"status":   "ok",
		"database": "up",
	}))
}
