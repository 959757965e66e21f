package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/taskroom/internal/app/models/dto"
	"github.com/yigit/taskroom/internal/app/services"
	"github.com/yigit/taskroom/internal/middleware"
)

// SyncController handles task synchronization endpoints
type SyncController struct {
	syncService *services.SyncService
	logger      zerolog.Logger
}

// NewSyncController creates a new SyncController
func NewSyncController(syncService *services.SyncService, logger zerolog.Logger) *SyncController {
	return &SyncController{
		syncService: syncService,
		logger:      logger,
	}
}

// SyncTasks reconciles the requester's task copies with their classrooms
// @Summary Sync classroom task copies
// @Description Brings the requester's personal copies in line with the canonical tasks of their classrooms. Only one sync per user runs at a time.
// @Tags sync
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.SyncStatsResponse}
// @Failure 409 {object} dto.ErrorResponse "A sync is already running"
// @Router /sync [post]
func (c *SyncController) SyncTasks(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondUnauthorized(ctx)
		return
	}

	stats, err := c.syncService.SyncUserTasks(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(stats))
}

// LastSyncResponse reports when the last successful sync finished
type LastSyncResponse struct {
	LastSyncedAt *time.Time `json:"lastSyncedAt"`
}

// GetLastSync reports the requester's last successful sync time
// @Summary Get last sync time
// @Tags sync
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=LastSyncResponse}
// @Router /sync/last [get]
func (c *SyncController) GetLastSync(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondUnauthorized(ctx)
		return
	}

	last, err := c.syncService.LastSync(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := LastSyncResponse{}
	if !last.IsZero() {
		resp.LastSyncedAt = &last
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}
