package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hadirly/hadirly-api/internal/models"
	"github.com/hadirly/hadirly-api/internal/service"
	appErrors "github.com/hadirly/hadirly-api/pkg/errors"
	"github.com/hadirly/hadirly-api/pkg/response"
)

// SyncHandler exposes the push and pull endpoints used by offline clients.
type SyncHandler struct {
	sync   *service.SyncService
	logger *zap.Logger
}

// NewSyncHandler constructs SyncHandler.
func NewSyncHandler(sync *service.SyncService, logger *zap.Logger) *SyncHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SyncHandler{sync: sync, logger: logger}
}

// Push godoc
// @Summary Apply a batch of client changes
// @Tags Sync
// @Accept json
// @Produce json
// @Param payload body models.PushRequest true "Batch of change envelopes"
// @Success 200 {object} models.PushResponse
// @Router /sync [post]
func (h *SyncHandler) Push(c *gin.Context) {
	var req models.PushRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid sync payload"))
		return
	}
	// A missing or null changes key is a client error; an empty array is a
	// valid no-op batch.
	if req.Changes == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "changes must be an array"))
		return
	}

	userID := ""
	if claims := claimsFromContext(c); claims != nil {
		userID = claims.UserID
	}
	h.logger.Info("sync push received",
		zap.String("user_id", userID),
		zap.Int("changes", len(req.Changes)),
	)

	result := h.sync.ApplyBatch(c.Request.Context(), req.Changes)
	c.JSON(http.StatusOK, models.PushResponse{
		Success:        true,
		ProcessedUUIDs: result.ProcessedUUIDs,
		FailedUUIDs:    result.FailedUUIDs,
	})
}

// Pull godoc
// @Summary Fetch changes since a watermark
// @Tags Sync
// @Produce json
// @Param since query string false "RFC 3339 watermark from the previous pull"
// @Success 200 {object} models.PullResponse
// @Router /sync [get]
func (h *SyncHandler) Pull(c *gin.Context) {
	var since time.Time
	if raw := c.Query("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid since parameter"))
			return
		}
		since = parsed
	}

	result, err := h.sync.Pull(c.Request.Context(), since)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
