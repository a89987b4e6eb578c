package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/callwatch/callwatch/internal/services"
	"github.com/callwatch/callwatch/internal/utils"
)

type SettingsHandler struct {
	svc services.SettingsService
}

func NewSettingsHandler(svc services.SettingsService) *SettingsHandler {
	return &SettingsHandler{svc: svc}
}

func (h *SettingsHandler) Get(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	settings, err := h.svc.Latest(c.Request.Context(), userID)
	if errors.Is(err, utils.ErrNotFound) {
		// No settings yet: render empty defaults rather than a 404.
		c.JSON(http.StatusOK, gin.H{
			"retell_api_key": "",
			"agent_ids":      []string{},
		})
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"retell_api_key": settings.RetellAPIKey,
		"agent_ids":      settings.AgentIDs,
	})
}

type SubmitSettingsRequest struct {
	RetellAPIKey string   `json:"retell_api_key" binding:"required"`
	AgentIDs     []string `json:"agent_ids" binding:"required"`
}

func (h *SettingsHandler) Submit(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req SubmitSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "SettingsHandler.Submit", "invalid request body", err))
		return
	}

	updated, err := h.svc.Submit(c.Request.Context(), userID, req.RetellAPIKey, req.AgentIDs)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         "settings saved",
		"scripts_updated": updated,
	})
}
