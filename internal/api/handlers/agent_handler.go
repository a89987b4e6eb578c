package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/callwatch/callwatch/internal/export"
	"github.com/callwatch/callwatch/internal/services"
	"github.com/callwatch/callwatch/internal/utils"
)

const dateLayout = "2006-01-02"

type AgentHandler struct {
	svc services.AgentService
}

func NewAgentHandler(svc services.AgentService) *AgentHandler {
	return &AgentHandler{svc: svc}
}

func (h *AgentHandler) Names(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	names, err := h.svc.AgentNames(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"agent_names": names})
}

func (h *AgentHandler) DailyStats(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	agentID, from, to, err := statsRangeParams(c)
	if err != nil {
		writeError(c, err)
		return
	}

	rows, err := h.svc.DailyStats(c.Request.Context(), userID, agentID, from, to)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, rows)
}

// ExportDailyStats streams the same range as DailyStats as an xlsx download.
func (h *AgentHandler) ExportDailyStats(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	agentID, from, to, err := statsRangeParams(c)
	if err != nil {
		writeError(c, err)
		return
	}

	rows, err := h.svc.DailyStats(c.Request.Context(), userID, agentID, from, to)
	if err != nil {
		writeError(c, err)
		return
	}

	names, err := h.svc.AgentNames(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	agentName := names[agentID]
	if agentName == "" {
		agentName = agentID
	}

	f, err := export.DailyStatsWorkbook(agentName, rows)
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, "AgentHandler.ExportDailyStats", "failed to build workbook", err))
		return
	}
	defer f.Close()

	c.Header("Content-Disposition", `attachment; filename="`+export.Filename(agentID)+`"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		// Headers are already out; nothing to do but log via gin's recovery.
		_ = c.Error(err)
	}
}

func statsRangeParams(c *gin.Context) (agentID string, from, to time.Time, err error) {
	const op = "AgentHandler.DailyStats"

	agentID = c.Param("agent_id")
	if agentID == "" {
		return "", time.Time{}, time.Time{}, utils.E(utils.CodeInvalidArgument, op, "agent_id is required", nil)
	}

	// Default window is the trailing 30 days.
	to = time.Now().UTC().Truncate(24 * time.Hour)
	from = to.AddDate(0, 0, -30)

	if v := c.Query("start_date"); v != "" {
		if from, err = time.ParseInLocation(dateLayout, v, time.UTC); err != nil {
			return "", time.Time{}, time.Time{}, utils.E(utils.CodeInvalidArgument, op, "start_date must be YYYY-MM-DD", err)
		}
	}
	if v := c.Query("end_date"); v != "" {
		if to, err = time.ParseInLocation(dateLayout, v, time.UTC); err != nil {
			return "", time.Time{}, time.Time{}, utils.E(utils.CodeInvalidArgument, op, "end_date must be YYYY-MM-DD", err)
		}
	}
	if to.Before(from) {
		return "", time.Time{}, time.Time{}, utils.E(utils.CodeInvalidArgument, op, "end_date must not precede start_date", nil)
	}
	return agentID, from, to, nil
}
