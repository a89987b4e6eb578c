package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/callwatch/callwatch/internal/services"
	"github.com/callwatch/callwatch/internal/utils"
)

type CallsHandler struct {
	agents services.AgentService
	ingest services.IngestService
}

func NewCallsHandler(agents services.AgentService, ingest services.IngestService) *CallsHandler {
	return &CallsHandler{agents: agents, ingest: ingest}
}

// List returns the stored calls for one agent in a start-timestamp window.
// Bounds are epoch milliseconds; an omitted bound is open.
func (h *CallsHandler) List(c *gin.Context) {
	const op = "CallsHandler.List"

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	agentID := c.Query("agent_id")

	startMs, err := epochMsQuery(c, "start_timestamp", 0)
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "start_timestamp must be epoch milliseconds", err))
		return
	}
	endMs, err := epochMsQuery(c, "end_timestamp", int64(1)<<62)
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "end_timestamp must be epoch milliseconds", err))
		return
	}

	rows, err := h.agents.Calls(c.Request.Context(), userID, agentID, startMs, endMs)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, rows)
}

func (h *CallsHandler) Details(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	row, err := h.agents.CallDetails(c.Request.Context(), userID, c.Param("call_id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, row)
}

// RawDetails returns the archived upstream payload for a call, untouched by
// normalization.
func (h *CallsHandler) RawDetails(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	doc, err := h.agents.RawCall(c.Request.Context(), userID, c.Param("call_id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, doc)
}

// Sync triggers an on-demand ingestion run for the caller and returns the
// batch report.
func (h *CallsHandler) Sync(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	report, err := h.ingest.Run(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

func epochMsQuery(c *gin.Context, name string, fallback int64) (int64, error) {
	v := c.Query(name)
	if v == "" {
		return fallback, nil
	}
	return strconv.ParseInt(v, 10, 64)
}
