package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/callwatch/callwatch/internal/services"
	"github.com/callwatch/callwatch/internal/utils"
)

type InterestHandler struct {
	svc services.InterestService
}

func NewInterestHandler(svc services.InterestService) *InterestHandler {
	return &InterestHandler{svc: svc}
}

type SubmitInterestRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Company string `json:"company"`
	Message string `json:"message"`
}

func (h *InterestHandler) Submit(c *gin.Context) {
	var req SubmitInterestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "InterestHandler.Submit", "invalid request body", err))
		return
	}

	row, err := h.svc.Submit(c.Request.Context(), req.Name, req.Email, req.Company, req.Message)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": row.ID, "message": "thanks, we will be in touch"})
}

func (h *InterestHandler) List(c *gin.Context) {
	if _, ok := requireUserID(c); !ok {
		return
	}

	rows, err := h.svc.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, rows)
}
