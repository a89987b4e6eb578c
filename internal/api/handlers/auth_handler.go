package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/callwatch/callwatch/internal/services"
	"github.com/callwatch/callwatch/internal/utils"
)

type AuthHandler struct {
	svc services.AuthService
}

func NewAuthHandler(svc services.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "AuthHandler.Register", "invalid request body", err))
		return
	}

	user, token, err := h.svc.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":         user,
		"access_token": token,
		"token_type":   "bearer",
	})
}

// Token accepts a form-encoded username/password pair and returns a bearer
// token, OAuth2 password-grant style.
func (h *AuthHandler) Token(c *gin.Context) {
	email := c.PostForm("username")
	password := c.PostForm("password")

	token, err := h.svc.Login(c.Request.Context(), email, password)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "bearer",
	})
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	user, err := h.svc.Profile(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
