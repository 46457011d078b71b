package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zvrva/securespot/internal/service/auth"
)

type AuthHandler struct {
	service auth.AuthUseCase
}

func NewAuthHandler(service auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{service: service}
}

type signUpRequest struct {
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	CurrentPassword      string `json:"current_password"`
	NewPassword          string `json:"new_password"`
	NewPasswordConfirmed string `json:"new_password_confirmed"`
}

type tokenResponse struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

// Register mounts the public auth endpoints; RegisterProtected mounts those
// that require a valid token.
func (h *AuthHandler) Register(router *gin.RouterGroup) {
	router.POST("/sign-up", h.signUp)
	router.POST("/sign-in", h.signIn)
}

func (h *AuthHandler) RegisterProtected(router *gin.RouterGroup) {
	router.DELETE("/sign-out", h.signOut)
	router.PATCH("/password", h.changePassword)
}

func (h *AuthHandler) signUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := h.service.SignUp(c.Request.Context(), req.Email, req.Password, req.PasswordConfirmation)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tokenResponse{Email: user.Email, Token: token})
}

func (h *AuthHandler) signIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := h.service.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tokenResponse{Email: user.Email, Token: token})
}

func (h *AuthHandler) signOut(c *gin.Context) {
	if err := h.service.SignOut(c.Request.Context(), bearerToken(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) changePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := currentUser(c)
	if err := h.service.ChangePassword(c.Request.Context(), user.ID, req.CurrentPassword, req.NewPassword, req.NewPasswordConfirmed); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
