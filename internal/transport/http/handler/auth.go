package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/app"
	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/transport/http/middleware"
	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/transport/http/response"
)

type AuthHandler struct {
	authService *app.AuthService
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=128"`
	Password string `json:"password" binding:"required,min=1,max=128"`
}

func NewAuthHandler(authService *app.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	result, err := h.authService.Login(app.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrInvalidCredential):
			response.Error(c, http.StatusUnauthorized, response.CodeInvalidCredentials, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "login failed")
		}
		return
	}

	response.OK(c, gin.H{
		"token": result.Token,
		"user": gin.H{
			"id":           result.Session.ClientID,
			"email":        result.Session.Email,
			"name":         result.Session.Name,
			"role":         result.Session.Role,
			"client_group": result.Session.ClientGroup,
		},
	})
}

// Logout invalidates the caller's session. Repeating it with the same token
// still returns 200.
func (h *AuthHandler) Logout(c *gin.Context) {
	token, ok := middleware.RawTokenFrom(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "no session to log out")
		return
	}

	if err := h.authService.Logout(token); err != nil {
		if errors.Is(err, app.ErrSessionInvalid) {
			response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid session")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "logout failed")
		return
	}
	response.OK(c, gin.H{"message": "logout successful"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "no active session")
		return
	}
	response.OK(c, gin.H{
		"id":           session.ClientID,
		"email":        session.Email,
		"name":         session.Name,
		"role":         session.Role,
		"client_group": session.ClientGroup,
	})
}
