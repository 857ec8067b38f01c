package handlers

import (
	"net/http"

	"bylines/internal/services"
	"bylines/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	users *services.UserDirectory
}

func NewAuthHandler(users *services.UserDirectory) *AuthHandler {
	return &AuthHandler{users: users}
}

// Login verifies credentials and opens a session.
func (h *AuthHandler) Login(c *gin.Context) {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil || payload.Email == "" {
		respondError(c, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := h.users.GetByEmail(payload.Email)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "login failed")
		return
	}
	if user == nil || !utils.CheckPassword(payload.Password, user.Password) {
		respondError(c, http.StatusUnauthorized, "invalid email or password")
		return
	}

	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	if err := session.Save(); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to save session")
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": user.ID, "name": user.Name})
}

// Logout clears the session.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to clear session")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
