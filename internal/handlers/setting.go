package handlers

import (
	"net/http"

	"bylines/internal/services"

	"github.com/gin-gonic/gin"
)

type SettingHandler struct {
	roles    *services.RoleService
	settings *services.SettingsService
}

func NewSettingHandler(roles *services.RoleService, settings *services.SettingsService) *SettingHandler {
	return &SettingHandler{roles: roles, settings: settings}
}

// GetDefaultRole returns the configured default role.
func (h *SettingHandler) GetDefaultRole(c *gin.Context) {
	id, ok := h.settings.GetInt64(services.SettingDefaultRole)
	if !ok {
		respondError(c, http.StatusNotFound, "default role is not configured")
		return
	}
	role, err := h.roles.Get(id)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load default role")
		return
	}
	if role == nil {
		respondError(c, http.StatusNotFound, "default role does not exist")
		return
	}
	c.JSON(http.StatusOK, role)
}

// SetDefaultRole designates a role as the default for new content.
func (h *SettingHandler) SetDefaultRole(c *gin.Context) {
	var payload struct {
		ID int64 `json:"id"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil || payload.ID <= 0 {
		respondError(c, http.StatusBadRequest, "a role id is required")
		return
	}
	if err := h.roles.SetDefault(payload.ID); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": payload.ID})
}
