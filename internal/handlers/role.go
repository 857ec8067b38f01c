package handlers

import (
	"net/http"

	"bylines/internal/models"
	"bylines/internal/services"

	"github.com/gin-gonic/gin"
)

type RoleHandler struct {
	roles *services.RoleService
}

func NewRoleHandler(roles *services.RoleService) *RoleHandler {
	return &RoleHandler{roles: roles}
}

// roleItem is one element of the batch save payload.
type roleItem struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	Nicename         string `json:"nicename"`
	Prefix           string `json:"prefix"`
	AvatarVisibility bool   `json:"avatar_visibility"`
	Icon             *int64 `json:"icon"`
	IsDefault        bool   `json:"is_default"`
}

// List returns roles matching the query. An explicitly empty include list
// yields an empty result.
func (h *RoleHandler) List(c *gin.Context) {
	include, hasInclude := queryIDs(c, "include")
	if hasInclude && len(include) == 0 {
		c.JSON(http.StatusOK, []models.Role{})
		return
	}
	exclude, _ := queryIDs(c, "exclude")

	filter := services.RoleFilter{
		Include:  include,
		Exclude:  exclude,
		Search:   c.Query("search"),
		Nicename: c.Query("nicename"),
		Paged:    queryInt(c, "paged"),
		PerPage:  queryInt(c, "per_page"),
		OrderBy:  c.Query("order_by"),
		Order:    c.Query("order"),
	}

	if field := c.Query("fields"); field != "" && field != "*" {
		values, err := h.roles.QueryValues(filter, field)
		if err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		if values == nil {
			values = []string{}
		}
		c.JSON(http.StatusOK, values)
		return
	}

	roles, err := h.roles.Query(filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to query roles")
		return
	}
	if roles == nil {
		roles = []models.Role{}
	}
	c.JSON(http.StatusOK, roles)
}

// Save batch-upserts roles. Items without a nicename are silently
// skipped; items with a known id are updated, the rest inserted. An item
// flagged is_default also becomes the process-wide default role. The
// response lists the accepted roles in their final stored form.
func (h *RoleHandler) Save(c *gin.Context) {
	var items []roleItem
	if err := c.ShouldBindJSON(&items); err != nil {
		respondError(c, http.StatusBadRequest, "expected an array of roles")
		return
	}

	accepted := make([]models.Role, 0, len(items))
	for _, item := range items {
		if item.Nicename == "" {
			continue
		}

		input := services.RoleInput{
			Name:             item.Name,
			Prefix:           item.Prefix,
			AvatarVisibility: item.AvatarVisibility,
			Icon:             item.Icon,
		}

		id := item.ID
		if id > 0 {
			rows, err := h.roles.Update(id, input)
			if err != nil {
				respondError(c, http.StatusInternalServerError, "failed to update role")
				return
			}
			if rows == 0 {
				id = 0
			}
		}
		if id == 0 {
			newID, err := h.roles.Insert(input)
			if err != nil {
				respondError(c, http.StatusInternalServerError, "failed to insert role")
				return
			}
			id = newID
		}

		if item.IsDefault {
			if err := h.roles.SetDefault(id); err != nil {
				respondError(c, http.StatusInternalServerError, "failed to set default role")
				return
			}
		}

		role, err := h.roles.Get(id)
		if err != nil || role == nil {
			respondError(c, http.StatusInternalServerError, "failed to reload saved role")
			return
		}
		accepted = append(accepted, *role)
	}

	c.JSON(http.StatusOK, accepted)
}

// Delete removes one role. Deleting the undeletable default reports zero
// rows, mirroring the repository contract.
func (h *RoleHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	rows, err := h.roles.Delete(id)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to delete role")
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": rows})
}
