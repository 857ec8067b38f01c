package handlers

import (
	"net/http"

	"bylines/internal/models"
	"bylines/internal/services"

	"github.com/gin-gonic/gin"
)

type GuestHandler struct {
	guests *services.GuestService
}

func NewGuestHandler(guests *services.GuestService) *GuestHandler {
	return &GuestHandler{guests: guests}
}

// List returns guests matching the query. The fields parameter switches
// the response to a flat value list for a single column.
func (h *GuestHandler) List(c *gin.Context) {
	include, hasInclude := queryIDs(c, "include")
	if hasInclude && len(include) == 0 {
		c.JSON(http.StatusOK, []models.Guest{})
		return
	}
	exclude, _ := queryIDs(c, "exclude")

	filter := services.GuestFilter{
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
		values, err := h.guests.QueryValues(filter, field)
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

	guests, err := h.guests.Query(filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to query guest authors")
		return
	}
	if guests == nil {
		guests = []models.Guest{}
	}
	c.JSON(http.StatusOK, guests)
}

// Save batch-upserts guest authors. Items with a known id are updated,
// the rest inserted; inserts without a name are silently skipped. The
// response lists the accepted records in their final stored form.
func (h *GuestHandler) Save(c *gin.Context) {
	var items []models.Guest
	if err := c.ShouldBindJSON(&items); err != nil {
		respondError(c, http.StatusBadRequest, "expected an array of guest authors")
		return
	}

	accepted := make([]models.Guest, 0, len(items))
	for _, item := range items {
		id := item.ID
		if id > 0 {
			rows, err := h.guests.Update(id, map[string]interface{}{
				"name":        item.Name,
				"email":       item.Email,
				"description": item.Description,
				"avatar":      item.Avatar,
			})
			if err != nil {
				respondError(c, http.StatusInternalServerError, "failed to update guest author")
				return
			}
			if rows == 0 {
				id = 0
			}
		}
		if id == 0 {
			if item.Name == "" {
				continue
			}
			item.ID = 0
			newID, err := h.guests.Insert(item)
			if err != nil {
				respondError(c, http.StatusInternalServerError, "failed to insert guest author")
				return
			}
			id = newID
		}

		stored, err := h.guests.Query(services.GuestFilter{Include: []int64{id}})
		if err != nil || len(stored) == 0 {
			respondError(c, http.StatusInternalServerError, "failed to reload saved guest author")
			return
		}
		accepted = append(accepted, stored[0])
	}

	c.JSON(http.StatusOK, accepted)
}

// Create inserts a guest author. Name is the only required field; id and
// nicename are derived when absent.
func (h *GuestHandler) Create(c *gin.Context) {
	var guest models.Guest
	if err := c.ShouldBindJSON(&guest); err != nil {
		respondError(c, http.StatusBadRequest, "invalid guest author payload")
		return
	}
	if guest.Name == "" {
		respondError(c, http.StatusBadRequest, "name is required")
		return
	}

	id, err := h.guests.Insert(guest)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to create guest author")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// Update applies a partial update to one guest author.
func (h *GuestHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var data map[string]interface{}
	if err := c.ShouldBindJSON(&data); err != nil {
		respondError(c, http.StatusBadRequest, "invalid guest author payload")
		return
	}
	delete(data, "id")

	rows, err := h.guests.Update(id, data)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to update guest author")
		return
	}
	if rows == 0 {
		respondError(c, http.StatusNotFound, "guest author not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": rows})
}

// Delete removes one guest author and retires its id.
func (h *GuestHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	rows, err := h.guests.Delete(id)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to delete guest author")
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": rows})
}
