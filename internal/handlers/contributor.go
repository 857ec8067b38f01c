package handlers

import (
	"net/http"

	"bylines/internal/models"
	"bylines/internal/services"

	"github.com/gin-gonic/gin"
)

type ContributorHandler struct {
	contributors *services.ContributorService
}

func NewContributorHandler(contributors *services.ContributorService) *ContributorHandler {
	return &ContributorHandler{contributors: contributors}
}

// List returns the unified contributor collection. An explicitly empty
// include list yields an empty result.
func (h *ContributorHandler) List(c *gin.Context) {
	include, hasInclude := queryIDs(c, "include")
	if hasInclude && len(include) == 0 {
		c.JSON(http.StatusOK, []models.Contributor{})
		return
	}
	exclude, _ := queryIDs(c, "exclude")

	results := h.contributors.Query(services.ContributorFilter{
		Include:  include,
		Exclude:  exclude,
		Search:   c.Query("search"),
		Nicename: c.Query("nicename"),
		Paged:    queryInt(c, "paged"),
		PerPage:  queryInt(c, "per_page"),
		Order:    c.Query("order"),
	})
	if results == nil {
		results = []models.Contributor{}
	}
	c.JSON(http.StatusOK, results)
}

// Get resolves one contributor by nicename.
func (h *ContributorHandler) Get(c *gin.Context) {
	contributor := h.contributors.ByNicename(c.Param("nicename"))
	if contributor == nil {
		respondError(c, http.StatusNotFound, "contributor not found")
		return
	}
	c.JSON(http.StatusOK, contributor)
}
