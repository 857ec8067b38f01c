// Package handlers exposes the byline layer as a JSON API. Handlers stay
// thin: parameter parsing and status mapping here, all semantics in the
// services.
package handlers

import (
	"net/http"
	"strconv"

	"bylines/internal/utils"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

// pathID parses the numeric :id path parameter.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

// queryIDs parses a comma-joined id list query parameter. The second
// return distinguishes "absent" from "present but empty": an explicitly
// empty list must select nothing, not everything.
func queryIDs(c *gin.Context, name string) ([]int64, bool) {
	raw, present := c.GetQuery(name)
	if !present {
		return nil, false
	}
	return utils.ParseIDList(raw), true
}

func queryInt(c *gin.Context, name string) int {
	return utils.StringToInt(c.Query(name))
}
