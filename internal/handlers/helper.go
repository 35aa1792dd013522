package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

func ParseStringIDParam(c *gin.Context, param string) string {
	idStr := strings.TrimSpace(c.Param(param))
	if idStr == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: "ID cannot be empty",
		})
		return ""
	}
	return idStr
}

// parseSourceField reads the optional Multi-Source tab id of a multipart
// form. It reports false after writing a 400 response.
func parseSourceField(c *gin.Context) (int, bool) {
	raw := strings.TrimSpace(c.PostForm("source"))
	if raw == "" {
		return 0, true
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id < 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid source",
			Details: "source must be a tab id",
		})
		return 0, false
	}
	return id, true
}
