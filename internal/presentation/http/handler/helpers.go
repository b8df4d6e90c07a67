package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// ParseID extracts a numeric id path parameter. Returns 0 and false
// when the parameter is missing or not a positive integer.
func ParseID(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
