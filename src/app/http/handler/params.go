package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"fastai/src/app/http/response"
	"fastai/src/app/middleware"
)

// parseID reads a positive integer path parameter. On failure it writes a
// 400 and returns false.
func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.ValidationError(c, name, "must be a positive integer", middleware.GetRequestID(c))
		return 0, false
	}
	return id, true
}
