package controller

import (
	"net/http"
	"strconv"

	"github.com/amoskalev/notepanel/logger"
	"github.com/amoskalev/notepanel/web/service"

	"github.com/gin-gonic/gin"
)

// jsonError writes {"error": code} for err. Expected failures use their own
// status; anything else is logged and reported as a bare 500.
func jsonError(c *gin.Context, err error) {
	kind := service.KindOf(err)
	if kind == service.KindInternal || kind == service.KindIOFailure {
		logger.Errorf("%s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(kind.HTTPStatus(), gin.H{"error": service.CodeOf(err)})
}

func jsonOK(c *gin.Context, status int) {
	c.JSON(status, gin.H{"ok": true})
}

// bindJSON decodes the body. An empty or malformed body yields the zero
// value, so required-field checks report the missing fields.
func bindJSON[T any](c *gin.Context) T {
	var form T
	if err := c.ShouldBindJSON(&form); err != nil {
		logger.Debug("ignoring malformed request body: ", err)
		var zero T
		return zero
	}
	return form
}

func pathID(c *gin.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return 0, service.ErrInvalidID
	}
	return id, nil
}

// NotFound answers routes nothing else matched.
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": service.ErrNotFound.Code})
}
