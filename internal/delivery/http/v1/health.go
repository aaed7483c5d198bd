package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HandleHealth reports ok only when every backend answers a ping.
func (h *handlerImpl) HandleHealth(c *gin.Context) {
	for i, pinger := range h.pingers {
		err := pinger.Ping(c)
		if err != nil {
			h.logger.Error().
				Err(err).
				Int("backend", i).
				Msg("failed to ping backend")
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
