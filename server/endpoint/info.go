package endpoint

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/storekit/version"
)

var startTime = time.Now()

// Info reports the build and uptime.
func Info(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": serviceName,
			"version": version.Get(),
			"uptime":  time.Since(startTime).Round(time.Second).String(),
		})
	}
}
