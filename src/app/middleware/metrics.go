package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fastai/src/infra/metrics"
)

// Metrics records request count, latency and in-flight requests labelled by
// the matched route template, never the raw path.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		done := m.Begin()
		returned := false

		defer func() {
			done()
			status := c.Writer.Status()
			if !returned && !c.Writer.Written() {
				status = http.StatusInternalServerError
			}
			m.Observe(c.Request.Method, c.FullPath(), status, time.Since(start))
		}()

		c.Next()
		returned = true
	}
}
