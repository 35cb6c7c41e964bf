package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/debt_gateway/utils"
	"github.com/sirupsen/logrus"
)

// ErrorLogger logs the errors handlers attached with c.Error.
func ErrorLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Only log when there are errors
		if len(c.Errors) > 0 {
			cid, _ := utils.GetCorrelationIdFromContext(c.Request.Context())
			logger.WithFields(logrus.Fields{
				"field":          "http",
				"path":           c.Request.URL.Path,
				"status":         c.Writer.Status(),
				"correlation_id": cid,
			}).Error(c.Errors.String())
		}
	}
}
