package middlewares

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/debt_gateway/config"
)

// Cors allows every origin outside production. In production only
// CORS_ALLOWED_ORIGINS is allowed, and none when it is unset.
func Cors(settings config.Settings) gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	if settings.Production {
		corsConfig.AllowOrigins = config.SplitAndTrim(settings.CorsAllowedOrigins)
		if len(corsConfig.AllowOrigins) == 0 {
			// cors.New rejects an empty allowlist.
			corsConfig.AllowOriginFunc = func(string) bool { return false }
		}
		corsConfig.AllowCredentials = true
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowMethods("POST", "OPTIONS")
	corsConfig.AddAllowHeaders("Origin", "Content-Type", CorrelationIdHeader)
	corsConfig.AddExposeHeaders("Content-Length", CorrelationIdHeader)
	return cors.New(corsConfig)
}
