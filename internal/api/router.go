package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/purushoth411/callback-sub000/internal/database"
	"github.com/purushoth411/callback-sub000/internal/monitoring"
)

// NewRouter собирает HTTP-поверхность сервиса: cron-эндпоинты проходов,
// health-проверку трех хранилищ и метрики
func NewRouter(mode string, h *Handler, stores *database.Stores, logger *zap.Logger) *gin.Engine {
	gin.SetMode(mode)

	router := gin.New()
	router.Use(
		RequestID(),
		RequestLogger(logger),
		PrometheusMetrics(),
		gin.Recovery(),
	)

	cron := router.Group("/api/cron")
	{
		cron.POST("/cancelAbsentCalls", h.CancelAbsentCalls)
		cron.POST("/autoAcceptCall", h.AutoAcceptCall)
	}

	router.GET("/health", healthHandler(stores))
	router.GET("/metrics", gin.WrapH(monitoring.Handler()))

	return router
}

// healthHandler проверяет доступность всех трех хранилищ
func healthHandler(stores *database.Stores) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		details := gin.H{}
		healthy := true
		for name, db := range map[string]interface {
			PingContext(ctx context.Context) error
		}{
			"primary": stores.Primary,
			"rc":      stores.RC,
			"crm":     stores.CRM,
		} {
			if err := db.PingContext(ctx); err != nil {
				details[name] = "unavailable"
				healthy = false
				continue
			}
			details[name] = "available"
		}

		status := http.StatusOK
		state := "ok"
		if !healthy {
			status = http.StatusServiceUnavailable
			state = "degraded"
		}

		c.JSON(status, gin.H{
			"status":  state,
			"details": details,
		})
	}
}
