package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tennis-booking/internal/common/config"
	"tennis-booking/internal/common/logger"
)

// ReadinessCheck reports whether a dependency can serve traffic.
type ReadinessCheck func(ctx context.Context) error

type RouterOptions struct {
	Interpreter BookingInterpreter
	Server      config.ServerConfig
	Service     string
	Version     string
	Checks      map[string]ReadinessCheck
	Logger      logger.Logger
}

// NewRouter wires the booking API, health endpoints and Prometheus metrics.
func NewRouter(opts RouterOptions) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(opts.Logger))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"service":   opts.Service,
			"version":   opts.Version,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})
	router.GET("/ready", readyHandler(opts.Checks, opts.Logger))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(opts.Server.RateLimitRPS, opts.Server.RateLimitBurst, opts.Logger))

	handler := NewHandler(opts.Interpreter, config.GetDuration(opts.Server.RequestTimeout), opts.Logger)
	handler.RegisterRoutes(v1)

	return router
}

func readyHandler(checks map[string]ReadinessCheck, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		results := make(map[string]string, len(checks))
		ready := true
		for name, check := range checks {
			if err := check(ctx); err != nil {
				ready = false
				results[name] = err.Error()
				log.Warn("readiness check failed", map[string]interface{}{"check": name, "error": err.Error()})
				continue
			}
			results[name] = "ok"
		}

		status := http.StatusOK
		state := "ready"
		if !ready {
			status = http.StatusServiceUnavailable
			state = "not ready"
		}
		c.JSON(status, gin.H{"status": state, "checks": results})
	}
}
