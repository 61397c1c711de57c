package handler

import (
	"net/http"
	"time"

	"martpos/internal/infra"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health reports liveness of the process and its dependencies. Degraded
// dependencies still answer 200 so orchestrators don't restart the API over
// a Redis blip; each component carries its own status.
func Health(db *gorm.DB, rdb *redis.Client, cb *infra.CircuitBreaker) gin.HandlerFunc {
	return func(c *gin.Context) {
		components := gin.H{}

		dbStatus := "ok"
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			dbStatus = "down"
		}
		components["database"] = dbStatus

		redisStatus := "ok"
		if rdb == nil {
			redisStatus = "disabled"
		} else if err := rdb.Ping(c.Request.Context()).Err(); err != nil {
			redisStatus = "down"
		}
		components["redis"] = redisStatus

		if cb != nil {
			components["barcode_service"] = cb.State().String()
		}

		status := http.StatusOK
		overall := "ok"
		if redisStatus == "down" {
			overall = "degraded"
		}
		if dbStatus == "down" {
			status = http.StatusServiceUnavailable
			overall = "degraded"
		}
		c.JSON(status, gin.H{
			"status":     overall,
			"components": components,
			"time":       time.Now().UTC().Format(time.RFC3339),
		})
	}
}
