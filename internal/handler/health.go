package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type HealthHandler struct {
	pool *pgxpool.Pool
	rdb  *redis.Client
}

func NewHealthHandler(pool *pgxpool.Pool, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{pool: pool, rdb: rdb}
}

func (h *HealthHandler) Health(c *gin.Context) {
	status := http.StatusOK
	body := gin.H{"status": "healthy", "database": "connected"}

	if err := h.pool.Ping(c.Request.Context()); err != nil {
		status = http.StatusServiceUnavailable
		body["status"] = "unhealthy"
		body["database"] = "disconnected"
	}

	// Redis is optional; report it without failing the check.
	if h.rdb != nil {
		body["redis"] = "connected"
		if err := h.rdb.Ping(c.Request.Context()).Err(); err != nil {
			body["redis"] = "disconnected"
		}
	}

	c.JSON(status, body)
}
