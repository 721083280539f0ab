package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthChecker interface {
	Check(ctx context.Context) error
}

type HealthHandler struct {
	db        Pinger
	generator HealthChecker
	// configured reports whether the generator has credentials at all
	configured bool
	log        logrus.FieldLogger
}

func NewHealthHandler(db Pinger, generator HealthChecker, configured bool, log logrus.FieldLogger) *HealthHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &HealthHandler{db: db, generator: generator, configured: configured, log: log}
}

type healthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Database godoc
// @Summary  Database health
// @Tags     Health
// @Produce  json
// @Success  200  {object}  healthResponse
// @Failure  500  {object}  healthResponse
// @Router   /health/database [get]
func (h *HealthHandler) Database(c *gin.Context) {
	if err := h.db.Ping(c.Request.Context()); err != nil {
		h.log.WithError(err).Error("[health][database]")
		c.JSON(http.StatusInternalServerError, healthResponse{"unhealthy", "Database connection failed"})
		return
	}
	c.JSON(http.StatusOK, healthResponse{"healthy", "Database connection successful"})
}

// Generator godoc
// @Summary  Generator backend health
// @Tags     Health
// @Produce  json
// @Success  200  {object}  healthResponse
// @Failure  500  {object}  healthResponse
// @Router   /health/generator [get]
func (h *HealthHandler) Generator(c *gin.Context) {
	if !h.configured {
		c.JSON(http.StatusInternalServerError, healthResponse{"unhealthy", "Generator API key not configured"})
		return
	}
	if err := h.generator.Check(c.Request.Context()); err != nil {
		h.log.WithError(err).Error("[health][generator]")
		c.JSON(http.StatusInternalServerError, healthResponse{"unhealthy", "Generator API connection failed"})
		return
	}
	c.JSON(http.StatusOK, healthResponse{"healthy", "Generator API connection successful"})
}
