package controller

import (
	"smart-notes-be/internal/dto"
	"smart-notes-be/internal/pkg/serverutils"
	"smart-notes-be/pkg/models"

	"github.com/gofiber/fiber/v2"
)

const (
	statusReady    = "ready"
	statusFallback = "fallback"
)

// Pinger reports database reachability.
type Pinger func() error

type IHealthController interface {
	RegisterRoutes(r fiber.Router)
	Health(ctx *fiber.Ctx) error
}

type healthController struct {
	ping     Pinger
	registry *models.Registry
}

func NewHealthController(ping Pinger, registry *models.Registry) IHealthController {
	return &healthController{
		ping:     ping,
		registry: registry,
	}
}

func (c *healthController) RegisterRoutes(r fiber.Router) {
	r.Get("/health", c.Health)
}

// Health is 200 while the database answers. Models on a fallback tier
// degrade quality, not availability.
func (c *healthController) Health(ctx *fiber.Ctx) error {
	res := dto.HealthResponse{
		Status:   "healthy",
		Database: "connected",
		Services: map[string]string{},
	}
	for _, capability := range c.registry.Capabilities() {
		status := statusFallback
		if capability.Ready {
			status = statusReady
		}
		res.Services[capability.Name] = status
	}

	if err := c.ping(); err != nil {
		res.Status = "unhealthy"
		res.Database = err.Error()
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(serverutils.BaseResponse[dto.HealthResponse]{
			Status:  serverutils.StatusError,
			Code:    fiber.StatusServiceUnavailable,
			Message: "Database unreachable",
			Data:    res,
		})
	}

	return ctx.JSON(serverutils.SuccessResponse("Service is healthy", res))
}
