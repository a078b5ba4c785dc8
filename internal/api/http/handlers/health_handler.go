package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/process-desk/internal/observability"
	"github.com/spec-kit/process-desk/internal/persistence"
	"github.com/spec-kit/process-desk/internal/worker"
)

// HealthHandler responds to liveness and readiness probes.
type HealthHandler struct {
	serviceName string
	version     string
	gateway     *persistence.Gateway
	redis       *persistence.Redis
	metrics     *observability.Metrics
	audit       *worker.AuditWorker
}

// HealthDependencies bundles what the probes inspect. Redis may be nil when
// sessions are kept in memory.
type HealthDependencies struct {
	Gateway *persistence.Gateway
	Redis   *persistence.Redis
	Metrics *observability.Metrics
	Audit   *worker.AuditWorker
}

// NewHealthHandler returns a new handler instance.
func NewHealthHandler(serviceName, version string, deps HealthDependencies) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		gateway:     deps.Gateway,
		redis:       deps.Redis,
		metrics:     deps.Metrics,
		audit:       deps.Audit,
	}
}

// Live reports service liveness.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "alive",
		"service": h.serviceName,
		"version": h.version,
	})
}

// Ready reports service readiness by checking dependencies.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	depStatus := fiber.Map{}
	ready := true

	if h.gateway == nil {
		depStatus["postgres"] = "not configured"
		ready = false
	} else if err := h.gateway.Ping(ctx); err != nil {
		depStatus["postgres"] = err.Error()
		ready = false
	} else {
		depStatus["postgres"] = "ok"
	}

	if h.redis != nil {
		if err := h.redis.Ping(ctx); err != nil {
			depStatus["redis"] = err.Error()
			ready = false
		} else {
			depStatus["redis"] = "ok"
		}
	}

	if ready {
		return c.JSON(fiber.Map{
			"status":       "ready",
			"dependencies": depStatus,
		})
	}

	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    "DEPENDENCY_UNAVAILABLE",
			"message": "one or more dependencies unavailable",
			"details": depStatus,
		},
	})
}

// Metrics reports request counters and audited event totals.
func (h *HealthHandler) Metrics(c *fiber.Ctx) error {
	body := fiber.Map{"requests": h.metrics.Snapshot()}
	if h.audit != nil {
		body["audit"] = h.audit.Counts()
	}
	return c.JSON(body)
}
