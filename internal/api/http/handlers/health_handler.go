package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"

	"github.com/storefront/backoffice/internal/observability"
)

const readinessTimeout = 2 * time.Second

// Pinger is a dependency probed by the readiness check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependency names a probed backing service.
type Dependency struct {
	Name   string
	Pinger Pinger
}

type probeResult struct {
	Status    string `json:"status"`
	LatencyMs int64  `json:"latencyMs"`
	Error     string `json:"error,omitempty"`
}

// HealthHandler serves liveness, readiness and the metrics snapshot.
type HealthHandler struct {
	service string
	version string
	deps    []Dependency
	metrics *observability.Metrics
}

func NewHealthHandler(service, version string, metrics *observability.Metrics, deps ...Dependency) *HealthHandler {
	return &HealthHandler{service: service, version: version, deps: deps, metrics: metrics}
}

// Live answers as long as the process serves HTTP.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "alive",
		"service": h.service,
		"version": h.version,
	})
}

// Ready pings every dependency in parallel and fails with 503 when any of
// them is down.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	results, healthy := h.probe(c.UserContext())
	if healthy {
		return c.JSON(fiber.Map{"status": "ready", "dependencies": results})
	}
	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
		"message": "one or more dependencies unavailable",
		"code":    "DEPENDENCY_UNAVAILABLE",
		"details": results,
	})
}

func (h *HealthHandler) probe(parent context.Context) (map[string]probeResult, bool) {
	ctx, cancel := context.WithTimeout(parent, readinessTimeout)
	defer cancel()

	outcomes := make([]probeResult, len(h.deps))
	var g errgroup.Group
	for i, dep := range h.deps {
		g.Go(func() error {
			start := time.Now()
			err := dep.Pinger.Ping(ctx)
			outcomes[i] = probeResult{Status: "ok", LatencyMs: time.Since(start).Milliseconds()}
			if err != nil {
				outcomes[i].Status = "down"
				outcomes[i].Error = err.Error()
			}
			return nil
		})
	}
	_ = g.Wait()

	results := make(map[string]probeResult, len(h.deps))
	healthy := true
	for i, dep := range h.deps {
		results[dep.Name] = outcomes[i]
		healthy = healthy && outcomes[i].Status == "ok"
	}
	return results, healthy
}

// Metrics exposes the in-process request counters.
func (h *HealthHandler) Metrics(c *fiber.Ctx) error {
	return c.JSON(h.metrics.Snapshot())
}
