package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/ticket-dashboard/pkg/util/errorutil"
)

const readyTimeout = 2 * time.Second

// DependencyCheck pings one backing service.
type DependencyCheck struct {
	Name string
	Ping func(ctx context.Context) error
}

// HealthHandler answers liveness and readiness checks.
type HealthHandler struct {
	serviceName string
	version     string
	checks      []DependencyCheck
}

// NewHealthHandler returns a new handler instance.
func NewHealthHandler(serviceName, version string, checks ...DependencyCheck) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, version: version, checks: checks}
}

// Live reports that the process is serving.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": fiber.Map{
		"status":  "alive",
		"service": h.serviceName,
		"version": h.version,
	}})
}

// Ready pings every dependency concurrently and fails when any is down.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), readyTimeout)
	defer cancel()

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		status = make(map[string]any, len(h.checks))
		ready  = true
	)
	for _, check := range h.checks {
		wg.Add(1)
		go func(check DependencyCheck) {
			defer wg.Done()
			err := check.Ping(ctx)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				status[check.Name] = err.Error()
				ready = false
				return
			}
			status[check.Name] = "ok"
		}(check)
	}
	wg.Wait()

	if !ready {
		return apperrors.NewDependencyUnavailable(status)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"status":       "ready",
		"dependencies": status,
	}})
}
