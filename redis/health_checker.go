package redis

import (
	"context"
	"errors"
	"fmt"
)

// HealthChecker pings Redis for the readiness endpoint.
type HealthChecker struct {
	manager *Manager
}

func NewHealthChecker(manager *Manager) *HealthChecker {
	return &HealthChecker{manager: manager}
}

func (h *HealthChecker) Name() string {
	return "redis"
}

// Check always pings, bypassing the probe throttle.
func (h *HealthChecker) Check(ctx context.Context) error {
	if h.manager == nil || h.manager.client == nil {
		return errors.New("redis disabled")
	}
	if !h.manager.Probe(ctx) {
		return fmt.Errorf("redis %s ping failed", h.manager.cfg.Addr())
	}
	return nil
}
