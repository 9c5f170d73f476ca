package memory

import "context"

// HealthCheck implements ports.HealthChecker for the in-process backend.
// It always succeeds; its presence in the health report tells operators the
// service is running degraded.
type HealthCheck struct{}

// NewHealthCheck creates an in-memory health checker.
func NewHealthCheck() *HealthCheck {
	return &HealthCheck{}
}

// Ping always succeeds.
func (h *HealthCheck) Ping(_ context.Context) error {
	return nil
}

// Name returns the dependency name.
func (h *HealthCheck) Name() string {
	return "memory"
}
