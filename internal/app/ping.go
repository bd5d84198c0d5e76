package app

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Ping contacts the daemon control listener and returns its health status.
func (a *App) Ping(ctx context.Context, timeout time.Duration) (string, error) {
	if timeout <= 0 {
		return "", errors.New("timeout must be greater than 0")
	}
	if !daemonIsRunning(a.controlAddr) {
		return "", errors.New("daemon is not running")
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	status, err := checkControl(ctx, a.controlAddr)
	if err != nil {
		return "", fmt.Errorf("daemon health check failed: %w", err)
	}
	return status, nil
}
