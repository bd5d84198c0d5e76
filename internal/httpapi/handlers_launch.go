package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"appdeck/internal/launcher"
	"appdeck/internal/metrics"
)

type launchNotFound struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (s *Server) handleLaunchApp(c echo.Context) error {
	notFound := func() error {
		return c.JSON(http.StatusNotFound, launchNotFound{Success: false, Message: "App not found"})
	}

	id, ok := pathID(c)
	if !ok {
		return notFound()
	}
	app, ok := s.registry.Find(id)
	if !ok {
		return notFound()
	}

	// The child runs to completion even if the client goes away.
	ctx := context.WithoutCancel(c.Request().Context())
	start := s.clock.Now()
	res, err := s.launcher.Launch(ctx, app.Command)
	elapsed := s.clock.Since(start)
	status := http.StatusOK
	switch {
	case err == nil && res.Success:
		s.metrics.ObserveLaunch(metrics.OutcomeSuccess, elapsed)
	case err == nil:
		s.metrics.ObserveLaunch(metrics.OutcomeFailure, elapsed)
	case errors.Is(err, launcher.ErrStart):
		s.metrics.ObserveLaunch(metrics.OutcomeStartError, elapsed)
		status = http.StatusInternalServerError
		s.logger.Error("App launch failed", "app_id", app.ID, "error", err)
	default:
		return internalError("launch failed", err)
	}

	if err := c.JSON(status, res); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}
