package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"appdeck/internal/registry"
)

// appRequest is the body accepted by create and update. The id is only read on create.
// name, command and url must be present; description may be omitted or null.
type appRequest struct {
	ID          string  `json:"id"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Command     *string `json:"command"`
	URL         *string `json:"url"`
}

func (r appRequest) fields() registry.Fields {
	return registry.Fields{
		Name:        *r.Name,
		Description: r.Description,
		Command:     *r.Command,
		URL:         *r.URL,
	}
}

// bindApp decodes the JSON body. echo's binder accepts an empty body, so that case is rejected here.
func bindApp(c echo.Context) (appRequest, error) {
	var req appRequest
	if c.Request().ContentLength == 0 {
		return req, validationError("request body is required", nil)
	}
	if err := c.Bind(&req); err != nil {
		return req, validationError("invalid request body", err)
	}
	for _, f := range []struct {
		name  string
		value *string
	}{
		{"name", req.Name},
		{"command", req.Command},
		{"url", req.URL},
	} {
		if f.value == nil {
			return req, validationError(fmt.Sprintf("missing field %q", f.name), nil)
		}
	}
	return req, nil
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"apps":   s.registry.Len(),
	})
}

func (s *Server) handleListApps(c echo.Context) error {
	if err := c.JSON(http.StatusOK, s.registry.List()); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleCreateApp(c echo.Context) error {
	req, err := bindApp(c)
	if err != nil {
		return err
	}

	id := uuid.Nil
	if raw := strings.TrimSpace(req.ID); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			return validationError("invalid app id", err)
		}
		id = parsed
	}

	f := req.fields()
	stored := s.registry.Create(registry.App{
		ID:          id,
		Name:        f.Name,
		Description: f.Description,
		Command:     f.Command,
		URL:         f.URL,
	})
	s.metrics.SetApps(s.registry.Len())
	if err := c.JSON(http.StatusOK, stored); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleUpdateApp(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return notFoundError("app not found")
	}

	req, err := bindApp(c)
	if err != nil {
		return err
	}

	err = s.registry.Update(id, req.fields())
	if errors.Is(err, registry.ErrNotFound) {
		return notFoundError("app not found")
	}
	if err != nil {
		return internalError("failed to update app", err)
	}
	return c.NoContent(http.StatusOK)
}

func (s *Server) handleDeleteApp(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return notFoundError("app not found")
	}

	err := s.registry.Delete(id)
	if errors.Is(err, registry.ErrNotFound) {
		return notFoundError("app not found")
	}
	if err != nil {
		return internalError("failed to delete app", err)
	}
	s.metrics.SetApps(s.registry.Len())
	return c.NoContent(http.StatusNoContent)
}

// pathID parses the :id parameter. A malformed id cannot name any app.
func pathID(c echo.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
