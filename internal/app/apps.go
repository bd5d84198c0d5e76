package app

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"appdeck/internal/registry"
)

// AppInput carries the user-editable fields of an app.
type AppInput struct {
	ID          string  `json:"id,omitempty"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Command     string  `json:"command"`
	URL         string  `json:"url"`
}

func (in AppInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("name must not be empty")
	}
	if strings.TrimSpace(in.Command) == "" {
		return fmt.Errorf("command must not be empty")
	}
	return nil
}

// List fetches every registered app in insertion order.
func (a *App) List(ctx context.Context) ([]registry.App, error) {
	var apps []registry.App
	if _, err := a.call(ctx, http.MethodGet, "/api/apps", nil, &apps); err != nil {
		return nil, fmt.Errorf("list apps: %w", err)
	}
	return apps, nil
}

// Create registers a new app and returns it with its assigned id.
func (a *App) Create(ctx context.Context, in AppInput) (registry.App, error) {
	var stored registry.App
	if err := in.validate(); err != nil {
		return stored, err
	}
	if in.ID != "" {
		if _, err := uuid.Parse(in.ID); err != nil {
			return stored, fmt.Errorf("invalid id %q: %w", in.ID, err)
		}
	}
	if _, err := a.call(ctx, http.MethodPost, "/api/apps", in, &stored); err != nil {
		return stored, fmt.Errorf("create app: %w", err)
	}
	return stored, nil
}

// Update replaces the editable fields of the app with the given id.
func (a *App) Update(ctx context.Context, id uuid.UUID, in AppInput) error {
	if err := in.validate(); err != nil {
		return err
	}
	in.ID = ""
	if _, err := a.call(ctx, http.MethodPut, "/api/apps/"+id.String(), in, nil); err != nil {
		return fmt.Errorf("update app %s: %w", id, err)
	}
	return nil
}

// Delete removes the app with the given id.
func (a *App) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := a.call(ctx, http.MethodDelete, "/api/apps/"+id.String(), nil, nil); err != nil {
		return fmt.Errorf("delete app %s: %w", id, err)
	}
	return nil
}

// Find returns the app with the given id from a fresh listing.
func (a *App) Find(ctx context.Context, id uuid.UUID) (registry.App, error) {
	apps, err := a.List(ctx)
	if err != nil {
		return registry.App{}, err
	}
	for _, app := range apps {
		if app.ID == id {
			return app, nil
		}
	}
	return registry.App{}, ErrNotFound
}
