package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"appdeck/internal/launcher"
)

// Launch runs the app's command on the server and waits for its result.
// A command that ran but failed is reported through the result, not err.
func (a *App) Launch(ctx context.Context, id uuid.UUID) (launcher.Result, error) {
	var res launcher.Result
	_, err := a.call(ctx, http.MethodPost, "/api/apps/"+id.String()+"/launch", nil, &res)
	if err == nil {
		return res, nil
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.Code == http.StatusInternalServerError {
		// the process could not be started; the body is still a launch result
		if jsonErr := json.Unmarshal(statusErr.Body, &res); jsonErr == nil && res.Message != "" {
			return res, fmt.Errorf("launch %s: %s", id, res.Message)
		}
	}
	return res, fmt.Errorf("launch %s: %w", id, err)
}
