package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"appdeck/internal/daemon"
)

// ErrNotFound is returned when the server does not know the requested app.
var ErrNotFound = errors.New("app not found")

var (
	daemonIsRunning = daemon.IsRunning
	checkControl    = checkViaDaemon
)

func resetDaemonDeps() {
	daemonIsRunning = daemon.IsRunning
	checkControl = checkViaDaemon
}

func checkViaDaemon(ctx context.Context, addr string) (string, error) {
	client, conn, err := daemon.Dial(ctx, addr)
	if err != nil {
		return "", err
	}
	defer conn.Close()
	status, err := daemon.Check(ctx, client)
	if err != nil {
		return "", err
	}
	return status.String(), nil
}

// apiError is the JSON error body written by the server.
type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// call performs one API request. in is JSON-encoded when non-nil, out is decoded when non-nil.
func (a *App) call(ctx context.Context, method, path string, in, out any) (int, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return 0, err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, body)
	if err != nil {
		return 0, err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("contact server: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return resp.StatusCode, ErrNotFound
	}
	if resp.StatusCode >= 400 {
		return resp.StatusCode, &StatusError{Code: resp.StatusCode, Body: raw}
	}
	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

// StatusError is a non-2xx answer from the server other than 404.
type StatusError struct {
	Code int
	Body []byte
}

func (e *StatusError) Error() string {
	var body apiError
	if err := json.Unmarshal(e.Body, &body); err == nil && body.Message != "" {
		return fmt.Sprintf("server returned %d: %s", e.Code, body.Message)
	}
	return fmt.Sprintf("server returned %d", e.Code)
}
