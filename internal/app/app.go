package app

import (
	"net/http"
	"strings"
)

// Options configures the top-level controller.
type Options struct {
	// BaseURL is the root of the HTTP API, e.g. http://127.0.0.1:3000.
	BaseURL string
	// ControlAddr is the daemon gRPC control address.
	ControlAddr string
	// HTTPClient overrides the client used for API calls.
	HTTPClient *http.Client
}

// App exposes high-level operations that the CLI/TUI can reuse.
type App struct {
	baseURL     string
	controlAddr string
	http        *http.Client
}

// New constructs the shared controller facade.
func New(opts Options) *App {
	client := opts.HTTPClient
	if client == nil {
		// Launches block until the command exits, so no overall client timeout.
		client = &http.Client{}
	}
	return &App{
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		controlAddr: opts.ControlAddr,
		http:        client,
	}
}

// BaseURL returns the configured API root.
func (a *App) BaseURL() string {
	return a.baseURL
}
