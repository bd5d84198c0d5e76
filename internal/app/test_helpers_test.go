package app

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"appdeck/internal/httpapi"
	"appdeck/internal/launcher"
	"appdeck/internal/registry"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestApp serves a real API over httptest and returns a controller pointed at it.
func newTestApp(t *testing.T) (*App, *registry.Registry) {
	t.Helper()
	reg := registry.New(filepath.Join(t.TempDir(), "apps.json"), quietLogger())
	api := httpapi.NewServer(reg, launcher.New(quietLogger()), httpapi.Options{Logger: quietLogger()})
	ts := httptest.NewServer(api.Handler())
	t.Cleanup(ts.Close)
	return New(Options{BaseURL: ts.URL + "/", ControlAddr: "127.0.0.1:0"}), reg
}

func stubDaemon(t *testing.T, running bool, check func(context.Context, string) (string, error)) {
	t.Helper()
	resetDaemonDeps()
	daemonIsRunning = func(string) bool { return running }
	if check != nil {
		checkControl = check
	}
	t.Cleanup(resetDaemonDeps)
}
