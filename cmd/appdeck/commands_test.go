package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"appdeck/internal/app"
	"appdeck/internal/config"
	"appdeck/internal/daemon"
	"appdeck/internal/launcher"
	"appdeck/internal/registry"
)

type stubController struct {
	pingFunc   func(ctx context.Context, timeout time.Duration) (string, error)
	apps       []registry.App
	created    []app.AppInput
	updated    map[uuid.UUID]app.AppInput
	deleted    []uuid.UUID
	launchFunc func(id uuid.UUID) (launcher.Result, error)
	status     app.DaemonStatus
	statusErr  error
	stopErr    error
	stopCalls  []bool
}

func (s *stubController) Ping(ctx context.Context, timeout time.Duration) (string, error) {
	if s.pingFunc != nil {
		return s.pingFunc(ctx, timeout)
	}
	return "", errors.New("ping not implemented")
}

func (s *stubController) List(ctx context.Context) ([]registry.App, error) {
	return s.apps, nil
}

func (s *stubController) Create(ctx context.Context, in app.AppInput) (registry.App, error) {
	s.created = append(s.created, in)
	return registry.App{ID: uuid.New(), Name: in.Name, Command: in.Command}, nil
}

func (s *stubController) Update(ctx context.Context, id uuid.UUID, in app.AppInput) error {
	if s.updated == nil {
		s.updated = map[uuid.UUID]app.AppInput{}
	}
	s.updated[id] = in
	return nil
}

func (s *stubController) Delete(ctx context.Context, id uuid.UUID) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubController) Find(ctx context.Context, id uuid.UUID) (registry.App, error) {
	for _, a := range s.apps {
		if a.ID == id {
			return a, nil
		}
	}
	return registry.App{}, app.ErrNotFound
}

func (s *stubController) Launch(ctx context.Context, id uuid.UUID) (launcher.Result, error) {
	if s.launchFunc != nil {
		return s.launchFunc(id)
	}
	panic("Launch not implemented")
}

func (s *stubController) Status() (app.DaemonStatus, error) {
	return s.status, s.statusErr
}

func (s *stubController) StopDaemon(force bool) error {
	s.stopCalls = append(s.stopCalls, force)
	return s.stopErr
}

func withController(t *testing.T, stub controllerAPI) {
	t.Helper()
	origFactory := controllerFactory
	controllerFactory = func() controllerAPI {
		return stub
	}
	t.Cleanup(func() {
		controllerFactory = origFactory
	})
}

// withOutput captures stdout and stderr of cmd for the duration of the test.
func withOutput(t *testing.T, cmd *cobra.Command) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetContext(context.Background())
	t.Cleanup(func() {
		cmd.SetOut(nil)
		cmd.SetErr(nil)
	})
	return out, errOut
}

func TestPingSuccess(t *testing.T) {
	withController(t, &stubController{
		pingFunc: func(ctx context.Context, timeout time.Duration) (string, error) {
			assert.Equal(t, 2*time.Second, timeout)
			return "SERVING", nil
		},
	})
	buf, _ := withOutput(t, cmdPing)

	oldTimeout := pingTimeoutSeconds
	pingTimeoutSeconds = 2
	t.Cleanup(func() { pingTimeoutSeconds = oldTimeout })

	require.NoError(t, cmdPing.RunE(cmdPing, nil))
	assert.Equal(t, "SERVING\n", buf.String())
}

func TestPingError(t *testing.T) {
	expected := errors.New("daemon down")
	withController(t, &stubController{
		pingFunc: func(ctx context.Context, timeout time.Duration) (string, error) {
			return "", expected
		},
	})
	withOutput(t, cmdPing)

	err := cmdPing.RunE(cmdPing, nil)
	assert.ErrorIs(t, err, expected)
}

func TestListPrintsApps(t *testing.T) {
	id := uuid.MustParse("3f1c0b9e-7a51-4c1e-9a8e-2a6f1f0e7d11")
	withController(t, &stubController{apps: []registry.App{
		{ID: id, Name: "Terminal", Command: "xterm", URL: "https://example.org"},
	}})
	buf, _ := withOutput(t, cmdList)

	require.NoError(t, cmdList.RunE(cmdList, nil))
	assert.Equal(t, "[id="+id.String()+"] name=Terminal cmd=xterm url=https://example.org\n", buf.String())
}

func TestListEmpty(t *testing.T) {
	withController(t, &stubController{})
	buf, _ := withOutput(t, cmdList)

	require.NoError(t, cmdList.RunE(cmdList, nil))
	assert.Equal(t, "No apps registered\n", buf.String())
}

func TestAddSendsFlags(t *testing.T) {
	stub := &stubController{}
	withController(t, stub)
	buf, _ := withOutput(t, cmdAdd)

	require.NoError(t, cmdAdd.Flags().Set("name", "Hello"))
	require.NoError(t, cmdAdd.Flags().Set("command", "echo hello"))
	require.NoError(t, cmdAdd.Flags().Set("description", "greets"))

	require.NoError(t, cmdAdd.RunE(cmdAdd, nil))
	require.Len(t, stub.created, 1)
	got := stub.created[0]
	assert.Equal(t, "Hello", got.Name)
	assert.Equal(t, "echo hello", got.Command)
	require.NotNil(t, got.Description)
	assert.Equal(t, "greets", *got.Description)
	assert.Contains(t, buf.String(), "name=Hello")
}

func TestEditKeepsUnchangedFields(t *testing.T) {
	id := uuid.New()
	desc := "old description"
	stub := &stubController{apps: []registry.App{
		{ID: id, Name: "Old", Description: &desc, Command: "true", URL: "https://old"},
	}}
	withController(t, stub)
	withOutput(t, cmdEdit)

	require.NoError(t, cmdEdit.Flags().Set("command", "false"))
	require.NoError(t, cmdEdit.RunE(cmdEdit, []string{id.String()}))

	got, ok := stub.updated[id]
	require.True(t, ok)
	assert.Equal(t, "Old", got.Name)
	assert.Equal(t, "false", got.Command)
	assert.Equal(t, "https://old", got.URL)
	require.NotNil(t, got.Description)
	assert.Equal(t, desc, *got.Description)
}

func TestEditUnknownApp(t *testing.T) {
	withController(t, &stubController{})
	withOutput(t, cmdEdit)

	err := cmdEdit.RunE(cmdEdit, []string{uuid.NewString()})
	assert.ErrorIs(t, err, app.ErrNotFound)
}

func TestRmRejectsMalformedID(t *testing.T) {
	stub := &stubController{}
	withController(t, stub)
	withOutput(t, cmdRm)

	err := cmdRm.RunE(cmdRm, []string{"not-a-uuid"})
	assert.ErrorContains(t, err, "invalid app id")
	assert.Empty(t, stub.deleted)
}

func TestLaunchPrintsOutput(t *testing.T) {
	withController(t, &stubController{
		launchFunc: func(uuid.UUID) (launcher.Result, error) {
			return launcher.Result{Success: true, Message: "Command executed successfully.", Command: "echo hi", Stdout: "hi\n"}, nil
		},
	})
	buf, _ := withOutput(t, cmdLaunch)
	launchQuiet = true
	t.Cleanup(func() { launchQuiet = false })

	require.NoError(t, cmdLaunch.RunE(cmdLaunch, []string{uuid.NewString()}))
	assert.Equal(t, "$ echo hi\nhi\n", buf.String())
}

func TestLaunchFailedCommand(t *testing.T) {
	withController(t, &stubController{
		launchFunc: func(uuid.UUID) (launcher.Result, error) {
			return launcher.Result{Message: "Command failed.", Command: "false", Stderr: "boom"}, nil
		},
	})
	_, errOut := withOutput(t, cmdLaunch)
	launchQuiet = true
	t.Cleanup(func() { launchQuiet = false })

	err := cmdLaunch.RunE(cmdLaunch, []string{uuid.NewString()})
	assert.ErrorIs(t, err, errCommandFailed)
	assert.Equal(t, "boom\n[Exit Status: Failed] Command failed.\n", errOut.String())
}

func TestStopPassesForce(t *testing.T) {
	stub := &stubController{}
	withController(t, stub)
	buf, _ := withOutput(t, cmdStop)

	require.NoError(t, cmdStop.Flags().Set("force", "true"))
	t.Cleanup(func() { stopForce = false })

	require.NoError(t, cmdStop.RunE(cmdStop, nil))
	assert.Equal(t, []bool{true}, stub.stopCalls)
	assert.Equal(t, "Server stopped\n", buf.String())
}

func TestStopError(t *testing.T) {
	expected := errors.New("did not exit")
	withController(t, &stubController{stopErr: expected})
	buf, _ := withOutput(t, cmdStop)

	assert.ErrorIs(t, cmdStop.RunE(cmdStop, nil), expected)
	assert.Empty(t, buf.String())
}

func TestStatusOutput(t *testing.T) {
	oldCfg := cfg
	cfg = config.Default()
	t.Cleanup(func() { cfg = oldCfg })

	tests := []struct {
		name    string
		stub    *stubController
		want    string
		wantErr bool
	}{
		{
			name: "not running",
			stub: &stubController{},
			want: "Server is not running\n",
		},
		{
			name: "running with pid",
			stub: &stubController{status: app.DaemonStatus{Running: true, PID: 42}},
			want: "Server is running (pid 42) at http://127.0.0.1:3000\n",
		},
		{
			name: "running without pid file",
			stub: &stubController{status: app.DaemonStatus{Running: true}, statusErr: errors.New("no pid file")},
			want: "Server is running at http://127.0.0.1:3000\nPID unavailable: no pid file\n",
		},
		{
			name:    "status failure",
			stub:    &stubController{statusErr: errors.New("boom")},
			want:    "Server is not running\n",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withController(t, tt.stub)
			buf, _ := withOutput(t, cmdStatus)

			err := cmdStatus.RunE(cmdStatus, nil)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestServeWhenAlreadyRunning(t *testing.T) {
	t.Setenv("APPDECK_RUNTIME_DIR", t.TempDir())
	running := config.Default()
	running.ListenAddr = "127.0.0.1:0"
	running.ControlAddr = "127.0.0.1:0"
	running.DataFile = filepath.Join(t.TempDir(), "apps.json")
	running.StaticDir = ""
	srv, err := daemon.Start(running, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { srv.Close() })

	oldCfg := cfg
	cfg = running
	cfg.ControlAddr = srv.ControlAddr()
	t.Cleanup(func() { cfg = oldCfg })
	buf, _ := withOutput(t, cmdServe)

	require.NoError(t, cmdServe.RunE(cmdServe, nil))
	assert.Equal(t, fmt.Sprintf("Server is already running (pid %d). Stop it with `appdeck stop` or re-run with --force.\n", os.Getpid()), buf.String())
}

func TestConfigFlagNamesEveryFormat(t *testing.T) {
	usage := rootCmd.PersistentFlags().Lookup("config").Usage
	for _, format := range []string{"JSON", "TOML", "YAML"} {
		assert.Contains(t, usage, format)
	}
}
