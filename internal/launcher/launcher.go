// Package launcher runs app command lines through the host shell and captures their output.
package launcher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

// ErrStart marks a failure to start the shell process at all.
var ErrStart = errors.New("process could not be started")

const (
	msgSuccess = "Command executed successfully."
	msgFailed  = "Command failed."
)

// Result reports the outcome of a single launch.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Command string `json:"command"`
	Stdout  string `json:"stdout"`
	Stderr  string `json:"stderr"`
}

// Launcher executes command lines through a shell interpreter.
type Launcher struct {
	// Shell is the interpreter binary, ShellArgs precede the command line.
	Shell     string
	ShellArgs []string

	logger *slog.Logger
}

// New returns a launcher using the platform shell: sh -c, or cmd /C on windows.
func New(logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}
	shell, args := "sh", []string{"-c"}
	if runtime.GOOS == "windows" {
		shell, args = "cmd", []string{"/C"}
	}
	return &Launcher{
		Shell:     shell,
		ShellArgs: args,
		logger:    logger.With("component", "launcher"),
	}
}

// Launch hands commandLine to the shell as a single argument and blocks until
// the process exits. A non-zero exit is reported through Result.Success, not err;
// err is non-nil only when the process could not be started.
func (l *Launcher) Launch(ctx context.Context, commandLine string) (Result, error) {
	args := append(append([]string(nil), l.ShellArgs...), commandLine)
	cmd := exec.CommandContext(ctx, l.Shell, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	l.logger.Info("launching", "command", commandLine)
	started := time.Now()

	if err := cmd.Start(); err != nil {
		l.logger.Error("launch failed to start", "command", commandLine, "error", err)
		return Result{
			Success: false,
			Message: fmt.Sprintf("Failed to execute process: %v", err),
			Command: commandLine,
		}, fmt.Errorf("%w: %v", ErrStart, err)
	}

	waitErr := cmd.Wait()
	var exitErr *exec.ExitError
	if waitErr != nil && !errors.As(waitErr, &exitErr) {
		// I/O copy failures still leave us with whatever output was gathered.
		l.logger.Warn("launch wait error", "command", commandLine, "error", waitErr)
	}

	res := Result{
		Success: waitErr == nil && cmd.ProcessState != nil && cmd.ProcessState.Success(),
		Command: commandLine,
		Stdout:  strings.ToValidUTF8(stdout.String(), "\uFFFD"),
		Stderr:  strings.ToValidUTF8(stderr.String(), "\uFFFD"),
	}
	res.Message = msgFailed
	if res.Success {
		res.Message = msgSuccess
	}

	exitCode := -1
	if cmd.ProcessState != nil {
		exitCode = cmd.ProcessState.ExitCode()
	}
	l.logger.Info("launch finished",
		"command", commandLine,
		"exit_code", exitCode,
		"duration", time.Since(started))
	return res, nil
}
