package daemon

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the health-checked service registered on the control listener.
const ServiceName = "appdeck.Apps"

const pidFilePrefix = "appdeck"

// RuntimeDir returns the directory holding the pid file.
// Order of precedence (first wins):
// 1) APPDECK_RUNTIME_DIR
// 2) the XDG runtime dir, when it exists
// 3) the OS temp dir
func RuntimeDir() string {
	if rd := os.Getenv("APPDECK_RUNTIME_DIR"); rd != "" {
		return rd
	}
	if info, err := os.Stat(xdg.RuntimeDir); err == nil && info.IsDir() {
		return xdg.RuntimeDir
	}
	return os.TempDir()
}

// PIDPath returns the pid file of the server whose control listener is on controlAddr.
// Servers are told apart by control port, e.g. appdeck-3001.pid.
func PIDPath(controlAddr string) string {
	key := controlAddr
	if _, port, err := net.SplitHostPort(controlAddr); err == nil && port != "" {
		key = port
	}
	key = strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r == '.' {
			return r
		}
		return '_'
	}, key)
	return filepath.Join(RuntimeDir(), pidFilePrefix+"-"+key+".pid")
}

// WritePID stores the provided pid into the pid file for controlAddr
func WritePID(controlAddr string, pid int) error {
	if err := os.MkdirAll(RuntimeDir(), 0o700); err != nil {
		return err
	}
	return os.WriteFile(PIDPath(controlAddr), []byte(fmt.Sprintf("%d\n", pid)), 0o600)
}

// RemovePID removes the pid file for controlAddr if it exists
func RemovePID(controlAddr string) error {
	if err := os.Remove(PIDPath(controlAddr)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}

// RunningPID returns the pid stored in the pid file for controlAddr if any
func RunningPID(controlAddr string) (int, error) {
	data, err := os.ReadFile(PIDPath(controlAddr))
	if err != nil {
		return 0, err
	}
	value := strings.TrimSpace(string(data))
	pid, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return pid, nil
}

// IsRunning reports whether a daemon answers SERVING on the control address.
func IsRunning(controlAddr string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	client, conn, err := Dial(ctx, controlAddr)
	if err != nil {
		return false
	}
	defer conn.Close()

	status, err := Check(ctx, client)
	return err == nil && status == healthpb.HealthCheckResponse_SERVING
}
