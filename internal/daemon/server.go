package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"appdeck/internal/config"
	"appdeck/internal/httpapi"
	"appdeck/internal/launcher"
	"appdeck/internal/metrics"
	"appdeck/internal/registry"
)

// Server owns the HTTP API listener and the gRPC control listener.
type Server struct {
	api    *httpapi.Server
	grpc   *grpc.Server
	health *health.Server

	httpLn net.Listener
	ctlLn  net.Listener
	// lock guards the data file against a second server on the same host.
	lock *flock.Flock

	shutdownTimeout time.Duration
	logger          *slog.Logger
	done            chan struct{}
	ctlDone         chan struct{}
}

// Start loads the registry, binds both listeners and serves them in the background.
func Start(cfg config.Config, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	lock, err := lockDataFile(cfg.DataFile)
	if err != nil {
		return nil, err
	}

	reg := registry.New(cfg.DataFile, logger)
	api := httpapi.NewServer(reg, launcher.New(logger), httpapi.Options{
		StaticDir: cfg.StaticDir,
		Logger:    logger,
		Metrics:   metrics.New(),
	})

	httpLn, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("listen %s: %w", cfg.ListenAddr, err)
	}
	ctlLn, err := net.Listen("tcp", cfg.ControlAddr)
	if err != nil {
		httpLn.Close()
		_ = lock.Unlock()
		return nil, fmt.Errorf("listen %s: %w", cfg.ControlAddr, err)
	}

	hs := health.NewServer()
	gs := grpc.NewServer()
	healthpb.RegisterHealthServer(gs, hs)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)

	s := &Server{
		api:             api,
		grpc:            gs,
		health:          hs,
		httpLn:          httpLn,
		ctlLn:           ctlLn,
		lock:            lock,
		shutdownTimeout: cfg.ShutdownTimeout,
		logger:          logger.With("component", "daemon"),
		done:            make(chan struct{}),
		ctlDone:         make(chan struct{}),
	}
	if err := WritePID(s.ControlAddr(), os.Getpid()); err != nil {
		httpLn.Close()
		ctlLn.Close()
		_ = lock.Unlock()
		return nil, err
	}

	go func() {
		defer close(s.done)
		if err := api.Serve(httpLn); err != nil {
			s.logger.Error("http server stopped", "error", err)
		}
	}()
	go func() {
		defer close(s.ctlDone)
		if err := gs.Serve(ctlLn); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			s.logger.Error("control server stopped", "error", err)
		}
	}()

	s.logger.Info("daemon started",
		"http", httpLn.Addr().String(),
		"control", ctlLn.Addr().String(),
		"data_file", cfg.DataFile)
	return s, nil
}

// HTTPAddr is the bound address of the API listener.
func (s *Server) HTTPAddr() string { return s.httpLn.Addr().String() }

// ControlAddr is the bound address of the gRPC control listener.
func (s *Server) ControlAddr() string { return s.ctlLn.Addr().String() }

// Close stops both listeners and removes the pid file
func (s *Server) Close() error {
	s.health.Shutdown()

	timeout := s.shutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var errs []error
	if err := s.api.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	select {
	case <-s.done:
	case <-ctx.Done():
	}
	// Shutdown only closes the listener if Serve already picked it up.
	_ = s.httpLn.Close()
	s.grpc.GracefulStop()
	<-s.ctlDone

	if err := RemovePID(s.ControlAddr()); err != nil {
		errs = append(errs, err)
	}
	if err := s.lock.Unlock(); err != nil {
		errs = append(errs, err)
	}
	s.logger.Info("daemon stopped")
	return errors.Join(errs...)
}

func lockDataFile(dataFile string) (*flock.Flock, error) {
	if dir := filepath.Dir(dataFile); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	lock := flock.New(dataFile + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", lock.Path(), err)
	}
	if !locked {
		return nil, fmt.Errorf("data file %s is in use by another appdeck server", dataFile)
	}
	return lock, nil
}

// Grace periods used by StopRunningDaemon.
var (
	termTimeout = 3 * time.Second
	killTimeout = 2 * time.Second
)

// StopRunningDaemon signals the server whose control listener is on controlAddr.
// It sends SIGTERM and, when force is set and the process outlives termTimeout, SIGKILL.
func StopRunningDaemon(controlAddr string, force bool) error {
	pid, err := RunningPID(controlAddr)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if IsRunning(controlAddr) {
				return fmt.Errorf("daemon is running but PID file %q is missing; stop it manually", PIDPath(controlAddr))
			}
			return nil
		}
		return fmt.Errorf("unable to read daemon PID: %w", err)
	}
	if pid == os.Getpid() {
		return errors.New("refusing to stop current process")
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	if err := sendSignal(controlAddr, proc, syscall.SIGTERM); err != nil {
		return err
	}
	if waitForShutdown(controlAddr, proc, termTimeout) {
		return nil
	}
	if !force {
		return fmt.Errorf("daemon process %d did not exit after SIGTERM", pid)
	}
	if err := sendSignal(controlAddr, proc, syscall.SIGKILL); err != nil {
		return err
	}
	if waitForShutdown(controlAddr, proc, killTimeout) {
		return nil
	}
	return fmt.Errorf("daemon process %d did not exit after SIGKILL", pid)
}

func sendSignal(controlAddr string, proc *os.Process, sig syscall.Signal) error {
	if err := proc.Signal(sig); err != nil {
		if errors.Is(err, os.ErrProcessDone) {
			_ = RemovePID(controlAddr)
			return nil
		}
		return err
	}
	return nil
}

// waitForShutdown waits until the process is gone and nothing answers on controlAddr.
func waitForShutdown(controlAddr string, proc *os.Process, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		if !processAlive(proc) && !IsRunning(controlAddr) {
			_ = RemovePID(controlAddr)
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(100 * time.Millisecond)
	}
}

func processAlive(proc *os.Process) bool {
	return proc.Signal(syscall.Signal(0)) == nil
}
