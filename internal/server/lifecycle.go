// Package server manages the process lifecycle: ordered startup of
// long-running services and reverse-ordered shutdown on signal, service
// failure, or context cancellation.
package server

import (
	"context"
	"fmt"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Service is a long-running component. Start blocks until the service
// terminates; Stop asks it to terminate and must be safe to call once
// Start has been invoked.
type Service interface {
	Start() error
	Stop()
}

// FuncService adapts a pair of closures into a Service.
type FuncService struct {
	StartFn func() error
	StopFn  func()
}

func (f *FuncService) Start() error { return f.StartFn() }

func (f *FuncService) Stop() { f.StopFn() }

// Lifecycle starts registered services concurrently and stops them in
// reverse registration order when the process is told to shut down.
type Lifecycle struct {
	logger *zap.Logger

	mu       sync.Mutex
	services []namedService
}

type namedService struct {
	name    string
	service Service
}

// NewLifecycle returns an empty lifecycle.
//
// Precondition: logger must be non-nil.
func NewLifecycle(logger *zap.Logger) *Lifecycle {
	return &Lifecycle{logger: logger}
}

// Add registers a service under name. Registration order determines
// shutdown order (last added stops first).
func (l *Lifecycle) Add(name string, svc Service) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.services = append(l.services, namedService{name: name, service: svc})
}

// Run launches every registered service and blocks until SIGINT, SIGTERM,
// a service failure, or ctx cancellation, then stops all services.
//
// Postcondition: every registered service has had Stop called on return.
func (l *Lifecycle) Run(ctx context.Context) error {
	bootedAt := time.Now()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	failures := make(chan error, len(l.services))
	for _, ns := range l.services {
		ns := ns
		go func() {
			l.logger.Info("service starting", zap.String("service", ns.name))
			if err := ns.service.Start(); err != nil {
				failures <- fmt.Errorf("service %s: %w", ns.name, err)
			}
		}()
	}
	l.logger.Info("boot complete",
		zap.Int("services", len(l.services)),
		zap.Duration("elapsed", time.Since(bootedAt)),
	)

	select {
	case err := <-failures:
		l.logger.Error("service failed, shutting down", zap.Error(err))
	case <-ctx.Done():
		l.logger.Info("shutdown requested")
	}

	l.stopAll()
	l.logger.Info("shutdown complete", zap.Duration("uptime", time.Since(bootedAt)))
	return nil
}

func (l *Lifecycle) stopAll() {
	for i := len(l.services) - 1; i >= 0; i-- {
		ns := l.services[i]
		l.logger.Info("service stopping", zap.String("service", ns.name))
		ns.service.Stop()
		l.logger.Info("service stopped", zap.String("service", ns.name))
	}
}
