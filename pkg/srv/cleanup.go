package srv

import "context"

type cleanupService struct {
	cleanup func() error
}

func (c *cleanupService) Start(ctx context.Context) error {
	return nil
}

func (c *cleanupService) Shutdown(ctx context.Context) error {
	if c.cleanup != nil {
		return c.cleanup()
	}
	return nil
}

// NewCleanup wraps a close func so it runs at shutdown.
func NewCleanup(fn func() error) Service {
	return &cleanupService{cleanup: fn}
}

type stopOnExit struct {
	Service
	stop context.CancelFunc
}

func (s *stopOnExit) Start(ctx context.Context) error {
	defer s.stop()
	return s.Service.Start(ctx)
}

// StopOnExit cancels the process context once s.Start returns, e.g. when
// the operator leaves the console.
func StopOnExit(s Service, stop context.CancelFunc) Service {
	return &stopOnExit{Service: s, stop: stop}
}
