package kiosk

import (
	"context"
	"fmt"
	"sync"
	"time"
	"votekiosk/internal/models"
	"votekiosk/internal/providers"
	"votekiosk/internal/structures"
	"votekiosk/internal/voting/interfaces"

	"go.uber.org/atomic"
)

const (
	releaseTimeout = 5 * time.Second
	lostWarning    = "Fullscreen mode was exited. You can still vote."
)

// Controller tracks whether the voting screen holds exclusive display.
// A failed request is only a warning; the flow never blocks on it.
type Controller struct {
	display   interfaces.ExclusiveDisplay
	logger    providers.Logger
	metrics   providers.MetricsProviderInterface
	exclusive atomic.Bool

	mu      sync.Mutex
	target  string
	warning string
}

func NewKioskModeController(conf *structures.Config, display interfaces.ExclusiveDisplay, logger providers.Logger, metrics providers.MetricsProviderInterface) interfaces.DisplayControllerInterface {
	return &Controller{
		display: display,
		logger:  logger,
		metrics: metrics,
		target:  conf.Display.Target,
	}
}

func (c *Controller) Enter(ctx context.Context, target string) error {
	c.mu.Lock()
	if target != "" {
		c.target = target
	}
	target = c.target
	c.mu.Unlock()

	if err := c.display.Enter(ctx, target); err != nil {
		c.exclusive.Store(false)
		c.setWarning(fmt.Sprintf("Fullscreen request failed: %s", err))
		c.metrics.IncDisplayFailures()
		c.logger.Warnf(providers.TypeDisplay, "Exclusive display for %s failed: %s", target, err)
		return fmt.Errorf("%w: %s", models.ErrDisplayExclusivityFailed, err)
	}

	c.exclusive.Store(true)
	c.setWarning("")
	c.logger.Infof(providers.TypeDisplay, "Exclusive display entered for %s", target)
	return nil
}

// Retry repeats the last request; it backs the manual retry control.
func (c *Controller) Retry(ctx context.Context) error {
	return c.Enter(ctx, "")
}

func (c *Controller) Exit(ctx context.Context) error {
	if !c.exclusive.CompareAndSwap(true, false) {
		return nil
	}
	if err := c.display.Exit(ctx); err != nil {
		c.logger.Errorf(providers.TypeDisplay, "Leaving exclusive display failed: %s", err)
		return err
	}
	c.logger.Infof(providers.TypeDisplay, "Exclusive display released")
	return nil
}

// Release gives up exclusive display on any exit path. Safe to call repeatedly.
func (c *Controller) Release() {
	ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
	defer cancel()
	_ = c.Exit(ctx)
	c.setWarning("")
}

func (c *Controller) IsExclusive() bool {
	return c.exclusive.Load()
}

func (c *Controller) Warning() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.warning
}

// Report records a display change observed outside the controller.
func (c *Controller) Report(exclusive bool) {
	was := c.exclusive.Swap(exclusive)
	switch {
	case exclusive:
		c.setWarning("")
	case was:
		c.setWarning(lostWarning)
		c.logger.Warnf(providers.TypeDisplay, "Exclusive display lost")
	}
}

func (c *Controller) setWarning(w string) {
	c.mu.Lock()
	c.warning = w
	c.mu.Unlock()
}
