package kiosk

import (
	"context"
	"errors"
	"time"
	"votekiosk/internal/kiosk/interfaces"
	"votekiosk/internal/providers"
	"votekiosk/internal/structures"
	votinginterfaces "votekiosk/internal/voting/interfaces"

	"github.com/roylee0704/gron"
)

// Watchdog polls the display probe and feeds changes into the controller.
type Watchdog struct {
	interval   time.Duration
	display    votinginterfaces.ExclusiveDisplay
	controller votinginterfaces.DisplayControllerInterface
	logger     providers.Logger
	cron       *gron.Cron
}

func NewWatchdog(conf *structures.Config, display votinginterfaces.ExclusiveDisplay, controller votinginterfaces.DisplayControllerInterface, logger providers.Logger) interfaces.WatchdogInterface {
	return &Watchdog{
		interval:   conf.Display.WatchInterval,
		display:    display,
		controller: controller,
		logger:     logger,
	}
}

func (w *Watchdog) Init() {
	if w.interval <= 0 {
		return
	}
	w.cron = gron.New()
	w.cron.AddFunc(gron.Every(w.interval), func() {
		ctx, cancel := context.WithTimeout(context.Background(), w.interval)
		defer cancel()
		w.Check(ctx)
	})
	w.cron.Start()
	w.logger.Infof(providers.TypeDisplay, "Display watchdog started, interval %s", w.interval)
}

func (w *Watchdog) Stop() {
	if w.cron != nil {
		w.cron.Stop()
	}
}

// Check runs one probe.
func (w *Watchdog) Check(ctx context.Context) {
	exclusive, err := w.display.Probe(ctx)
	if errors.Is(err, ErrProbeUnsupported) {
		return
	}
	if err != nil {
		w.logger.Errorf(providers.TypeDisplay, "Display probe failed: %s", err)
		return
	}
	if exclusive != w.controller.IsExclusive() {
		w.controller.Report(exclusive)
	}
}
