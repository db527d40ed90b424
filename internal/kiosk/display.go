package kiosk

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"votekiosk/internal/providers"
	"votekiosk/internal/structures"
	"votekiosk/internal/voting/interfaces"
)

var ErrProbeUnsupported = errors.New("display probe not supported")

// CommandDisplay drives the kiosk window through operator-configured commands.
// The literal {target} in an argument is replaced by the requested target.
type CommandDisplay struct {
	enter  []string
	exit   []string
	probe  []string
	logger providers.Logger
}

type noopDisplay struct{}

func (noopDisplay) Enter(_ context.Context, _ string) error { return nil }
func (noopDisplay) Exit(_ context.Context) error            { return nil }
func (noopDisplay) Probe(_ context.Context) (bool, error)   { return false, ErrProbeUnsupported }

func NewExclusiveDisplay(conf *structures.Config, logger providers.Logger) interfaces.ExclusiveDisplay {
	if len(conf.Display.EnterCommand) == 0 {
		logger.Infof(providers.TypeDisplay, "No display commands configured, exclusive mode is left to the browser")
		return noopDisplay{}
	}
	return &CommandDisplay{
		enter:  conf.Display.EnterCommand,
		exit:   conf.Display.ExitCommand,
		probe:  conf.Display.ProbeCommand,
		logger: logger,
	}
}

func (d *CommandDisplay) Enter(ctx context.Context, target string) error {
	return d.run(ctx, d.enter, target)
}

func (d *CommandDisplay) Exit(ctx context.Context) error {
	if len(d.exit) == 0 {
		return nil
	}
	return d.run(ctx, d.exit, "")
}

// Probe reports whether the window currently holds the display. A non-zero
// exit status of the probe command means it does not.
func (d *CommandDisplay) Probe(ctx context.Context) (bool, error) {
	if len(d.probe) == 0 {
		return false, ErrProbeUnsupported
	}
	err := d.run(ctx, d.probe, "")
	if err == nil {
		return true, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return false, nil
	}
	return false, err
}

func (d *CommandDisplay) run(ctx context.Context, command []string, target string) error {
	args := make([]string, len(command)-1)
	for i, arg := range command[1:] {
		args[i] = strings.ReplaceAll(arg, "{target}", target)
	}
	out, err := exec.CommandContext(ctx, command[0], args...).CombinedOutput()
	if err != nil {
		d.logger.Debugf(providers.TypeDisplay, "%s: %s: %s", command[0], err, strings.TrimSpace(string(out)))
		return fmt.Errorf("%s: %w", command[0], err)
	}
	return nil
}
