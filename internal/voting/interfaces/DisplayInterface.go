package interfaces

import "context"

// ExclusiveDisplay is the device capability behind fullscreen mode.
type ExclusiveDisplay interface {
	Enter(ctx context.Context, target string) error
	Exit(ctx context.Context) error
	Probe(ctx context.Context) (bool, error)
}

type DisplayControllerInterface interface {
	Enter(ctx context.Context, target string) error
	Exit(ctx context.Context) error
	Retry(ctx context.Context) error
	Release()
	IsExclusive() bool
	Warning() string
	Report(exclusive bool)
}
