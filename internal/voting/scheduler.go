package voting

import (
	"time"
	"votekiosk/internal/voting/interfaces"
)

type clockScheduler struct{}

// NewScheduler returns the wall-clock scheduler used for dwell timers.
func NewScheduler() interfaces.SchedulerInterface {
	return clockScheduler{}
}

func (clockScheduler) AfterFunc(d time.Duration, fn func()) interfaces.Timer {
	return time.AfterFunc(d, fn)
}
