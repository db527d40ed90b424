package interfaces

import "time"

type Timer interface {
	Stop() bool
}

type SchedulerInterface interface {
	AfterFunc(d time.Duration, fn func()) Timer
}
