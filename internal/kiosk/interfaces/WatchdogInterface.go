package interfaces

type WatchdogInterface interface {
	Init()
	Stop()
}
