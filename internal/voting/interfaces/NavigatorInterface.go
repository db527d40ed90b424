package interfaces

// NavigatorInterface receives the flow's exit signals.
type NavigatorInterface interface {
	Complete()
	RedirectToStart()
}
