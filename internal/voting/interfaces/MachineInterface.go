package interfaces

import (
	"context"
	"votekiosk/internal/models"
)

// MachineInterface is one voter's pass through the kiosk flow.
type MachineInterface interface {
	Resume(ctx context.Context) bool
	Begin(uniqueID, ecID string) error
	CaptureAndVerify(ctx context.Context, source VideoSource) error
	Ballot() ([]models.PartyCandidate, error)
	Vote(ctx context.Context, partyID int) error
	RetryDisplay(ctx context.Context) error
	Image() (string, bool)
	View() models.FlowView
	Close()
}

// MachineFactoryInterface builds a fresh machine reporting to nav.
type MachineFactoryInterface interface {
	New(nav NavigatorInterface) MachineInterface
}
