package interfaces

import (
	"context"
	"votekiosk/internal/models"
)

type VerificationClientInterface interface {
	Verify(ctx context.Context, uniqueID, ecID string, image []byte) models.Outcome
}

// VoteSubmitterInterface performs no idempotency bookkeeping; callers guard re-entry.
type VoteSubmitterInterface interface {
	Submit(ctx context.Context, uniqueID, ecID string, partyID int) models.Outcome
}
