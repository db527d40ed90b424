package interfaces

import "votekiosk/internal/models"

// SessionStoreInterface persists the single resident voter session of the device.
type SessionStoreInterface interface {
	Write(session *models.VoterSession) error
	Read() (*models.VoterSession, bool)
	Clear() error
}
