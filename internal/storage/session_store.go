package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"votekiosk/internal/models"
	"votekiosk/internal/providers"
	"votekiosk/internal/storage/interfaces"
	"votekiosk/internal/structures"
	votinginterfaces "votekiosk/internal/voting/interfaces"

	json "github.com/goccy/go-json"
)

// FileSessionStore keeps the single resident voter session in one file.
// Writes replace the whole record atomically (tmp file + rename).
type FileSessionStore struct {
	mu         sync.Mutex
	path       string
	compress   bool
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewFileSessionStore(conf *structures.Config, compressor interfaces.CompressorInterface, logger providers.Logger) votinginterfaces.SessionStoreInterface {
	return &FileSessionStore{
		path:       conf.Session.FilePath,
		compress:   conf.Session.Compress,
		compressor: compressor,
		logger:     logger,
	}
}

func (s *FileSessionStore) Write(session *models.VoterSession) error {
	if session == nil {
		return errors.New("nil session")
	}
	if err := session.Validate(); err != nil {
		return fmt.Errorf("refusing to persist session: %w", err)
	}

	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	if s.compress {
		data, err = s.compressor.Compress(data)
		if err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return err
	}

	tmpFile := s.path + ".tmp"
	file, err := os.OpenFile(tmpFile, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, s.path)
}

// Read returns the resident session. Unreadable or corrupted records are
// logged and reported as absent.
func (s *FileSessionStore) Read() (*models.VoterSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Errorf(providers.TypeSession, "Failed to read session file %s: %s", s.path, err)
		}
		return nil, false
	}

	if isCompressed(data) {
		data, err = s.compressor.Decompress(data)
		if err != nil {
			s.logger.Warnf(providers.TypeSession, "Discarding undecodable session file %s: %s", s.path, err)
			return nil, false
		}
	}

	var session models.VoterSession
	if err := json.Unmarshal(data, &session); err != nil {
		s.logger.Warnf(providers.TypeSession, "Discarding corrupted session file %s: %s", s.path, err)
		return nil, false
	}
	if session.UniqueID == "" || session.ECID == "" {
		s.logger.Warnf(providers.TypeSession, "Discarding session file %s without identifiers", s.path)
		return nil, false
	}
	return &session, true
}

func (s *FileSessionStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	os.Remove(s.path + ".tmp")
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
