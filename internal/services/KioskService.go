package services

import (
	"context"
	"sync"
	"votekiosk/internal/providers"
	"votekiosk/internal/voting/interfaces"

	"go.uber.org/atomic"
)

type KioskServiceInterface interface {
	Restore(ctx context.Context) bool
	Machine() interfaces.MachineInterface
	ReportDisplay(exclusive bool)
	Exclusive() bool
	Resident() bool
	Served() uint64
	Close()
}

// KioskService owns the machine serving the voter at the kiosk. When a voter
// finishes, or the screen is sent back to the start, the machine is replaced
// by a fresh one for the next voter.
type KioskService struct {
	factory interfaces.MachineFactoryInterface
	store   interfaces.SessionStoreInterface
	display interfaces.DisplayControllerInterface
	cache   providers.CacheProviderInterface
	logger  providers.Logger
	served  atomic.Uint64

	mu      sync.Mutex
	current interfaces.MachineInterface
	seq     uint64
	closed  bool
}

// navigator ties exit signals to the machine they came from, so a signal from
// a replaced machine is ignored.
type navigator struct {
	service *KioskService
	seq     uint64
}

func (n navigator) Complete() {
	if n.service.advance(n.seq, "completed") {
		n.service.served.Inc()
	}
}

func (n navigator) RedirectToStart() {
	n.service.advance(n.seq, "sent back to start")
}

// ImageCacheKey is where the decoded photo of a voter session is cached.
func ImageCacheKey(sessionID string) string {
	return "image:" + sessionID
}

func NewKioskService(factory interfaces.MachineFactoryInterface, store interfaces.SessionStoreInterface, display interfaces.DisplayControllerInterface, cache providers.CacheProviderInterface, logger providers.Logger) KioskServiceInterface {
	s := &KioskService{
		factory: factory,
		store:   store,
		display: display,
		cache:   cache,
		logger:  logger,
	}
	s.current = factory.New(navigator{service: s, seq: s.seq})
	return s
}

// Restore resumes a session left behind by a previous run.
func (s *KioskService) Restore(ctx context.Context) bool {
	resumed := s.Machine().Resume(ctx)
	if resumed {
		s.logger.Infof(providers.TypeApp, "Resident voter session restored")
	}
	return resumed
}

func (s *KioskService) Machine() interfaces.MachineInterface {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *KioskService) ReportDisplay(exclusive bool) {
	s.display.Report(exclusive)
}

func (s *KioskService) Exclusive() bool {
	return s.display.IsExclusive()
}

func (s *KioskService) Resident() bool {
	_, ok := s.store.Read()
	return ok
}

func (s *KioskService) Served() uint64 {
	return s.served.Load()
}

func (s *KioskService) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	m := s.current
	s.mu.Unlock()

	m.Close()
}

func (s *KioskService) advance(seq uint64, reason string) bool {
	s.mu.Lock()
	if s.closed || seq != s.seq {
		s.mu.Unlock()
		return false
	}
	old := s.current
	s.seq++
	s.current = s.factory.New(navigator{service: s, seq: s.seq})
	s.mu.Unlock()

	if id := old.View().SessionID; id != "" {
		s.cache.Del(ImageCacheKey(id))
	}
	old.Close()
	s.logger.Infof(providers.TypeApp, "Voter flow %d %s, kiosk ready for the next voter", seq, reason)
	return true
}
