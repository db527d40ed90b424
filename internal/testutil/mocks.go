package testutil

import (
	"context"
	"sync"
	"time"
	"votekiosk/internal/models"
	"votekiosk/internal/providers"
	"votekiosk/internal/voting/interfaces"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Count returns the number of entries logged at the given level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.Logs {
		if e.Level == level {
			n++
		}
	}
	return n
}

// MockMetrics implements providers.MetricsProviderInterface.
type MockMetrics struct {
	mu              sync.Mutex
	Verifications   map[string]int
	Votes           map[string]int
	Transitions     []string
	DisplayFailures int
	CacheHits       map[string]int
	CacheMisses     map[string]int
	CacheEvictions  map[string]int
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) ObserveBackendDuration(_ string, _ time.Duration) {}

func (m *MockMetrics) IncCacheHits(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits = incKey(m.CacheHits, kind)
}

func (m *MockMetrics) IncCacheMisses(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses = incKey(m.CacheMisses, kind)
}

func (m *MockMetrics) IncCacheEvictions(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheEvictions = incKey(m.CacheEvictions, kind)
}

func incKey(counts map[string]int, key string) map[string]int {
	if counts == nil {
		counts = make(map[string]int)
	}
	counts[key]++
	return counts
}

func (m *MockMetrics) IncVerifications(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Verifications == nil {
		m.Verifications = make(map[string]int)
	}
	m.Verifications[outcome]++
}

func (m *MockMetrics) IncVotes(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Votes == nil {
		m.Votes = make(map[string]int)
	}
	m.Votes[outcome]++
}

func (m *MockMetrics) IncTransitions(from, to string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Transitions = append(m.Transitions, from+"->"+to)
}

func (m *MockMetrics) IncDisplayFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DisplayFailures++
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

func (m *MockCache) Del(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Data, key)
}

// MockCompressor implements the storage compressor with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
	Closed       bool
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	// Default: return as-is (identity)
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() { m.Closed = true }

// MemorySessionStore implements the session store contract in memory.
type MemorySessionStore struct {
	mu         sync.Mutex
	Session    *models.VoterSession
	Writes     int
	Clears     int
	WriteErr   error
	ClearErr   error
	WriteLog   []models.VoterSession
	ClearedAt  int
	operations int
}

func (m *MemorySessionStore) Write(session *models.VoterSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.operations++
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.Writes++
	m.Session = session.Clone()
	m.WriteLog = append(m.WriteLog, *session)
	return nil
}

func (m *MemorySessionStore) Read() (*models.VoterSession, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Session == nil {
		return nil, false
	}
	return m.Session.Clone(), true
}

func (m *MemorySessionStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.operations++
	if m.ClearErr != nil {
		return m.ClearErr
	}
	m.Clears++
	m.ClearedAt = m.operations
	m.Session = nil
	return nil
}

// Resident reports whether a session is currently stored.
func (m *MemorySessionStore) Resident() bool {
	_, ok := m.Read()
	return ok
}

// MockCaptureGate returns a fixed frame or error.
type MockCaptureGate struct {
	mu    sync.Mutex
	Frame models.Frame
	Err   error
	Calls int
}

func (m *MockCaptureGate) Capture(_ context.Context, _ interfaces.VideoSource) (models.Frame, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	if m.Err != nil {
		return models.Frame{}, m.Err
	}
	return m.Frame, nil
}

// StaticFrameSource yields fixed bytes.
type StaticFrameSource []byte

func (s StaticFrameSource) Frame(_ context.Context) ([]byte, error) {
	return []byte(s), nil
}

// MockVerifier returns scripted outcomes in order; the last one repeats.
// When Gate is set, Verify blocks until a value is received or ctx ends.
type MockVerifier struct {
	mu       sync.Mutex
	Outcomes []models.Outcome
	Calls    []VerifyCall
	Gate     chan struct{}
	Entered  chan struct{}
}

type VerifyCall struct {
	UniqueID string
	ECID     string
	Image    []byte
}

func (m *MockVerifier) Verify(ctx context.Context, uniqueID, ecID string, image []byte) models.Outcome {
	m.mu.Lock()
	m.Calls = append(m.Calls, VerifyCall{UniqueID: uniqueID, ECID: ecID, Image: image})
	n := len(m.Calls)
	gate, entered := m.Gate, m.Entered
	m.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return models.TransportError("Face verification failed", ctx.Err())
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return nextOutcome(m.Outcomes, n)
}

func (m *MockVerifier) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// MockSubmitter returns scripted outcomes in order; the last one repeats.
// When Gate is set, Submit blocks until a value is received or ctx ends;
// with IgnoreContext it waits for Gate alone, like a backend that already
// committed the vote.
type MockSubmitter struct {
	mu            sync.Mutex
	Outcomes      []models.Outcome
	Calls         []SubmitCall
	Gate          chan struct{}
	Entered       chan struct{}
	IgnoreContext bool
}

type SubmitCall struct {
	UniqueID string
	ECID     string
	PartyID  int
}

func (m *MockSubmitter) Submit(ctx context.Context, uniqueID, ecID string, partyID int) models.Outcome {
	m.mu.Lock()
	m.Calls = append(m.Calls, SubmitCall{UniqueID: uniqueID, ECID: ecID, PartyID: partyID})
	n := len(m.Calls)
	gate, entered, ignore := m.Gate, m.Entered, m.IgnoreContext
	m.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if gate != nil && ignore {
		<-gate
	} else if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return models.TransportError("Voting failed. Please try again.", ctx.Err())
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return nextOutcome(m.Outcomes, n)
}

func (m *MockSubmitter) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

func nextOutcome(outcomes []models.Outcome, call int) models.Outcome {
	if len(outcomes) == 0 {
		return models.Success("ok")
	}
	if call > len(outcomes) {
		return outcomes[len(outcomes)-1]
	}
	return outcomes[call-1]
}

// MockDisplayController records exclusive display requests.
type MockDisplayController struct {
	mu        sync.Mutex
	EnterErr  error
	Enters    int
	Exits     int
	Releases  int
	Retries   int
	Targets   []string
	exclusive bool
	warning   string
	Events    []string
}

func (m *MockDisplayController) Enter(_ context.Context, target string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Enters++
	m.Targets = append(m.Targets, target)
	m.Events = append(m.Events, "enter")
	if m.EnterErr != nil {
		m.warning = m.EnterErr.Error()
		return m.EnterErr
	}
	m.exclusive = true
	return nil
}

func (m *MockDisplayController) Exit(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Exits++
	m.Events = append(m.Events, "exit")
	m.exclusive = false
	return nil
}

func (m *MockDisplayController) Retry(ctx context.Context) error {
	m.mu.Lock()
	m.Retries++
	target := "voting"
	if len(m.Targets) > 0 {
		target = m.Targets[len(m.Targets)-1]
	}
	m.mu.Unlock()
	return m.Enter(ctx, target)
}

func (m *MockDisplayController) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Releases++
	m.Events = append(m.Events, "release")
	m.exclusive = false
}

func (m *MockDisplayController) IsExclusive() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.exclusive
}

func (m *MockDisplayController) Warning() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.warning
}

func (m *MockDisplayController) Report(exclusive bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exclusive = exclusive
	if exclusive {
		m.warning = ""
	}
}

// MockNavigator counts exit signals and optionally records a shared event log.
type MockNavigator struct {
	mu        sync.Mutex
	Completes int
	Redirects int
	OnEvent   func(string)
}

func (m *MockNavigator) Complete() {
	m.mu.Lock()
	m.Completes++
	fn := m.OnEvent
	m.mu.Unlock()
	if fn != nil {
		fn("complete")
	}
}

func (m *MockNavigator) RedirectToStart() {
	m.mu.Lock()
	m.Redirects++
	fn := m.OnEvent
	m.mu.Unlock()
	if fn != nil {
		fn("redirect")
	}
}

func (m *MockNavigator) CompleteCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Completes
}
