package services

import (
	"context"
	"testing"
	"time"
	"votekiosk/internal/models"
	"votekiosk/internal/structures"
	"votekiosk/internal/testutil"
	"votekiosk/internal/voting"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc     *KioskService
	store   *testutil.MemorySessionStore
	display *testutil.MockDisplayController
	sched   *testutil.FakeScheduler
	cache   *testutil.MockCache
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	conf := &structures.Config{
		Dwell:   structures.DwellConfig{Verified: 10 * time.Second, Voted: 3 * time.Second},
		Display: structures.DisplayConfig{Target: "voting"},
		Parties: []structures.PartyConfig{{ID: 1, Name: "Alpha"}, {ID: 2, Name: "Beta"}},
	}
	f := &fixture{
		store:   &testutil.MemorySessionStore{},
		display: &testutil.MockDisplayController{},
		sched:   &testutil.FakeScheduler{},
		cache:   testutil.NewMockCache(),
	}
	gate := &testutil.MockCaptureGate{Frame: models.Frame{Image: []byte("img"), MimeType: "image/png", Reference: "data:image/png;base64,aW1n"}}
	factory := voting.NewMachineFactory(conf, f.store, gate, &testutil.MockVerifier{}, &testutil.MockSubmitter{},
		f.display, f.sched, &testutil.MockLogger{}, &testutil.MockMetrics{})
	f.svc = NewKioskService(factory, f.store, f.display, f.cache, &testutil.MockLogger{}).(*KioskService)
	t.Cleanup(f.svc.Close)
	return f
}

func (f *fixture) vote(t *testing.T) {
	t.Helper()
	m := f.svc.Machine()
	require.NoError(t, m.Begin("V1", "E1"))
	require.NoError(t, m.CaptureAndVerify(context.Background(), testutil.StaticFrameSource("img")))
	f.sched.Advance(10 * time.Second)
	require.NoError(t, m.Vote(context.Background(), 2))
}

func TestKioskService_FreshMachineAfterCompletion(t *testing.T) {
	f := newFixture(t)
	first := f.svc.Machine()

	f.vote(t)
	assert.Same(t, first, f.svc.Machine())
	assert.Equal(t, uint64(0), f.svc.Served())

	f.sched.Advance(3 * time.Second)

	next := f.svc.Machine()
	assert.NotSame(t, first, next)
	assert.Equal(t, models.StateIdle, next.View().State)
	assert.Equal(t, uint64(1), f.svc.Served())
	assert.False(t, f.svc.Resident())
}

func TestKioskService_RedirectToStartReplacesMachine(t *testing.T) {
	f := newFixture(t)
	first := f.svc.Machine()

	_, err := first.Ballot()
	assert.ErrorIs(t, err, models.ErrSessionMissing)

	assert.NotSame(t, first, f.svc.Machine())
	assert.ErrorIs(t, first.Begin("V1", "E1"), models.ErrClosed)
	assert.Equal(t, uint64(0), f.svc.Served())

	// a late signal from the replaced machine is ignored
	current := f.svc.Machine()
	navigator{service: f.svc, seq: 0}.RedirectToStart()
	navigator{service: f.svc, seq: 0}.Complete()
	assert.Same(t, current, f.svc.Machine())
	assert.Equal(t, uint64(0), f.svc.Served())
}

func TestKioskService_BallotDuringIdentificationKeepsMachine(t *testing.T) {
	f := newFixture(t)
	first := f.svc.Machine()
	require.NoError(t, first.Begin("V1", "E1"))

	_, err := first.Ballot()
	assert.ErrorIs(t, err, models.ErrNotReady)
	assert.Same(t, first, f.svc.Machine())
	assert.Equal(t, models.StateCapturing, first.View().State)
	assert.Equal(t, "V1", first.View().UniqueID)
}

func TestKioskService_EvictsPreviousVoterImage(t *testing.T) {
	f := newFixture(t)
	f.vote(t)
	sessionID := f.svc.Machine().View().SessionID
	require.NotEmpty(t, sessionID)
	f.cache.Set(ImageCacheKey(sessionID), []byte("img"))

	f.sched.Advance(3 * time.Second)

	_, ok := f.cache.Get(ImageCacheKey(sessionID))
	assert.False(t, ok)
	assert.Equal(t, uint64(1), f.svc.Served())
}

func TestKioskService_Restore(t *testing.T) {
	f := newFixture(t)
	f.store.Session = &models.VoterSession{
		SessionID:          "s-1",
		UniqueID:           "V1",
		ECID:               "E1",
		CapturedImage:      "data:image/png;base64,aW1n",
		VerificationStatus: models.VerificationVerified,
		VoteStatus:         models.VoteNotVoted,
	}

	assert.True(t, f.svc.Restore(context.Background()))
	assert.Equal(t, models.StateReadyToVote, f.svc.Machine().View().State)
	assert.True(t, f.svc.Resident())
}

func TestKioskService_ReportDisplay(t *testing.T) {
	f := newFixture(t)

	f.svc.ReportDisplay(true)
	assert.True(t, f.svc.Exclusive())
	f.svc.ReportDisplay(false)
	assert.False(t, f.svc.Exclusive())
}

func TestKioskService_CloseStopsAdvancing(t *testing.T) {
	f := newFixture(t)
	f.vote(t)
	m := f.svc.Machine()

	f.svc.Close()
	f.sched.Advance(3 * time.Second)

	assert.Same(t, m, f.svc.Machine())
	assert.Equal(t, 1, f.display.Releases)
	f.svc.Close()
}
