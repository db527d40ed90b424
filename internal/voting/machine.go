package voting

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
	"votekiosk/internal/models"
	"votekiosk/internal/providers"
	"votekiosk/internal/voting/interfaces"

	"github.com/google/uuid"
)

const (
	MsgMissingIDs       = "Please enter your Unique ID and EC ID."
	MsgCaptureImage     = "Please capture an image."
	MsgNoFace           = "No face detected. Please try again."
	MsgSaveFailed       = "Could not save your verification. Please try again."
	MsgUnknownParty     = "Please select a valid party."
	MsgInterruptedVote  = "Your previous vote could not be confirmed. Please choose again."
	MsgVerifiedDefault  = "Face verified"
	MsgVoteFailed       = "Voting failed. Please try again."
	MsgVerificationFail = "Face verification failed"
)

// Machine drives one voter from identification to a recorded vote.
//
// All state lives behind mu. Capture, verification and submission run outside
// the lock; busy keeps a second request from starting meanwhile. Timer callbacks
// and late backend answers carry the generation they were started in and are
// dropped once Close has advanced it.
type Machine struct {
	store     interfaces.SessionStoreInterface
	gate      interfaces.CaptureGateInterface
	verifier  interfaces.VerificationClientInterface
	submitter interfaces.VoteSubmitterInterface
	display   interfaces.DisplayControllerInterface
	navigator interfaces.NavigatorInterface
	scheduler interfaces.SchedulerInterface
	parties   []models.PartyCandidate
	dwell     Dwell
	target    string
	logger    providers.Logger
	metrics   providers.MetricsProviderInterface

	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	state      models.FlowState
	message    string
	ids        models.Identifiers
	session    *models.VoterSession
	busy       bool
	closed     bool
	completed  bool
	generation uint64
	timer      interfaces.Timer
}

// Dwell holds the automatic transition delays.
type Dwell struct {
	Verified time.Duration
	Voted    time.Duration
}

func (m *Machine) Resume(ctx context.Context) bool {
	m.mu.Lock()
	if m.closed || m.state != models.StateIdle {
		m.mu.Unlock()
		return false
	}

	session, ok := m.store.Read()
	if !ok {
		m.mu.Unlock()
		return false
	}
	if !session.Resumable() {
		m.logger.Warnf(providers.TypeSession, "Discarding stale session %s (verification=%s vote=%s)",
			session.SessionID, session.VerificationStatus, session.VoteStatus)
		if err := m.store.Clear(); err != nil {
			m.logger.Errorf(providers.TypeSession, "Failed to clear stale session: %s", err)
		}
		m.mu.Unlock()
		return false
	}

	if session.VoteStatus == models.VoteSubmitting {
		// the backend refuses a duplicate, so choosing again is safe
		session.VoteStatus = models.VoteFailed
		m.message = MsgInterruptedVote
		m.persist(session)
	}
	m.session = session
	m.ids = models.Identifiers{UniqueID: session.UniqueID, ECID: session.ECID}
	m.transition(models.StateReadyToVote)
	gen := m.generation
	m.logger.Infof(providers.TypeSession, "Resumed session %s for voter %s", session.SessionID, session.UniqueID)
	m.mu.Unlock()

	m.requestDisplay(ctx, gen)
	return true
}

func (m *Machine) Begin(uniqueID, ecID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return models.ErrClosed
	}
	if m.busy {
		return models.ErrStepInFlight
	}
	if m.state != models.StateIdle && m.state != models.StateCapturing {
		return models.ErrNotReady
	}

	ids := models.NewIdentifiers(uniqueID, ecID)
	if err := ids.Validate(); err != nil {
		m.message = MsgMissingIDs
		return err
	}
	m.ids = ids
	m.message = ""
	if m.state == models.StateIdle {
		m.transition(models.StateCapturing)
	}
	return nil
}

func (m *Machine) CaptureAndVerify(ctx context.Context, source interfaces.VideoSource) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return models.ErrClosed
	}
	if m.busy {
		m.mu.Unlock()
		return models.ErrStepInFlight
	}
	if m.state != models.StateCapturing {
		m.mu.Unlock()
		return models.ErrNotReady
	}
	m.busy = true
	gen := m.generation
	ids := m.ids
	m.mu.Unlock()

	opCtx, cancel := m.bind(ctx)
	defer cancel()

	frame, err := m.gate.Capture(opCtx, source)
	if err != nil {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.busy = false
		if m.stale(gen) {
			return models.ErrClosed
		}
		if errors.Is(err, models.ErrNoFaceDetected) {
			m.fail(MsgNoFace, MsgNoFace)
		} else {
			m.fail(MsgCaptureImage, MsgCaptureImage)
		}
		return err
	}

	m.mu.Lock()
	if m.stale(gen) {
		m.busy = false
		m.mu.Unlock()
		return models.ErrClosed
	}
	m.transition(models.StateVerifying)
	m.message = ""
	m.mu.Unlock()

	outcome := m.verifier.Verify(opCtx, ids.UniqueID, ids.ECID, frame.Image)

	m.mu.Lock()
	m.busy = false
	if m.stale(gen) {
		m.mu.Unlock()
		return models.ErrClosed
	}
	m.metrics.IncVerifications(outcome.Kind.String())

	if !outcome.IsSuccess() {
		m.fail(outcome.Message, MsgVerificationFail)
		m.logger.Infof(providers.TypeSession, "Verification of voter %s not accepted: %s", ids.UniqueID, outcome.Message)
		m.mu.Unlock()
		if outcome.Kind == models.OutcomeTransportError {
			return fmt.Errorf("%w: %s", models.ErrTransport, outcome.Message)
		}
		return fmt.Errorf("%w: %s", models.ErrVerificationRejected, outcome.Message)
	}

	session := &models.VoterSession{
		SessionID:          uuid.NewString(),
		UniqueID:           ids.UniqueID,
		ECID:               ids.ECID,
		CapturedImage:      frame.Reference,
		VerificationStatus: models.VerificationVerified,
		VoteStatus:         models.VoteNotVoted,
		CreatedAt:          time.Now().UTC(),
	}
	if err := m.store.Write(session); err != nil {
		m.logger.Errorf(providers.TypeSession, "Failed to persist verified session for %s: %s", ids.UniqueID, err)
		m.fail(MsgSaveFailed, MsgSaveFailed)
		m.mu.Unlock()
		return err
	}

	m.session = session
	m.transition(models.StateVerified)
	m.message = outcome.Message
	if m.message == "" {
		m.message = MsgVerifiedDefault
	}
	m.arm(m.dwell.Verified, gen, m.toReady)
	m.logger.Infof(providers.TypeSession, "Voter %s verified, session %s", ids.UniqueID, session.SessionID)
	m.mu.Unlock()

	m.requestDisplay(opCtx, gen)
	return nil
}

// Ballot returns the candidate list once the verified dwell has elapsed. A
// voter still being identified gets ErrNotReady; only an Idle machine with no
// resident session sends the screen back to the start.
func (m *Machine) Ballot() ([]models.PartyCandidate, error) {
	m.mu.Lock()
	switch {
	case m.closed:
		m.mu.Unlock()
		return nil, models.ErrClosed
	case m.state.ShowsBallot() && m.session != nil:
		parties := make([]models.PartyCandidate, len(m.parties))
		copy(parties, m.parties)
		m.mu.Unlock()
		return parties, nil
	case m.state != models.StateIdle || m.busy:
		m.mu.Unlock()
		return nil, models.ErrNotReady
	}
	if _, ok := m.store.Read(); ok {
		m.mu.Unlock()
		return nil, models.ErrNotReady
	}
	m.mu.Unlock()

	m.navigator.RedirectToStart()
	return nil, models.ErrSessionMissing
}

func (m *Machine) Vote(ctx context.Context, partyID int) error {
	m.mu.Lock()
	switch {
	case m.closed:
		m.mu.Unlock()
		return models.ErrClosed
	case m.state == models.StateSubmitting:
		m.mu.Unlock()
		return models.ErrSubmissionInFlight
	case m.state == models.StateVoted:
		m.mu.Unlock()
		return models.ErrAlreadyVoted
	case m.state != models.StateReadyToVote || m.session == nil || !m.session.CanSubmit():
		m.mu.Unlock()
		return models.ErrNotReady
	}
	if _, ok := models.FindParty(m.parties, partyID); !ok {
		m.message = MsgUnknownParty
		m.mu.Unlock()
		return fmt.Errorf("%w: %d", models.ErrUnknownParty, partyID)
	}

	m.transition(models.StateSubmitting)
	m.message = ""
	m.session.VoteStatus = models.VoteSubmitting
	m.persist(m.session)
	session := m.session.Clone()
	gen := m.generation
	m.mu.Unlock()

	opCtx, cancel := m.bind(ctx)
	defer cancel()

	outcome := m.submitter.Submit(opCtx, session.UniqueID, session.ECID, partyID)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.metrics.IncVotes(outcome.Kind.String())

	if outcome.IsSuccess() {
		// an accepted vote always clears the record, even after teardown
		if err := m.store.Clear(); err != nil {
			m.logger.Errorf(providers.TypeSession, "Failed to clear session %s after vote: %s", session.SessionID, err)
		}
		m.logger.Infof(providers.TypeSession, "Vote recorded for session %s", session.SessionID)
		if m.stale(gen) {
			return nil
		}
		m.session.VoteStatus = models.VoteVoted
		m.transition(models.StateVoted)
		m.message = outcome.Message
		m.arm(m.dwell.Voted, gen, m.finish)
		return nil
	}

	m.logger.Warnf(providers.TypeSession, "Vote for session %s not accepted: %s", session.SessionID, outcome.Message)
	if m.stale(gen) {
		session.VoteStatus = models.VoteFailed
		m.persist(session)
		return models.ErrClosed
	}
	m.session.VoteStatus = models.VoteFailed
	m.persist(m.session)
	m.transition(models.StateReadyToVote)
	m.message = outcome.Message
	if m.message == "" {
		m.message = MsgVoteFailed
	}
	if outcome.Kind == models.OutcomeTransportError {
		return fmt.Errorf("%w: %s", models.ErrVoteTransport, m.message)
	}
	return fmt.Errorf("%w: %s", models.ErrVoteRejected, m.message)
}

func (m *Machine) RetryDisplay(ctx context.Context) error {
	m.mu.Lock()
	if m.closed || !m.state.HoldsSession() {
		m.mu.Unlock()
		return models.ErrNotReady
	}
	m.mu.Unlock()
	return m.display.Retry(ctx)
}

// Image returns the display reference of the verified voter's photo.
func (m *Machine) Image() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil || m.session.CapturedImage == "" {
		return "", false
	}
	return m.session.CapturedImage, true
}

func (m *Machine) View() models.FlowView {
	m.mu.Lock()
	defer m.mu.Unlock()

	view := models.FlowView{
		State:          m.state,
		Message:        m.message,
		DisplayWarning: m.display.Warning(),
		Exclusive:      m.display.IsExclusive(),
		UniqueID:       m.ids.UniqueID,
		ECID:           m.ids.ECID,
	}
	if m.session != nil {
		view.SessionID = m.session.SessionID
		view.HasImage = m.session.CapturedImage != ""
		view.VoteStatus = m.session.VoteStatus
	}
	return view
}

// Close tears the flow down: pending timers are stopped, in-flight requests are
// cancelled and exclusive display is released. The stored session is kept.
func (m *Machine) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	m.generation++
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.mu.Unlock()

	m.cancel()
	m.display.Release()
}

func (m *Machine) toReady() func() {
	if m.state == models.StateVerified {
		m.transition(models.StateReadyToVote)
		m.message = ""
	}
	return nil
}

func (m *Machine) finish() func() {
	if m.completed {
		return nil
	}
	m.completed = true
	return func() {
		m.display.Release()
		m.navigator.Complete()
	}
}

// arm schedules step to run under the lock after d, unless the flow moved on.
// Must be called with mu held.
func (m *Machine) arm(d time.Duration, gen uint64, step func() func()) {
	if m.timer != nil {
		m.timer.Stop()
	}
	m.timer = m.scheduler.AfterFunc(d, func() {
		m.mu.Lock()
		if m.stale(gen) {
			m.mu.Unlock()
			return
		}
		m.timer = nil
		after := step()
		m.mu.Unlock()
		if after != nil {
			after()
		}
	})
}

func (m *Machine) requestDisplay(ctx context.Context, gen uint64) {
	if err := m.display.Enter(ctx, m.target); err != nil {
		m.logger.Warnf(providers.TypeDisplay, "Voting continues without exclusive display: %s", err)
	}

	m.mu.Lock()
	stale := m.stale(gen)
	m.mu.Unlock()
	if stale {
		m.display.Release()
	}
}

// fail passes through Failed back to Capturing. Must be called with mu held.
func (m *Machine) fail(message, fallback string) {
	m.transition(models.StateFailed)
	m.transition(models.StateCapturing)
	m.message = message
	if m.message == "" {
		m.message = fallback
	}
}

func (m *Machine) persist(session *models.VoterSession) {
	if err := m.store.Write(session); err != nil {
		m.logger.Errorf(providers.TypeSession, "Failed to persist session %s: %s", session.SessionID, err)
	}
}

func (m *Machine) transition(to models.FlowState) {
	from := m.state
	m.state = to
	m.metrics.IncTransitions(string(from), string(to))
	m.logger.Debugf(providers.TypeSession, "Flow %s -> %s", from, to)
}

func (m *Machine) stale(gen uint64) bool {
	return m.closed || m.generation != gen
}

// bind derives a context that also ends when the machine is closed.
func (m *Machine) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(m.ctx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}
