package models

// FlowState is the screen-level state of the voting flow.
type FlowState string

const (
	StateIdle        FlowState = "Idle"
	StateCapturing   FlowState = "Capturing"
	StateVerifying   FlowState = "Verifying"
	StateVerified    FlowState = "Verified"
	StateReadyToVote FlowState = "ReadyToVote"
	StateSubmitting  FlowState = "Submitting"
	StateVoted       FlowState = "Voted"
	StateFailed      FlowState = "Failed"
)

// HoldsSession reports whether the state belongs to the verified part of the flow.
func (s FlowState) HoldsSession() bool {
	switch s {
	case StateVerified, StateReadyToVote, StateSubmitting, StateVoted:
		return true
	}
	return false
}

// ShowsBallot reports whether the candidate list is on screen.
func (s FlowState) ShowsBallot() bool {
	return s.HoldsSession() && s != StateVerified
}

// FlowView is what the kiosk screen renders.
type FlowView struct {
	State          FlowState  `json:"state"`
	Message        string     `json:"message,omitempty"`
	DisplayWarning string     `json:"displayWarning,omitempty"`
	Exclusive      bool       `json:"exclusive"`
	SessionID      string     `json:"sessionId,omitempty"`
	UniqueID       string     `json:"uniqueId,omitempty"`
	ECID           string     `json:"ecId,omitempty"`
	HasImage       bool       `json:"hasImage"`
	VoteStatus     VoteStatus `json:"voteStatus,omitempty"`
}
