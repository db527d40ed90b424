package models

import (
	"fmt"
	"time"
)

type VerificationStatus string

const (
	VerificationUnverified VerificationStatus = "Unverified"
	VerificationPending    VerificationStatus = "Pending"
	VerificationVerified   VerificationStatus = "Verified"
	VerificationFailed     VerificationStatus = "Failed"
)

type VoteStatus string

const (
	VoteNotVoted   VoteStatus = "NotVoted"
	VoteSubmitting VoteStatus = "Submitting"
	VoteVoted      VoteStatus = "Voted"
	VoteFailed     VoteStatus = "Failed"
)

// VoterSession is the device-resident record of one voter's progress.
// It is always written as a whole; there are no partial-field updates.
type VoterSession struct {
	SessionID          string             `json:"sessionId"`
	UniqueID           string             `json:"uniqueId"`
	ECID               string             `json:"ecId"`
	CapturedImage      string             `json:"capturedImage"`
	VerificationStatus VerificationStatus `json:"verificationStatus"`
	VoteStatus         VoteStatus         `json:"voteStatus"`
	CreatedAt          time.Time          `json:"createdAt"`
}

// Validate checks the record invariants that must hold before it is persisted.
func (s *VoterSession) Validate() error {
	if s.UniqueID == "" || s.ECID == "" {
		return ErrInvalidIdentifiers
	}
	if s.VerificationStatus == VerificationVerified && s.CapturedImage == "" {
		return fmt.Errorf("verified session %s has no captured image", s.SessionID)
	}
	if s.VoteStatus == VoteSubmitting && s.VerificationStatus != VerificationVerified {
		return fmt.Errorf("session %s is submitting without verification", s.SessionID)
	}
	return nil
}

// CanSubmit reports whether a vote may be started for this session.
func (s *VoterSession) CanSubmit() bool {
	if s.VerificationStatus != VerificationVerified {
		return false
	}
	return s.VoteStatus == VoteNotVoted || s.VoteStatus == VoteFailed
}

// Resumable reports whether a stored record can be picked up by a fresh state machine.
func (s *VoterSession) Resumable() bool {
	return s.Validate() == nil &&
		s.VerificationStatus == VerificationVerified &&
		s.VoteStatus != VoteVoted
}

func (s *VoterSession) Clone() *VoterSession {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
