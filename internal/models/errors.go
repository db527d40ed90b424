package models

import (
	"errors"
	"fmt"
)

var (
	ErrCaptureUnavailable       = errors.New("capture unavailable")
	ErrNoFaceDetected           = fmt.Errorf("%w: no face detected", ErrCaptureUnavailable)
	ErrVerificationRejected     = errors.New("verification rejected")
	ErrTransport                = errors.New("verification service unreachable")
	ErrVoteRejected             = errors.New("vote rejected")
	ErrVoteTransport            = errors.New("voting service unreachable")
	ErrDisplayExclusivityFailed = errors.New("exclusive display failed")
	ErrSessionMissing           = errors.New("no voter session")

	ErrInvalidIdentifiers = errors.New("unique id and election commission id are required")
	ErrNotReady           = errors.New("action not allowed in current state")
	ErrStepInFlight       = errors.New("another step is in progress")
	ErrSubmissionInFlight = errors.New("vote submission already in progress")
	ErrAlreadyVoted       = errors.New("vote already recorded")
	ErrUnknownParty       = errors.New("unknown party")
	ErrClosed             = errors.New("voting flow closed")
)
