package domain

import (
	"errors"
	"fmt"
)

var (
	ErrActivityNotFound      = errors.New("activity not found")
	ErrParticipationNotFound = errors.New("participation not found")

	ErrAlreadyRecording  = errors.New("a recording is already in progress")
	ErrNotRecording      = errors.New("no recording in progress")
	ErrRecordingTooShort = fmt.Errorf("recording shorter than %d seconds", MinRecordingSeconds)
	ErrNoClip            = errors.New("no finalized audio clip")

	// ErrRateLimited marks a 429 from the roster endpoint. It changes
	// scheduling policy, not just messaging: automatic polling stops until
	// a manual refresh.
	ErrRateLimited = errors.New("rate limited")
)

// DeviceError reports a failed capture-device acquisition: permission
// denied, or no device at all. Terminal for the session; never retried
// automatically.
type DeviceError struct {
	Err error
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("capture device unavailable: %v", e.Err)
}

func (e *DeviceError) Unwrap() error { return e.Err }

// NetworkError reports a failed upload, registration, or roster fetch.
// Retryable: local state is preserved across the failure so no rework is
// required.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// PartialCompletionError reports that the analyze phase succeeded but the
// completion registration failed. The individual result is still usable
// locally; the roster may lag until the registration is retried.
type PartialCompletionError struct {
	Refs ResultRefs
	Err  error
}

func (e *PartialCompletionError) Error() string {
	return fmt.Sprintf("analysis stored but completion not registered: %v", e.Err)
}

func (e *PartialCompletionError) Unwrap() error { return e.Err }
