package ports

import (
	"context"

	"github.com/Johnmc130/SerenVoice/internal/domain"
)

// AudioRecorder is one acquired capture session. Stop finalizes exactly one
// clip. Release must be safe to call on every exit path, including after
// Stop; a leaked device handle is a defect, not a shortcut.
type AudioRecorder interface {
	Start(ctx context.Context) error
	Stop() (domain.AudioClip, error)
	Release()
}

// CaptureDevice acquires exclusive access to the audio input. Acquisition
// failure surfaces as *domain.DeviceError.
type CaptureDevice interface {
	Acquire(ctx context.Context) (AudioRecorder, error)
}
