package application

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Johnmc130/SerenVoice/internal/domain"
	"github.com/Johnmc130/SerenVoice/internal/ports"
)

// Recorder owns the capture device for the duration of one recording cycle.
// It enforces the minimum duration on Stop, produces exactly one clip per
// cycle, and releases the device handle on every exit path. Elapsed time is
// pull-based: callers read ElapsedSeconds on their own cadence.
type Recorder struct {
	device ports.CaptureDevice
	clock  ports.Clock

	mu        sync.Mutex
	state     domain.RecordingState
	cycle     uint64
	rec       ports.AudioRecorder
	clip      domain.AudioClip
	startedAt time.Time
	stoppedAt time.Time
}

func NewRecorder(device ports.CaptureDevice, clock ports.Clock) *Recorder {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &Recorder{
		device: device,
		clock:  clock,
		state:  domain.RecordingIdle,
	}
}

func (r *Recorder) State() domain.RecordingState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Recorder) ElapsedSeconds() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.elapsedLocked()
}

func (r *Recorder) elapsedLocked() int {
	switch r.state {
	case domain.RecordingActive:
		return int(r.clock.Now().Sub(r.startedAt).Seconds())
	case domain.RecordingStopped, domain.RecordingReady:
		return int(r.stoppedAt.Sub(r.startedAt).Seconds())
	default:
		return 0
	}
}

// Start acquires the capture device and begins recording. Acquisition
// failure is terminal for the attempt and surfaces as *domain.DeviceError;
// there is no automatic retry.
func (r *Recorder) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.state != domain.RecordingIdle {
		r.mu.Unlock()
		return domain.ErrAlreadyRecording
	}
	r.mu.Unlock()

	rec, err := r.device.Acquire(ctx)
	if err != nil {
		var devErr *domain.DeviceError
		if errors.As(err, &devErr) {
			return err
		}
		return &domain.DeviceError{Err: err}
	}
	if err := rec.Start(ctx); err != nil {
		rec.Release()
		return &domain.DeviceError{Err: err}
	}

	r.mu.Lock()
	r.cycle++
	r.rec = rec
	r.state = domain.RecordingActive
	r.startedAt = r.clock.Now()
	r.clip = domain.AudioClip{}
	r.mu.Unlock()

	return nil
}

// Stop finalizes the recording. Stopping before the minimum duration is a
// rejected operation, not a warning: the state stays recording and the
// device stays held.
func (r *Recorder) Stop() (domain.AudioClip, error) {
	r.mu.Lock()
	if r.state != domain.RecordingActive {
		r.mu.Unlock()
		return domain.AudioClip{}, domain.ErrNotRecording
	}
	elapsed := r.elapsedLocked()
	if elapsed < domain.MinRecordingSeconds {
		r.mu.Unlock()
		return domain.AudioClip{}, domain.ErrRecordingTooShort
	}
	r.state = domain.RecordingStopped
	r.stoppedAt = r.clock.Now()
	cycle := r.cycle
	// Take ownership of the device handle before unlocking so a concurrent
	// Cancel cannot release the recorder a second time.
	rec := r.rec
	r.rec = nil
	r.mu.Unlock()

	clip, err := rec.Stop()
	rec.Release()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cycle != cycle || r.state != domain.RecordingStopped {
		// Cancelled (or restarted) while the device was being finalized;
		// the clip from the abandoned cycle is discarded.
		return domain.AudioClip{}, domain.ErrNotRecording
	}
	if err != nil {
		r.state = domain.RecordingIdle
		return domain.AudioClip{}, &domain.DeviceError{Err: err}
	}
	if clip.ID == "" {
		clip.ID = uuid.NewString()
	}
	if clip.DurationSeconds == 0 {
		clip.DurationSeconds = elapsed
	}
	r.clip = clip
	r.state = domain.RecordingReady

	return clip, nil
}

// Clip returns the finalized clip while the recorder is in the ready state.
func (r *Recorder) Clip() (domain.AudioClip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != domain.RecordingReady || r.clip.Empty() {
		return domain.AudioClip{}, domain.ErrNoClip
	}
	return r.clip, nil
}

// Cancel discards any in-progress or finalized recording and returns to
// idle, releasing the device if held.
func (r *Recorder) Cancel() {
	r.reset()
}

// Close tears the recorder down. Safe to call in any state.
func (r *Recorder) Close() {
	r.reset()
}

func (r *Recorder) reset() {
	r.mu.Lock()
	rec := r.rec
	r.cycle++
	r.rec = nil
	r.state = domain.RecordingIdle
	r.clip = domain.AudioClip{}
	r.mu.Unlock()

	if rec != nil {
		rec.Release()
	}
}
