package mic

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mutablelogic/go-media/pkg/ffmpeg"
	"github.com/sirupsen/logrus"

	"github.com/Johnmc130/SerenVoice/internal/domain"
	"github.com/Johnmc130/SerenVoice/internal/ports"
)

// Recorder drains decoded PCM frames from one opened capture source into a
// memory buffer. Stop turns the buffer into a single WAV clip.
type Recorder struct {
	input *ffmpeg.Reader
	log   logrus.FieldLogger

	mu        sync.Mutex
	pcm       []byte
	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once
}

var _ ports.AudioRecorder = (*Recorder)(nil)

func newRecorder(input *ffmpeg.Reader, log logrus.FieldLogger) *Recorder {
	return &Recorder{
		input: input,
		log:   log,
		pcm:   make([]byte, 0, sampleRate*bytesPerFrame*10),
	}
}

func (r *Recorder) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		return domain.ErrAlreadyRecording
	}

	decodeCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	r.cancel = cancel
	r.done = done

	go r.drain(decodeCtx, done)

	return nil
}

func (r *Recorder) drain(ctx context.Context, done chan struct{}) {
	defer close(done)

	mapfn := func(_ int, par *ffmpeg.Par) (*ffmpeg.Par, error) {
		return par, nil
	}

	for {
		err := r.input.Decode(ctx, mapfn, func(_ int, frame *ffmpeg.Frame) error {
			if frame == nil {
				return nil
			}
			data := frame.Bytes(0)
			if len(data) == 0 {
				return nil
			}

			r.mu.Lock()
			r.pcm = append(r.pcm, data...)
			r.mu.Unlock()

			return nil
		})
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				return
			}
			r.log.WithError(err).Warn("capture decode error")
			select {
			case <-ctx.Done():
				return
			case <-time.After(100 * time.Millisecond):
			}
		}
	}
}

// Stop finalizes the clip. The decode loop is drained before the buffer is
// encoded so no frame arrives mid-encode.
func (r *Recorder) Stop() (domain.AudioClip, error) {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.cancel, r.done = nil, nil
	r.mu.Unlock()

	if cancel == nil {
		return domain.AudioClip{}, domain.ErrNotRecording
	}
	cancel()
	<-done

	r.mu.Lock()
	pcm := r.pcm
	r.pcm = nil
	r.mu.Unlock()

	if len(pcm) == 0 {
		return domain.AudioClip{}, errors.New("capture produced no audio")
	}

	return domain.AudioClip{
		ID:              uuid.NewString(),
		MIMEType:        "audio/wav",
		Data:            encodeWAV(pcm),
		DurationSeconds: len(pcm) / (sampleRate * bytesPerFrame),
	}, nil
}

func (r *Recorder) Release() {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.cancel, r.done = nil, nil
	r.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}

	r.closeOnce.Do(func() {
		if err := r.input.Close(); err != nil {
			r.log.WithError(err).Debug("close capture source")
		}
	})
}
