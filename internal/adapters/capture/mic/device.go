package mic

import (
	"context"

	"github.com/mutablelogic/go-media/pkg/ffmpeg"
	"github.com/sirupsen/logrus"

	"github.com/Johnmc130/SerenVoice/internal/domain"
	"github.com/Johnmc130/SerenVoice/internal/ports"
)

const (
	sampleRate    = 16000
	channels      = 1
	bytesPerFrame = 2 // s16 mono
)

// Device opens the microphone through ffmpeg's capture devices. When no
// source is pinned in config it walks a fallback chain: the PulseAudio
// default first, plain ALSA second.
type Device struct {
	Source string
	Log    logrus.FieldLogger
}

var _ ports.CaptureDevice = (*Device)(nil)

var fallbackSources = []string{"pulse:default", "alsa:default"}

func (d *Device) Acquire(ctx context.Context) (ports.AudioRecorder, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log := d.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	sources := fallbackSources
	if d.Source != "" {
		sources = append([]string{d.Source}, fallbackSources...)
	}

	var lastErr error
	for _, source := range sources {
		input, err := openSource(source)
		if err != nil {
			log.WithError(err).WithField("source", source).Debug("capture source unavailable")
			lastErr = err
			continue
		}
		log.WithField("source", source).Debug("capture source opened")
		return newRecorder(input, log), nil
	}

	return nil, &domain.DeviceError{Err: lastErr}
}

func openSource(source string) (*ffmpeg.Reader, error) {
	return ffmpeg.Open(source,
		ffmpeg.OptInputOpt("sample_rate", "16000"),
		ffmpeg.OptInputOpt("channels", "1"),
		ffmpeg.OptInputOpt("format", "s16"),
		ffmpeg.OptInputOpt("channel_layout", "mono"),
	)
}
