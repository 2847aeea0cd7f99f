package domain

type RecordingState string

const (
	RecordingIdle    RecordingState = "idle"
	RecordingActive  RecordingState = "recording"
	RecordingStopped RecordingState = "stopped"
	RecordingReady   RecordingState = "ready"
)

// MinRecordingSeconds is the shortest recording the analysis service
// accepts. Stopping earlier is rejected outright, not warned about.
const MinRecordingSeconds = 5

// AudioClip is one finalized recording. Exactly one clip is produced per
// recording cycle; it lives only in memory until submitted or discarded.
type AudioClip struct {
	ID              string
	MIMEType        string
	Data            []byte
	DurationSeconds int
}

func (c AudioClip) Empty() bool {
	return len(c.Data) == 0
}
