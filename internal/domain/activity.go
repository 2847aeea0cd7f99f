package domain

import (
	"fmt"
	"strings"
)

type ActivityID string

type ActivityState string

const (
	ActivityScheduled  ActivityState = "programada"
	ActivityInProgress ActivityState = "en_progreso"
	ActivityCompleted  ActivityState = "completada"
)

// Activity is a scheduled group exercise requiring one voice recording per
// participant. The server owns it; the client holds a read-through copy.
type Activity struct {
	ID                    ActivityID
	Title                 string
	Description           string
	State                 ActivityState
	TotalParticipants     int
	CompletedParticipants int
}

func (a Activity) Validate() error {
	if strings.TrimSpace(string(a.ID)) == "" {
		return fmt.Errorf("id is required")
	}
	switch a.State {
	case ActivityScheduled, ActivityInProgress, ActivityCompleted:
	default:
		return fmt.Errorf("unsupported activity state %q", a.State)
	}
	if a.CompletedParticipants > a.TotalParticipants {
		return fmt.Errorf("completed participants %d exceeds total %d", a.CompletedParticipants, a.TotalParticipants)
	}
	return nil
}

// CompletionPercent reports roster progress as a whole percentage. An
// activity with no participants reads as 0.
func (a Activity) CompletionPercent() int {
	if a.TotalParticipants <= 0 {
		return 0
	}
	return int(float64(a.CompletedParticipants) / float64(a.TotalParticipants) * 100)
}
