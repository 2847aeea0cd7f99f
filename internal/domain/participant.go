package domain

type UserID string
type ParticipationID string

type ParticipantState string

const (
	ParticipantPending   ParticipantState = "pendiente"
	ParticipantCompleted ParticipantState = "completado"
)

// Participant is one user's membership record within an activity. A
// participant counts as completed only when the server reports both the
// completed state and an attached analysis result.
type Participant struct {
	UserID UserID
	Name   string
	State  ParticipantState
	Result *AnalysisResult
	// ParticipationID is filled only on the caller's own membership record;
	// roster listings omit it.
	ParticipationID ParticipationID
}

func (p Participant) Completed() bool {
	return p.State == ParticipantCompleted && p.Result != nil
}

// Roster is the full participant list for one activity, replaced wholesale
// on every successful poll.
type Roster []Participant

func (r Roster) Completed() []Participant {
	completed := make([]Participant, 0, len(r))
	for _, p := range r {
		if p.Completed() {
			completed = append(completed, p)
		}
	}
	return completed
}

// AllCompleted reports whether every member has a completed participation
// with a result present. An empty roster never counts as complete.
func (r Roster) AllCompleted() bool {
	if len(r) == 0 {
		return false
	}
	return len(r.Completed()) == len(r)
}

func (r Roster) Results() []AnalysisResult {
	results := make([]AnalysisResult, 0, len(r))
	for _, p := range r {
		if p.Completed() {
			results = append(results, *p.Result)
		}
	}
	return results
}

func (r Roster) Find(id UserID) (Participant, bool) {
	for _, p := range r {
		if p.UserID == id {
			return p, true
		}
	}
	return Participant{}, false
}
