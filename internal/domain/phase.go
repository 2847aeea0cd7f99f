package domain

// Phase is the session state exposed to the presentation layer.
//
// The happy path is NotParticipating → Recording → ReadyToSubmit →
// AwaitingGroup → GroupResultReady. A user who already completed their
// participation resumes directly at AwaitingGroup or GroupResultReady.
type Phase string

const (
	PhaseNotParticipating Phase = "not_participating"
	PhaseRecording        Phase = "recording"
	PhaseReadyToSubmit    Phase = "ready_to_submit"
	PhaseAwaitingGroup    Phase = "awaiting_group"
	PhaseGroupResultReady Phase = "group_result_ready"
)

// CanCancel reports whether the session may be cancelled back to
// NotParticipating, discarding any recorded payload.
func (p Phase) CanCancel() bool {
	return p == PhaseRecording || p == PhaseReadyToSubmit
}

// Terminal reports whether the session has reached its final phase. The
// aggregate may still be refreshed in place if a later poll returns an
// updated roster.
func (p Phase) Terminal() bool {
	return p == PhaseGroupResultReady
}
