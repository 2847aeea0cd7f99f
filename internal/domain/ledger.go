package domain

import "time"

// Ledger is the client-side record of this user's own participation in one
// activity. It lets a later process resume at the right phase without
// re-recording, and remembers a submission whose completion registration is
// still owed to the server.
type Ledger struct {
	ActivityID      ActivityID
	ParticipationID ParticipationID
	Refs            ResultRefs
	Result          *AnalysisResult
	// Registered is false while the analyze call succeeded but the
	// completion registration did not. There is no automatic
	// reconciliation; retry is user-initiated.
	Registered  bool
	SubmittedAt time.Time
}

func (l Ledger) Submitted() bool {
	return l.Refs.Complete()
}
