package application

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/Johnmc130/SerenVoice/internal/domain"
	"github.com/Johnmc130/SerenVoice/internal/ports"
)

// Submitter performs the two-phase submit: phase one uploads the clip for
// analysis, phase two registers the completion against the participation
// row. Neither phase is retried automatically; retries are user-initiated.
type Submitter struct {
	analysis      ports.AnalysisClient
	participation ports.ParticipationClient
	ledger        ports.LedgerRepository
	clock         ports.Clock
	log           logrus.FieldLogger
}

func NewSubmitter(analysis ports.AnalysisClient, participation ports.ParticipationClient, ledger ports.LedgerRepository, clock ports.Clock, log logrus.FieldLogger) *Submitter {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Submitter{
		analysis:      analysis,
		participation: participation,
		ledger:        ledger,
		clock:         clock,
		log:           log,
	}
}

type SubmitOutcome struct {
	Refs       domain.ResultRefs
	Result     domain.AnalysisResult
	Registered bool
}

// Submit runs both phases. A phase-one failure returns before anything is
// recorded, so the caller can retry with the same clip. A phase-two failure
// returns the outcome together with *domain.PartialCompletionError: the
// individual result is usable locally, but the roster may lag until the
// registration is retried.
func (s *Submitter) Submit(ctx context.Context, activityID domain.ActivityID, participationID domain.ParticipationID, clip domain.AudioClip, userID domain.UserID) (SubmitOutcome, error) {
	if clip.Empty() {
		return SubmitOutcome{}, domain.ErrNoClip
	}

	upload, err := s.analysis.Analyze(ctx, clip, userID)
	if err != nil {
		return SubmitOutcome{}, fmt.Errorf("analyze audio: %w", err)
	}

	result := upload.Result
	entry := domain.Ledger{
		ActivityID:      activityID,
		ParticipationID: participationID,
		Refs:            upload.Refs,
		Result:          &result,
		SubmittedAt:     s.clock.Now(),
	}
	s.saveLedger(ctx, entry)

	if err := s.participation.RegisterCompletion(ctx, participationID, upload.Refs); err != nil {
		return SubmitOutcome{Refs: upload.Refs, Result: upload.Result}, &domain.PartialCompletionError{Refs: upload.Refs, Err: err}
	}

	entry.Registered = true
	s.saveLedger(ctx, entry)

	return SubmitOutcome{Refs: upload.Refs, Result: upload.Result, Registered: true}, nil
}

// RetryRegistration replays phase two from the ledger after a partial
// completion. Idempotent: an already registered entry is a no-op.
func (s *Submitter) RetryRegistration(ctx context.Context, activityID domain.ActivityID) error {
	entry, err := s.ledger.Get(ctx, activityID)
	if err != nil {
		return fmt.Errorf("load participation ledger: %w", err)
	}
	if !entry.Submitted() {
		return domain.ErrParticipationNotFound
	}
	if entry.Registered {
		return nil
	}

	if err := s.participation.RegisterCompletion(ctx, entry.ParticipationID, entry.Refs); err != nil {
		return fmt.Errorf("register completion: %w", err)
	}

	entry.Registered = true
	if err := s.ledger.Save(ctx, entry); err != nil {
		return fmt.Errorf("save participation ledger: %w", err)
	}

	return nil
}

// A ledger write failure must not sink a successful upload; the server
// already holds the analysis rows.
func (s *Submitter) saveLedger(ctx context.Context, entry domain.Ledger) {
	if err := s.ledger.Save(ctx, entry); err != nil {
		s.log.WithError(err).WithField("activity_id", entry.ActivityID).Warn("participation ledger write failed")
	}
}
