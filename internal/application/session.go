package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Johnmc130/SerenVoice/internal/domain"
	"github.com/Johnmc130/SerenVoice/internal/ports"
)

const (
	// openPollDelay absorbs duplicate view activations before the first
	// roster fetch.
	openPollDelay = 500 * time.Millisecond
	// autoRefreshInterval drives scheduled polls while the local user has
	// completed their participation but the group aggregate is not in yet.
	autoRefreshInterval = 10 * time.Second
)

type SessionConfig struct {
	ActivityID    domain.ActivityID
	UserID        domain.UserID
	Device        ports.CaptureDevice
	Analysis      ports.AnalysisClient
	Participation ports.ParticipationClient
	Ledger        ports.LedgerRepository
	Clock         ports.Clock
	Logger        logrus.FieldLogger
}

// Session orchestrates one user's run through a group voice activity:
// join, record, two-phase submit, then poll the roster until the whole
// group has completed and the aggregate is available.
//
// The auto-refresh interval and the capture device are owned by the
// session's lifetime and are released on Close.
type Session struct {
	activityID    domain.ActivityID
	userID        domain.UserID
	recorder      *Recorder
	submitter     *Submitter
	poller        *RosterPoller
	participation ports.ParticipationClient
	ledger        ports.LedgerRepository
	clock         ports.Clock
	log           logrus.FieldLogger

	mu              sync.Mutex
	phase           domain.Phase
	activity        domain.Activity
	participationID domain.ParticipationID
	individual      *domain.AnalysisResult
	group           *domain.GroupAggregate
	warning         error
	lastErr         error
	closed          bool
	refreshCancel   context.CancelFunc
	refreshDone     chan struct{}
}

func NewSession(cfg SessionConfig) *Session {
	if cfg.Clock == nil {
		cfg.Clock = ports.SystemClock{}
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}
	log := cfg.Logger.WithFields(logrus.Fields{
		"activity_id": cfg.ActivityID,
		"user_id":     cfg.UserID,
	})

	s := &Session{
		activityID:    cfg.ActivityID,
		userID:        cfg.UserID,
		recorder:      NewRecorder(cfg.Device, cfg.Clock),
		submitter:     NewSubmitter(cfg.Analysis, cfg.Participation, cfg.Ledger, cfg.Clock, log),
		participation: cfg.Participation,
		ledger:        cfg.Ledger,
		clock:         cfg.Clock,
		log:           log,
		phase:         domain.PhaseNotParticipating,
	}
	s.poller = NewRosterPoller(cfg.Participation, cfg.Clock, log, cfg.ActivityID, s.aggregateReady)

	return s
}

// Open loads the activity and the user's own participation, resuming a
// completed participation at AwaitingGroup. When the server already reports
// the whole activity as completed, the roster is fetched immediately so the
// session lands on GroupResultReady without waiting for a scheduled poll.
func (s *Session) Open(ctx context.Context) error {
	activity, err := s.participation.GetActivity(ctx, s.activityID)
	if err != nil {
		return fmt.Errorf("load activity: %w", err)
	}

	mine, err := s.participation.GetMyParticipation(ctx, s.activityID)
	if err != nil {
		return fmt.Errorf("load own participation: %w", err)
	}

	s.mu.Lock()
	s.activity = activity
	if mine != nil {
		s.participationID = mine.ParticipationID
	}
	resume := mine != nil && mine.State == domain.ParticipantCompleted
	if resume {
		if mine.Result != nil {
			s.individual = mine.Result
		}
		s.phase = domain.PhaseAwaitingGroup
	}
	s.mu.Unlock()

	if resume {
		s.restoreFromLedger(ctx)
		if activity.State == domain.ActivityCompleted {
			s.poller.ManualRefresh(ctx)
		}
		s.startAutoRefresh()
	}

	return nil
}

// restoreFromLedger backfills the individual result when the roster listing
// omitted it and resurfaces an unregistered two-phase submit as a warning.
func (s *Session) restoreFromLedger(ctx context.Context) {
	entry, err := s.ledger.Get(ctx, s.activityID)
	if err != nil {
		if !errors.Is(err, domain.ErrParticipationNotFound) {
			s.log.WithError(err).Warn("participation ledger read failed")
		}
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.individual == nil && entry.Result != nil {
		s.individual = entry.Result
	}
	if entry.Submitted() && !entry.Registered {
		s.warning = &domain.PartialCompletionError{Refs: entry.Refs, Err: errors.New("registration pending from a previous run")}
	}
}

func (s *Session) Join(ctx context.Context) error {
	s.mu.Lock()
	if s.phase != domain.PhaseNotParticipating {
		phase := s.phase
		s.mu.Unlock()
		return fmt.Errorf("join is invalid from phase %s", phase)
	}
	if s.participationID != "" {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	id, err := s.participation.Join(ctx, s.activityID)
	if err != nil {
		s.setErr(err)
		return fmt.Errorf("join activity: %w", err)
	}

	s.mu.Lock()
	s.participationID = id
	s.lastErr = nil
	s.mu.Unlock()

	return nil
}

func (s *Session) StartRecording(ctx context.Context) error {
	s.mu.Lock()
	if s.phase != domain.PhaseNotParticipating {
		phase := s.phase
		s.mu.Unlock()
		return fmt.Errorf("recording is invalid from phase %s", phase)
	}
	if s.participationID == "" {
		s.mu.Unlock()
		return domain.ErrParticipationNotFound
	}
	s.mu.Unlock()

	if err := s.recorder.Start(ctx); err != nil {
		s.setErr(err)
		return err
	}

	s.mu.Lock()
	s.phase = domain.PhaseRecording
	s.lastErr = nil
	s.mu.Unlock()

	return nil
}

// StopRecording finalizes the clip. A stop before the minimum duration is
// rejected and the session stays in the recording phase.
func (s *Session) StopRecording() error {
	s.mu.Lock()
	if s.phase != domain.PhaseRecording {
		phase := s.phase
		s.mu.Unlock()
		return fmt.Errorf("stop is invalid from phase %s", phase)
	}
	s.mu.Unlock()

	if _, err := s.recorder.Stop(); err != nil {
		if errors.Is(err, domain.ErrRecordingTooShort) {
			return err
		}
		s.setErr(err)
		s.mu.Lock()
		s.phase = domain.PhaseNotParticipating
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.phase = domain.PhaseReadyToSubmit
	s.mu.Unlock()

	return nil
}

func (s *Session) CancelRecording() error {
	s.mu.Lock()
	if !s.phase.CanCancel() {
		phase := s.phase
		s.mu.Unlock()
		return fmt.Errorf("cancel is invalid from phase %s", phase)
	}
	s.phase = domain.PhaseNotParticipating
	s.lastErr = nil
	s.mu.Unlock()

	s.recorder.Cancel()

	return nil
}

// Submit runs the two-phase submit with the finalized clip. On a network
// failure the session stays at ReadyToSubmit with the clip retained, so the
// user can retry without re-recording. A phase-two registration failure is
// non-blocking: the session still advances to AwaitingGroup and the
// inconsistency is surfaced through the snapshot warning.
func (s *Session) Submit(ctx context.Context) error {
	s.mu.Lock()
	if s.phase != domain.PhaseReadyToSubmit {
		phase := s.phase
		s.mu.Unlock()
		return fmt.Errorf("submit is invalid from phase %s", phase)
	}
	participationID := s.participationID
	s.mu.Unlock()

	clip, err := s.recorder.Clip()
	if err != nil {
		return err
	}

	outcome, err := s.submitter.Submit(ctx, s.activityID, participationID, clip, s.userID)
	var partial *domain.PartialCompletionError
	if err != nil && !errors.As(err, &partial) {
		s.setErr(err)
		return err
	}

	result := outcome.Result
	s.mu.Lock()
	s.individual = &result
	s.phase = domain.PhaseAwaitingGroup
	s.lastErr = nil
	if partial != nil {
		s.warning = partial
	}
	s.mu.Unlock()

	if partial != nil {
		s.log.WithError(partial).Warn("completion not registered; roster may lag until retried")
	}

	s.recorder.Cancel()
	s.startAutoRefresh()

	return nil
}

// RetryRegistration replays a failed phase-two registration from the
// ledger. Clears the snapshot warning on success.
func (s *Session) RetryRegistration(ctx context.Context) error {
	if err := s.submitter.RetryRegistration(ctx, s.activityID); err != nil {
		return err
	}

	s.mu.Lock()
	s.warning = nil
	s.mu.Unlock()

	return nil
}

// ManualRefresh forces a roster fetch, clearing any rate-limit suppression.
func (s *Session) ManualRefresh(ctx context.Context) {
	s.poller.ManualRefresh(ctx)
}

// Poll runs one scheduled roster fetch attempt, subject to the poller's
// guards.
func (s *Session) Poll(ctx context.Context) {
	s.poller.Poll(ctx)
}

func (s *Session) aggregateReady(aggregate *domain.GroupAggregate) {
	s.mu.Lock()
	s.group = aggregate
	s.phase = domain.PhaseGroupResultReady
	cancel := s.refreshCancel
	s.refreshCancel = nil
	s.refreshDone = nil
	s.mu.Unlock()

	// The callback runs on the auto-refresh goroutine itself, so cancel
	// without waiting for it to drain.
	if cancel != nil {
		cancel()
	}

	s.log.WithField("participants", aggregate.Participants).Info("group result ready")
}

func (s *Session) startAutoRefresh() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.refreshCancel != nil || s.closed || s.group != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	s.refreshCancel = cancel
	s.refreshDone = done

	go s.autoRefresh(ctx, done)
}

func (s *Session) autoRefresh(ctx context.Context, done chan struct{}) {
	defer close(done)

	delay := time.NewTimer(openPollDelay)
	defer delay.Stop()
	select {
	case <-ctx.Done():
		return
	case <-delay.C:
	}
	s.poller.Poll(ctx)

	ticker := time.NewTicker(autoRefreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.poller.Poll(ctx)
		}
	}
}

type Snapshot struct {
	Phase          domain.Phase
	Activity       domain.Activity
	ElapsedSeconds int
	Individual     *domain.AnalysisResult
	Group          *domain.GroupAggregate
	Roster         domain.Roster
	Warning        error
	Err            error
	PollSuppressed bool
}

func (s *Session) Snapshot() Snapshot {
	roster := s.poller.Roster()
	suppressed := s.poller.Suppressed()
	elapsed := s.recorder.ElapsedSeconds()

	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		Phase:          s.phase,
		Activity:       s.activity,
		ElapsedSeconds: elapsed,
		Individual:     s.individual,
		Group:          s.group,
		Roster:         roster,
		Warning:        s.warning,
		Err:            s.lastErr,
		PollSuppressed: suppressed,
	}
}

// Close stops the auto-refresh interval and releases the capture device.
// Required on every teardown path.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	cancel := s.refreshCancel
	done := s.refreshDone
	s.refreshCancel = nil
	s.refreshDone = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}

	s.recorder.Close()
}

func (s *Session) setErr(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
}

// Recorder exposes the recording controller for per-second elapsed-time
// callbacks.
func (s *Session) Recorder() *Recorder {
	return s.recorder
}
