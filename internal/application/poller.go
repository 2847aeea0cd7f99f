package application

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Johnmc130/SerenVoice/internal/domain"
	"github.com/Johnmc130/SerenVoice/internal/ports"
)

// pollDebounce is the minimum spacing between roster fetches, keyed on the
// dispatch timestamp of the previous attempt regardless of its outcome.
const pollDebounce = 5 * time.Second

// RosterPoller fetches the participant roster under a single-flight guard
// and a dispatch debounce. A 429 puts it into a suppressed mode where
// scheduled polls are dropped until a manual refresh; every other fetch
// error is logged and swallowed, leaving the previous roster in place.
type RosterPoller struct {
	client      ports.ParticipationClient
	clock       ports.Clock
	log         logrus.FieldLogger
	activityID  domain.ActivityID
	onAggregate func(*domain.GroupAggregate)

	mu           sync.Mutex
	inFlight     bool
	lastDispatch time.Time
	suppressed   bool
	roster       domain.Roster
	aggregate    *domain.GroupAggregate
}

func NewRosterPoller(client ports.ParticipationClient, clock ports.Clock, log logrus.FieldLogger, activityID domain.ActivityID, onAggregate func(*domain.GroupAggregate)) *RosterPoller {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &RosterPoller{
		client:      client,
		clock:       clock,
		log:         log.WithField("activity_id", activityID),
		activityID:  activityID,
		onAggregate: onAggregate,
	}
}

// Poll fetches the roster unless a fetch is already in flight, the previous
// dispatch was under the debounce window ago, or polling is suppressed
// after a rate limit. All three cases are silent no-ops.
func (p *RosterPoller) Poll(ctx context.Context) {
	p.mu.Lock()
	if p.inFlight || p.suppressed {
		p.mu.Unlock()
		return
	}
	now := p.clock.Now()
	if !p.lastDispatch.IsZero() && now.Sub(p.lastDispatch) < pollDebounce {
		p.mu.Unlock()
		return
	}
	p.inFlight = true
	p.lastDispatch = now
	p.mu.Unlock()

	p.fetch(ctx)
}

// ManualRefresh clears rate-limit suppression and dispatches immediately,
// bypassing the debounce. The single-flight guard still holds: a refresh
// issued during an in-flight fetch only clears the suppression.
func (p *RosterPoller) ManualRefresh(ctx context.Context) {
	p.mu.Lock()
	p.suppressed = false
	if p.inFlight {
		p.mu.Unlock()
		return
	}
	p.inFlight = true
	p.lastDispatch = p.clock.Now()
	p.mu.Unlock()

	p.fetch(ctx)
}

func (p *RosterPoller) fetch(ctx context.Context) {
	defer func() {
		p.mu.Lock()
		p.inFlight = false
		p.mu.Unlock()
	}()

	roster, err := p.client.ListParticipants(ctx, p.activityID)
	if err != nil {
		if errors.Is(err, domain.ErrRateLimited) {
			p.mu.Lock()
			p.suppressed = true
			p.mu.Unlock()
			p.log.Warn("roster fetch rate limited; automatic polling paused until manual refresh")
			return
		}
		p.log.WithError(err).Warn("roster fetch failed; keeping previous roster")
		return
	}

	p.mu.Lock()
	p.roster = roster
	var aggregate *domain.GroupAggregate
	if roster.AllCompleted() {
		aggregate = domain.ComputeAggregate(roster.Results())
		p.aggregate = aggregate
	}
	p.mu.Unlock()

	if aggregate != nil && p.onAggregate != nil {
		p.onAggregate(aggregate)
	}
}

func (p *RosterPoller) Roster() domain.Roster {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.roster
}

func (p *RosterPoller) Aggregate() *domain.GroupAggregate {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.aggregate
}

func (p *RosterPoller) Suppressed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.suppressed
}
