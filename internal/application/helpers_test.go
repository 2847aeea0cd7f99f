package application

import (
	"context"
	"sync"
	"time"

	"github.com/Johnmc130/SerenVoice/internal/domain"
	"github.com/Johnmc130/SerenVoice/internal/ports"
)

type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func newStepClock() *stepClock {
	return &stepClock{now: time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *stepClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type fakeRecorder struct {
	mu       sync.Mutex
	clip     domain.AudioClip
	startErr error
	stopErr  error
	started  bool
	released int

	// stopEntered/stopGate let a test pause Stop mid-flight to exercise
	// interleavings with Cancel.
	stopEntered chan struct{}
	stopGate    chan struct{}
}

func (r *fakeRecorder) Start(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.startErr != nil {
		return r.startErr
	}
	r.started = true
	return nil
}

func (r *fakeRecorder) Stop() (domain.AudioClip, error) {
	if r.stopEntered != nil {
		r.stopEntered <- struct{}{}
	}
	if r.stopGate != nil {
		<-r.stopGate
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopErr != nil {
		return domain.AudioClip{}, r.stopErr
	}
	return r.clip, nil
}

func (r *fakeRecorder) Release() {
	r.mu.Lock()
	r.released++
	r.mu.Unlock()
}

func (r *fakeRecorder) releases() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.released
}

type fakeDevice struct {
	mu         sync.Mutex
	rec        *fakeRecorder
	acquireErr error
	acquired   int
}

func (d *fakeDevice) Acquire(_ context.Context) (ports.AudioRecorder, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.acquireErr != nil {
		return nil, d.acquireErr
	}
	d.acquired++
	return d.rec, nil
}

type fakeAnalysis struct {
	mu     sync.Mutex
	upload ports.AnalysisUpload
	err    error
	calls  int
}

func (a *fakeAnalysis) Analyze(_ context.Context, _ domain.AudioClip, _ domain.UserID) (ports.AnalysisUpload, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls++
	if a.err != nil {
		return ports.AnalysisUpload{}, a.err
	}
	return a.upload, nil
}

type fakeParticipation struct {
	mu            sync.Mutex
	activity      domain.Activity
	activityErr   error
	joinID        domain.ParticipationID
	joinErr       error
	registerErr   error
	registerCalls int
	registeredID  domain.ParticipationID
	roster        domain.Roster
	listErr       error
	listCalls     int
	listGate      chan struct{}
	mine          *domain.Participant
	mineErr       error
}

func (f *fakeParticipation) GetActivity(_ context.Context, _ domain.ActivityID) (domain.Activity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.activityErr != nil {
		return domain.Activity{}, f.activityErr
	}
	return f.activity, nil
}

func (f *fakeParticipation) Join(_ context.Context, _ domain.ActivityID) (domain.ParticipationID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.joinErr != nil {
		return "", f.joinErr
	}
	return f.joinID, nil
}

func (f *fakeParticipation) RegisterCompletion(_ context.Context, id domain.ParticipationID, _ domain.ResultRefs) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registerCalls++
	if f.registerErr != nil {
		return f.registerErr
	}
	f.registeredID = id
	return nil
}

func (f *fakeParticipation) ListParticipants(_ context.Context, _ domain.ActivityID) (domain.Roster, error) {
	f.mu.Lock()
	f.listCalls++
	gate := f.listGate
	err := f.listErr
	roster := f.roster
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	return roster, nil
}

func (f *fakeParticipation) GetMyParticipation(_ context.Context, _ domain.ActivityID) (*domain.Participant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mineErr != nil {
		return nil, f.mineErr
	}
	return f.mine, nil
}

func (f *fakeParticipation) listed() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls
}

func (f *fakeParticipation) registered() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.registerCalls
}

type fakeLedger struct {
	mu      sync.Mutex
	entries map[domain.ActivityID]domain.Ledger
	saveErr error
	saves   int
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{entries: make(map[domain.ActivityID]domain.Ledger)}
}

func (l *fakeLedger) Get(_ context.Context, id domain.ActivityID) (domain.Ledger, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry, ok := l.entries[id]
	if !ok {
		return domain.Ledger{}, domain.ErrParticipationNotFound
	}
	return entry, nil
}

func (l *fakeLedger) Save(_ context.Context, entry domain.Ledger) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.saves++
	if l.saveErr != nil {
		return l.saveErr
	}
	l.entries[entry.ActivityID] = entry
	return nil
}

func (l *fakeLedger) entry(id domain.ActivityID) (domain.Ledger, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry, ok := l.entries[id]
	return entry, ok
}

func calmResult() domain.AnalysisResult {
	return domain.AnalysisResult{
		Levels: map[domain.Emotion]float64{
			domain.EmotionFelicidad: 70,
			domain.EmotionNeutral:   30,
		},
		Stress:   10,
		Anxiety:  5,
		Dominant: domain.EmotionFelicidad,
	}
}

func tenseResult() domain.AnalysisResult {
	return domain.AnalysisResult{
		Levels: map[domain.Emotion]float64{
			domain.EmotionTristeza: 60,
			domain.EmotionMiedo:    40,
		},
		Stress:   80,
		Anxiety:  70,
		Dominant: domain.EmotionTristeza,
	}
}

func completedParticipant(id domain.UserID, name string, result domain.AnalysisResult) domain.Participant {
	return domain.Participant{
		UserID: id,
		Name:   name,
		State:  domain.ParticipantCompleted,
		Result: &result,
	}
}

func sampleClip() domain.AudioClip {
	return domain.AudioClip{
		ID:              "clip-1",
		MIMEType:        "audio/wav",
		Data:            []byte("RIFFxxxx"),
		DurationSeconds: 7,
	}
}

func sampleRefs() domain.ResultRefs {
	return domain.ResultRefs{AudioID: "aud-1", AnalysisID: "ana-1", ResultID: "res-1"}
}
