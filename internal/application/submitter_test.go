package application

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Johnmc130/SerenVoice/internal/domain"
	"github.com/Johnmc130/SerenVoice/internal/ports"
)

func newTestLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func TestSubmitterBothPhasesSucceed(t *testing.T) {
	t.Parallel()

	analysis := &fakeAnalysis{upload: ports.AnalysisUpload{Refs: sampleRefs(), Result: calmResult()}}
	participation := &fakeParticipation{}
	ledger := newFakeLedger()
	s := NewSubmitter(analysis, participation, ledger, newStepClock(), newTestLogger())

	outcome, err := s.Submit(context.Background(), "act-1", "part-9", sampleClip(), "user-1")
	require.NoError(t, err)
	assert.True(t, outcome.Registered)
	assert.Equal(t, sampleRefs(), outcome.Refs)
	assert.Equal(t, domain.EmotionFelicidad, outcome.Result.Dominant)
	assert.Equal(t, domain.ParticipationID("part-9"), participation.registeredID)

	entry, ok := ledger.entry("act-1")
	require.True(t, ok)
	assert.True(t, entry.Registered)
	assert.True(t, entry.Submitted())
	require.NotNil(t, entry.Result)
	assert.Equal(t, float64(70), entry.Result.Level(domain.EmotionFelicidad))
}

func TestSubmitterEmptyClip(t *testing.T) {
	t.Parallel()

	analysis := &fakeAnalysis{}
	s := NewSubmitter(analysis, &fakeParticipation{}, newFakeLedger(), newStepClock(), newTestLogger())

	_, err := s.Submit(context.Background(), "act-1", "part-9", domain.AudioClip{}, "user-1")
	require.ErrorIs(t, err, domain.ErrNoClip)
	assert.Equal(t, 0, analysis.calls)
}

func TestSubmitterAnalyzeFailureLeavesNoTrace(t *testing.T) {
	t.Parallel()

	analysis := &fakeAnalysis{err: &domain.NetworkError{Op: "analyze audio", Err: errors.New("connection reset")}}
	participation := &fakeParticipation{}
	ledger := newFakeLedger()
	s := NewSubmitter(analysis, participation, ledger, newStepClock(), newTestLogger())

	_, err := s.Submit(context.Background(), "act-1", "part-9", sampleClip(), "user-1")
	var netErr *domain.NetworkError
	require.ErrorAs(t, err, &netErr)

	// Phase one failed; nothing was registered and nothing was persisted,
	// so the same clip can be resubmitted as-is.
	assert.Equal(t, 0, participation.registered())
	_, ok := ledger.entry("act-1")
	assert.False(t, ok)
}

func TestSubmitterRegistrationFailureIsPartial(t *testing.T) {
	t.Parallel()

	analysis := &fakeAnalysis{upload: ports.AnalysisUpload{Refs: sampleRefs(), Result: calmResult()}}
	participation := &fakeParticipation{registerErr: errors.New("503 service unavailable")}
	ledger := newFakeLedger()
	s := NewSubmitter(analysis, participation, ledger, newStepClock(), newTestLogger())

	outcome, err := s.Submit(context.Background(), "act-1", "part-9", sampleClip(), "user-1")
	var partial *domain.PartialCompletionError
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, sampleRefs(), partial.Refs)

	// The analysis rows exist server-side, so the individual result still
	// comes back usable.
	assert.Equal(t, domain.EmotionFelicidad, outcome.Result.Dominant)
	assert.False(t, outcome.Registered)

	entry, ok := ledger.entry("act-1")
	require.True(t, ok)
	assert.True(t, entry.Submitted())
	assert.False(t, entry.Registered)
}

func TestSubmitterRetryRegistration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		seed          *domain.Ledger
		registerErr   error
		wantErr       error
		wantRegisters int
	}{
		{
			name:    "no ledger entry",
			wantErr: domain.ErrParticipationNotFound,
		},
		{
			name:    "entry without refs",
			seed:    &domain.Ledger{ActivityID: "act-1", ParticipationID: "part-9"},
			wantErr: domain.ErrParticipationNotFound,
		},
		{
			name:          "already registered is a no-op",
			seed:          &domain.Ledger{ActivityID: "act-1", ParticipationID: "part-9", Refs: sampleRefs(), Registered: true},
			wantRegisters: 0,
		},
		{
			name:          "pending entry is replayed",
			seed:          &domain.Ledger{ActivityID: "act-1", ParticipationID: "part-9", Refs: sampleRefs()},
			wantRegisters: 1,
		},
		{
			name:          "replay failure keeps the entry pending",
			seed:          &domain.Ledger{ActivityID: "act-1", ParticipationID: "part-9", Refs: sampleRefs()},
			registerErr:   errors.New("still down"),
			wantErr:       nil,
			wantRegisters: 1,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ledger := newFakeLedger()
			if tc.seed != nil {
				ledger.entries[tc.seed.ActivityID] = *tc.seed
			}
			participation := &fakeParticipation{registerErr: tc.registerErr}
			s := NewSubmitter(&fakeAnalysis{}, participation, ledger, newStepClock(), newTestLogger())

			err := s.RetryRegistration(context.Background(), "act-1")
			switch {
			case tc.wantErr != nil:
				require.ErrorIs(t, err, tc.wantErr)
			case tc.registerErr != nil:
				require.Error(t, err)
				entry, _ := ledger.entry("act-1")
				assert.False(t, entry.Registered)
			default:
				require.NoError(t, err)
				if tc.seed != nil {
					entry, _ := ledger.entry("act-1")
					assert.True(t, entry.Registered)
				}
			}
			assert.Equal(t, tc.wantRegisters, participation.registered())
		})
	}
}

func TestSubmitterLedgerWriteFailureDoesNotBlockSubmit(t *testing.T) {
	t.Parallel()

	analysis := &fakeAnalysis{upload: ports.AnalysisUpload{Refs: sampleRefs(), Result: calmResult()}}
	ledger := newFakeLedger()
	ledger.saveErr = errors.New("disk full")
	s := NewSubmitter(analysis, &fakeParticipation{}, ledger, newStepClock(), newTestLogger())

	outcome, err := s.Submit(context.Background(), "act-1", "part-9", sampleClip(), "user-1")
	require.NoError(t, err)
	assert.True(t, outcome.Registered)
}
