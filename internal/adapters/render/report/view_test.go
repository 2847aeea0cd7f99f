package report

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Johnmc130/SerenVoice/internal/application"
	"github.com/Johnmc130/SerenVoice/internal/domain"
)

func sampleActivity() domain.Activity {
	return domain.Activity{
		ID:                    "12",
		Title:                 "Círculo de escucha",
		State:                 domain.ActivityInProgress,
		TotalParticipants:     4,
		CompletedParticipants: 2,
	}
}

func TestRenderIndividualResult(t *testing.T) {
	output, err := Render(application.Snapshot{
		Phase:    domain.PhaseAwaitingGroup,
		Activity: sampleActivity(),
		Individual: &domain.AnalysisResult{
			Levels: map[domain.Emotion]float64{
				domain.EmotionFelicidad: 70,
				domain.EmotionNeutral:   30,
			},
			Stress:   10,
			Anxiety:  5,
			Dominant: domain.EmotionFelicidad,
		},
	}, RenderOptions{})

	require.NoError(t, err)
	assert.Contains(t, output, "Círculo de escucha")
	assert.Contains(t, output, "esperando al grupo")
	assert.Contains(t, output, "avance: 50%")
	assert.Contains(t, output, "Tu resultado")
	assert.Contains(t, output, "felicidad")
	assert.Contains(t, output, " 70%")
	assert.Contains(t, output, "estrés: 10%")
	assert.Contains(t, output, "Esperando al resto del grupo (2 de 4 completados).")
}

func TestRenderGroupResult(t *testing.T) {
	group := domain.ComputeAggregate([]domain.AnalysisResult{
		{
			Levels:   map[domain.Emotion]float64{domain.EmotionFelicidad: 70, domain.EmotionNeutral: 30},
			Stress:   10,
			Anxiety:  5,
			Dominant: domain.EmotionFelicidad,
		},
		{
			Levels:   map[domain.Emotion]float64{domain.EmotionTristeza: 60, domain.EmotionMiedo: 40},
			Stress:   80,
			Anxiety:  70,
			Dominant: domain.EmotionTristeza,
		},
	})
	require.NotNil(t, group)

	output, err := Render(application.Snapshot{
		Phase:    domain.PhaseGroupResultReady,
		Activity: sampleActivity(),
		Group:    group,
	}, RenderOptions{})

	require.NoError(t, err)
	assert.Contains(t, output, "Resultado grupal (2 participantes)")
	assert.Contains(t, output, "estrés promedio: 45%")
	assert.Contains(t, output, "ansiedad promedio: 38%")
	assert.Contains(t, output, "bienestar:")
	assert.Contains(t, output, string(group.Band))
	assert.Contains(t, output, group.Advice)
}

func TestRenderRoster(t *testing.T) {
	result := domain.AnalysisResult{
		Levels:   map[domain.Emotion]float64{domain.EmotionFelicidad: 70},
		Dominant: domain.EmotionFelicidad,
	}

	output, err := Render(application.Snapshot{
		Phase:    domain.PhaseAwaitingGroup,
		Activity: sampleActivity(),
		Roster: domain.Roster{
			{UserID: "7", Name: "Ana", State: domain.ParticipantCompleted, Result: &result},
			{UserID: "8", Name: "Luis", State: domain.ParticipantPending},
		},
	}, RenderOptions{ShowRoster: true})

	require.NoError(t, err)
	assert.Contains(t, output, "Participantes (1 de 2 completados)")
	assert.Contains(t, output, "✓ Ana")
	assert.Contains(t, output, "… Luis (pendiente)")
}

func TestRenderWarnings(t *testing.T) {
	output, err := Render(application.Snapshot{
		Phase:    domain.PhaseAwaitingGroup,
		Activity: sampleActivity(),
		Warning: &domain.PartialCompletionError{
			Refs: domain.ResultRefs{AudioID: "41", AnalysisID: "52", ResultID: "63"},
			Err:  errors.New("503 service unavailable"),
		},
		PollSuppressed: true,
	}, RenderOptions{})

	require.NoError(t, err)
	assert.Contains(t, output, "aviso:")
	assert.Contains(t, output, "completion not registered")
	assert.Contains(t, output, "consultas automáticas pausadas")
}
