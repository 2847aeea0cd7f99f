package toml

import (
	"fmt"
	"time"

	"github.com/Johnmc130/SerenVoice/internal/domain"
)

const currentSchemaVersion = 1

type fileSchema struct {
	Version        int            `toml:"version"`
	Participations []ledgerSchema `toml:"participations"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported ledger schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type ledgerSchema struct {
	ActivityID      string        `toml:"activity_id"`
	ParticipationID string        `toml:"participation_id"`
	AudioID         string        `toml:"audio_id,omitempty"`
	AnalysisID      string        `toml:"analysis_id,omitempty"`
	ResultID        string        `toml:"result_id,omitempty"`
	Result          *resultSchema `toml:"result,omitempty"`
	Registered      bool          `toml:"registered"`
	SubmittedAt     string        `toml:"submitted_at,omitempty"`
}

type resultSchema struct {
	Levels   map[string]float64 `toml:"levels"`
	Stress   float64            `toml:"stress"`
	Anxiety  float64            `toml:"anxiety"`
	Dominant string             `toml:"dominant"`
}

func toSchema(entry domain.Ledger) ledgerSchema {
	encoded := ledgerSchema{
		ActivityID:      string(entry.ActivityID),
		ParticipationID: string(entry.ParticipationID),
		AudioID:         string(entry.Refs.AudioID),
		AnalysisID:      string(entry.Refs.AnalysisID),
		ResultID:        string(entry.Refs.ResultID),
		Registered:      entry.Registered,
	}
	if !entry.SubmittedAt.IsZero() {
		encoded.SubmittedAt = entry.SubmittedAt.UTC().Format(time.RFC3339)
	}
	if entry.Result != nil {
		levels := make(map[string]float64, len(entry.Result.Levels))
		for emotion, level := range entry.Result.Levels {
			levels[string(emotion)] = level
		}
		encoded.Result = &resultSchema{
			Levels:   levels,
			Stress:   entry.Result.Stress,
			Anxiety:  entry.Result.Anxiety,
			Dominant: string(entry.Result.Dominant),
		}
	}

	return encoded
}

func fromSchema(encoded ledgerSchema) domain.Ledger {
	entry := domain.Ledger{
		ActivityID:      domain.ActivityID(encoded.ActivityID),
		ParticipationID: domain.ParticipationID(encoded.ParticipationID),
		Refs: domain.ResultRefs{
			AudioID:    domain.AudioID(encoded.AudioID),
			AnalysisID: domain.AnalysisID(encoded.AnalysisID),
			ResultID:   domain.ResultID(encoded.ResultID),
		},
		Registered: encoded.Registered,
	}
	if encoded.SubmittedAt != "" {
		if parsed, err := time.Parse(time.RFC3339, encoded.SubmittedAt); err == nil {
			entry.SubmittedAt = parsed
		}
	}
	if encoded.Result != nil {
		levels := make(map[domain.Emotion]float64, len(encoded.Result.Levels))
		for emotion, level := range encoded.Result.Levels {
			levels[domain.Emotion(emotion)] = level
		}
		entry.Result = &domain.AnalysisResult{
			Levels:   levels,
			Stress:   encoded.Result.Stress,
			Anxiety:  encoded.Result.Anxiety,
			Dominant: domain.Emotion(encoded.Result.Dominant),
		}
	}

	return entry
}
