package ports

import (
	"context"

	"github.com/Johnmc130/SerenVoice/internal/domain"
)

// ParticipationClient is the roster-facing surface of the backend. The wire
// format is owned by the backend; adapters translate it to domain types so
// the session logic never sees transport details.
type ParticipationClient interface {
	GetActivity(ctx context.Context, id domain.ActivityID) (domain.Activity, error)
	Join(ctx context.Context, id domain.ActivityID) (domain.ParticipationID, error)
	RegisterCompletion(ctx context.Context, id domain.ParticipationID, refs domain.ResultRefs) error
	ListParticipants(ctx context.Context, id domain.ActivityID) (domain.Roster, error)
	// GetMyParticipation returns nil when the user has not joined.
	GetMyParticipation(ctx context.Context, id domain.ActivityID) (*domain.Participant, error)
}
