package ports

import (
	"context"

	"github.com/Johnmc130/SerenVoice/internal/domain"
)

// LedgerRepository stores the local participation ledger. Get returns
// domain.ErrParticipationNotFound when no entry exists for the activity.
type LedgerRepository interface {
	Get(ctx context.Context, id domain.ActivityID) (domain.Ledger, error)
	Save(ctx context.Context, ledger domain.Ledger) error
}
