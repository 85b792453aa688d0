package ports

import (
	"context"

	"github.com/ewilliams-labs/moodlist/internal/core/domain"
)

// DraftRepository persists playlist drafts. Save is a full replacement:
// the stored song list always mirrors the draft's current one.
type DraftRepository interface {
	GetByID(ctx context.Context, id string) (domain.Draft, error)
	Save(ctx context.Context, d domain.Draft) error
	UpdateSongExplanation(ctx context.Context, draftID, trackID, explanation string) error
	Delete(ctx context.Context, id string) error
}
