package ports

import (
	"context"

	"github.com/ewilliams-labs/moodlist/internal/core/domain"
)

// Catalog is the music-metadata and playlist provider. Authentication is
// entirely the adapter's concern; the core never sees tokens.
type Catalog interface {
	// SearchTracks fetches one page of track results for the query.
	SearchTracks(ctx context.Context, query string, limit, offset int) ([]domain.TrackCandidate, error)

	// ArtistFollowers resolves an artist to their follower count, the
	// popularity metric used as a discovery filter.
	ArtistFollowers(ctx context.Context, artistID string) (int, error)

	// CurrentUserID returns the id of the authenticated user.
	CurrentUserID(ctx context.Context) (string, error)

	// CreatePlaylist creates an empty playlist owned by userID.
	CreatePlaylist(ctx context.Context, userID, name, description string, public bool) (domain.PublishedPlaylist, error)

	// AddTracks appends trackIDs to the playlist in order, in one batch.
	AddTracks(ctx context.Context, playlistID string, trackIDs []string) error
}
