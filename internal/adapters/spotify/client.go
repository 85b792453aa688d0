// Package spotify adapts the Spotify Web API to the catalog port.
package spotify

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	spotifylib "github.com/zmb3/spotify/v2"

	"github.com/ewilliams-labs/moodlist/internal/core/domain"
	"github.com/ewilliams-labs/moodlist/internal/core/ports"
)

const defaultMarket = "US"

// Client wraps the Spotify Web API client behind the catalog port.
type Client struct {
	api    *spotifylib.Client
	market string
}

// compile-time interface assertion
var _ ports.Catalog = (*Client)(nil)

// NewClient constructs a catalog client from an authenticated API client.
func NewClient(api *spotifylib.Client, market string) *Client {
	if market == "" {
		market = defaultMarket
	}
	return &Client{api: api, market: market}
}

// SearchTracks fetches one page of track results for the query.
func (c *Client) SearchTracks(ctx context.Context, query string, limit, offset int) ([]domain.TrackCandidate, error) {
	logrus.WithFields(logrus.Fields{
		"query":  query,
		"limit":  limit,
		"offset": offset,
	}).Debug("spotify adapter: track search")

	result, err := c.api.Search(ctx, query, spotifylib.SearchTypeTrack,
		spotifylib.Limit(limit),
		spotifylib.Offset(offset),
		spotifylib.Market(c.market),
	)
	if err != nil {
		return nil, fmt.Errorf("spotify adapter: search failed: %w", err)
	}
	if result.Tracks == nil {
		return []domain.TrackCandidate{}, nil
	}

	candidates := make([]domain.TrackCandidate, 0, len(result.Tracks.Tracks))
	for _, t := range result.Tracks.Tracks {
		candidates = append(candidates, mapTrackToDomain(t))
	}
	return candidates, nil
}

// ArtistFollowers resolves an artist id to their follower count.
func (c *Client) ArtistFollowers(ctx context.Context, artistID string) (int, error) {
	artist, err := c.api.GetArtist(ctx, spotifylib.ID(artistID))
	if err != nil {
		return 0, fmt.Errorf("spotify adapter: artist lookup failed: %w", err)
	}
	return int(artist.Followers.Count), nil
}

// CurrentUserID returns the authenticated user's id.
func (c *Client) CurrentUserID(ctx context.Context) (string, error) {
	user, err := c.api.CurrentUser(ctx)
	if err != nil {
		return "", fmt.Errorf("spotify adapter: current user: %w", err)
	}
	return user.ID, nil
}

// CreatePlaylist creates an empty playlist owned by userID.
func (c *Client) CreatePlaylist(ctx context.Context, userID, name, description string, public bool) (domain.PublishedPlaylist, error) {
	playlist, err := c.api.CreatePlaylistForUser(ctx, userID, name, description, public, false)
	if err != nil {
		return domain.PublishedPlaylist{}, fmt.Errorf("spotify adapter: create playlist: %w", err)
	}
	return domain.PublishedPlaylist{
		ID:  string(playlist.ID),
		URL: playlist.ExternalURLs["spotify"],
	}, nil
}

// AddTracks appends trackIDs to the playlist in order, in one batch call.
func (c *Client) AddTracks(ctx context.Context, playlistID string, trackIDs []string) error {
	ids := make([]spotifylib.ID, len(trackIDs))
	for i, id := range trackIDs {
		ids[i] = spotifylib.ID(id)
	}
	if _, err := c.api.AddTracksToPlaylist(ctx, spotifylib.ID(playlistID), ids...); err != nil {
		return fmt.Errorf("spotify adapter: add tracks: %w", err)
	}
	return nil
}

// mapTrackToDomain flattens a Spotify track to a candidate. Only the
// primary artist matters for the popularity filter.
func mapTrackToDomain(t spotifylib.FullTrack) domain.TrackCandidate {
	candidate := domain.TrackCandidate{
		ID:    string(t.ID),
		Title: t.Name,
		URL:   t.ExternalURLs["spotify"],
	}
	if len(t.Artists) > 0 {
		candidate.ArtistID = string(t.Artists[0].ID)
		candidate.ArtistName = t.Artists[0].Name
	}
	return candidate
}
