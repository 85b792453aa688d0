package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/ewilliams-labs/moodlist/internal/core/domain"
	"github.com/ewilliams-labs/moodlist/internal/core/ports"
)

const (
	// searchPageSize is how many tracks one catalog search page returns.
	searchPageSize = 50

	// maxPhraseLen caps the search phrase before it is sent to the catalog.
	maxPhraseLen = 200
)

// excludedTitleKeywords reject alternate versions of a track by substring
// match on the lowercased title. This is a cheap heuristic, not a
// classifier: a legitimate track titled "Live Free" is a false positive
// we accept.
var excludedTitleKeywords = []string{
	"remix", "edit", "version", "live", "rework",
	"acoustic", "cover", "tribute", "karaoke",
}

// Resolver turns a search phrase into an ordered list of accepted songs.
// It paginates catalog search results, deduplicates by normalized title
// and by track id, rejects alternate versions, and filters by artist
// popularity ceiling.
type Resolver struct {
	catalog ports.Catalog
}

// NewResolver constructs a Resolver.
func NewResolver(catalog ports.Catalog) *Resolver {
	return &Resolver{catalog: catalog}
}

// Resolve collects up to targetCount songs matching phrase whose primary
// artist has at most popularityCeiling followers.
//
// Acceptance order is stable: within a page, candidates are evaluated in
// catalog order; earlier pages always precede later ones. Any transport
// error fails closed and returns no songs at all, never a partial list.
// Contexts are only checked at page boundaries, the one safe
// cancellation point.
func (r *Resolver) Resolve(ctx context.Context, phrase string, targetCount, popularityCeiling int) ([]domain.Song, error) {
	phrase = strings.TrimSpace(phrase)
	if phrase == "" || targetCount <= 0 {
		return []domain.Song{}, nil
	}
	if runes := []rune(phrase); len(runes) > maxPhraseLen {
		phrase = string(runes[:maxPhraseLen])
	}

	accepted := make([]domain.Song, 0, targetCount)
	seenTitles := make(map[string]struct{}, targetCount)
	seenIDs := make(map[string]struct{}, targetCount)

	// Artists often have several tracks in one result stream; caching the
	// follower count per run saves the repeat lookups without changing
	// the output.
	followerCache := make(map[string]int)

	offset := 0
	for len(accepted) < targetCount {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("resolver: canceled: %w", err)
		}

		page, err := r.catalog.SearchTracks(ctx, phrase, searchPageSize, offset)
		if err != nil {
			return nil, fmt.Errorf("resolver: search failed: %w", err)
		}
		if len(page) == 0 {
			break
		}

		for _, candidate := range page {
			title := strings.ToLower(candidate.Title)
			if _, dup := seenTitles[title]; dup {
				continue
			}
			if _, dup := seenIDs[candidate.ID]; dup {
				continue
			}
			if titleExcluded(title) {
				continue
			}

			followers, cached := followerCache[candidate.ArtistID]
			if !cached {
				followers, err = r.catalog.ArtistFollowers(ctx, candidate.ArtistID)
				if err != nil {
					return nil, fmt.Errorf("resolver: artist lookup failed: %w", err)
				}
				followerCache[candidate.ArtistID] = followers
			}
			if followers > popularityCeiling {
				continue
			}

			seenTitles[title] = struct{}{}
			seenIDs[candidate.ID] = struct{}{}
			accepted = append(accepted, domain.Song{TrackCandidate: candidate})
			if len(accepted) >= targetCount {
				break
			}
		}

		offset += searchPageSize
	}

	if len(accepted) > targetCount {
		accepted = accepted[:targetCount]
	}
	return accepted, nil
}

func titleExcluded(lowerTitle string) bool {
	for _, kw := range excludedTitleKeywords {
		if strings.Contains(lowerTitle, kw) {
			return true
		}
	}
	return false
}
