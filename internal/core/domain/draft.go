package domain

import (
	"errors"
	"time"
)

const (
	// MinRequestedCount and MaxRequestedCount bound how many songs a
	// draft may ask for.
	MinRequestedCount = 1
	MaxRequestedCount = 100
)

// Draft is the in-progress, not-yet-published ordered track list for one
// generation cycle. Song order is insertion order and is also the
// display and publish order. Regeneration fully replaces the songs; it
// never merges or appends.
type Draft struct {
	ID                string    `json:"id"`
	SourceText        string    `json:"source_text"`
	Phrase            string    `json:"phrase"`
	Name              string    `json:"name"`
	RequestedCount    int       `json:"requested_count"`
	PopularityCeiling int       `json:"popularity_ceiling"`
	Songs             []Song    `json:"songs"`
	CreatedAt         time.Time `json:"created_at"`
}

// NewDraft validates the generation parameters and returns an empty draft.
func NewDraft(id, sourceText, name string, requestedCount, popularityCeiling int) (*Draft, error) {
	if id == "" {
		return nil, errors.New("domain: draft id is required")
	}
	if requestedCount < MinRequestedCount || requestedCount > MaxRequestedCount {
		return nil, errors.New("domain: requested count must be between 1 and 100")
	}
	if popularityCeiling < 0 {
		return nil, errors.New("domain: popularity ceiling must be >= 0")
	}
	return &Draft{
		ID:                id,
		SourceText:        sourceText,
		Name:              name,
		RequestedCount:    requestedCount,
		PopularityCeiling: popularityCeiling,
		Songs:             []Song{},
		CreatedAt:         time.Now().UTC(),
	}, nil
}

// ReplaceSongs swaps the whole song list. Used both for the initial
// generation and for regeneration.
func (d *Draft) ReplaceSongs(songs []Song) {
	if songs == nil {
		songs = []Song{}
	}
	d.Songs = songs
}

// TrackIDs snapshots the ordered track identifiers for publishing, so a
// concurrent regeneration cannot mutate the list mid-publish.
func (d *Draft) TrackIDs() []string {
	ids := make([]string, len(d.Songs))
	for i, s := range d.Songs {
		ids[i] = s.ID
	}
	return ids
}
