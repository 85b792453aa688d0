package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ewilliams-labs/moodlist/internal/core/domain"
	"github.com/ewilliams-labs/moodlist/internal/core/ports"
)

// ExplanationScheduler queues display-only explanation jobs. Scheduling
// must never block or fail the generation flow.
type ExplanationScheduler interface {
	Schedule(draftID, trackID, phrase, title, artist string)
}

// GenerateRequest carries the user's generation parameters.
type GenerateRequest struct {
	Description  string
	Name         string
	Count        int
	MaxFollowers int
}

// Generator coordinates phrase extraction, candidate resolution, draft
// persistence and publishing.
type Generator struct {
	extractor ports.PhraseExtractor
	resolver  *Resolver
	catalog   ports.Catalog
	repo      ports.DraftRepository
	scheduler ExplanationScheduler
}

// NewGenerator constructs a Generator. scheduler may be nil, in which
// case songs keep empty explanations.
func NewGenerator(extractor ports.PhraseExtractor, resolver *Resolver, catalog ports.Catalog, repo ports.DraftRepository, scheduler ExplanationScheduler) *Generator {
	return &Generator{
		extractor: extractor,
		resolver:  resolver,
		catalog:   catalog,
		repo:      repo,
		scheduler: scheduler,
	}
}

// Generate runs one full generation cycle and stores the resulting draft.
// A failed phrase extraction degrades to an empty draft rather than
// searching for garbage; a failed resolution aborts with no draft at all.
func (g *Generator) Generate(ctx context.Context, req GenerateRequest) (domain.Draft, error) {
	draft, err := domain.NewDraft(uuid.NewString(), req.Description, req.Name, req.Count, req.MaxFollowers)
	if err != nil {
		return domain.Draft{}, err
	}

	songs, phrase, err := g.run(ctx, req.Description, req.Count, req.MaxFollowers)
	if err != nil {
		return domain.Draft{}, err
	}
	draft.Phrase = phrase
	draft.ReplaceSongs(songs)

	if err := g.repo.Save(ctx, *draft); err != nil {
		return domain.Draft{}, fmt.Errorf("service: failed to save draft: %w", err)
	}

	g.scheduleExplanations(*draft)
	return *draft, nil
}

// Regenerate re-runs extraction and resolution using the draft's stored
// source text and parameters, fully replacing its songs.
func (g *Generator) Regenerate(ctx context.Context, draftID string) (domain.Draft, error) {
	draft, err := g.repo.GetByID(ctx, draftID)
	if err != nil {
		return domain.Draft{}, fmt.Errorf("service: failed to load draft: %w", err)
	}

	songs, phrase, err := g.run(ctx, draft.SourceText, draft.RequestedCount, draft.PopularityCeiling)
	if err != nil {
		return domain.Draft{}, err
	}
	draft.Phrase = phrase
	draft.ReplaceSongs(songs)

	if err := g.repo.Save(ctx, draft); err != nil {
		return domain.Draft{}, fmt.Errorf("service: failed to save draft: %w", err)
	}

	g.scheduleExplanations(draft)
	return draft, nil
}

// GetDraft returns the stored draft, explanations included as far as the
// worker has gotten.
func (g *Generator) GetDraft(ctx context.Context, draftID string) (domain.Draft, error) {
	return g.repo.GetByID(ctx, draftID)
}

// Discard removes an abandoned draft and its songs.
func (g *Generator) Discard(ctx context.Context, draftID string) error {
	if err := g.repo.Delete(ctx, draftID); err != nil {
		return fmt.Errorf("service: failed to discard draft: %w", err)
	}
	return nil
}

// Publish creates a public playlist from the draft's snapshot of track
// ids. If appending tracks fails after creation, the empty playlist
// persists on the catalog service; that is accepted, not remediated.
func (g *Generator) Publish(ctx context.Context, draftID, name string) (domain.PublishedPlaylist, error) {
	draft, err := g.repo.GetByID(ctx, draftID)
	if err != nil {
		return domain.PublishedPlaylist{}, fmt.Errorf("service: failed to load draft: %w", err)
	}

	if strings.TrimSpace(name) == "" {
		name = draft.Name
	}
	if strings.TrimSpace(name) == "" {
		return domain.PublishedPlaylist{}, domain.ErrInvalidName
	}

	trackIDs := draft.TrackIDs()
	if len(trackIDs) == 0 {
		return domain.PublishedPlaylist{}, domain.ErrEmptyDraft
	}

	userID, err := g.catalog.CurrentUserID(ctx)
	if err != nil {
		return domain.PublishedPlaylist{}, fmt.Errorf("service: failed to resolve user: %w", err)
	}

	description := fmt.Sprintf("Generated by Moodlist on %s", time.Now().Format("2006-01-02"))
	playlist, err := g.catalog.CreatePlaylist(ctx, userID, name, description, true)
	if err != nil {
		return domain.PublishedPlaylist{}, fmt.Errorf("service: failed to create playlist: %w", err)
	}

	if err := g.catalog.AddTracks(ctx, playlist.ID, trackIDs); err != nil {
		return domain.PublishedPlaylist{}, fmt.Errorf("service: failed to add tracks: %w", err)
	}

	return playlist, nil
}

// run extracts a search phrase and resolves candidates for it.
func (g *Generator) run(ctx context.Context, sourceText string, count, ceiling int) ([]domain.Song, string, error) {
	phrase, err := g.extractor.ExtractPhrase(ctx, sourceText)
	if err != nil {
		// No usable phrase means no search, not a crash. The resolver
		// short-circuits on the empty phrase below.
		logrus.WithError(err).Warn("phrase extraction failed, skipping search")
		phrase = ""
	}

	songs, err := g.resolver.Resolve(ctx, phrase, count, ceiling)
	if err != nil {
		return nil, "", fmt.Errorf("service: resolution aborted: %w", err)
	}
	return songs, phrase, nil
}

func (g *Generator) scheduleExplanations(draft domain.Draft) {
	if g.scheduler == nil {
		return
	}
	for _, song := range draft.Songs {
		g.scheduler.Schedule(draft.ID, song.ID, draft.Phrase, song.Title, song.ArtistName)
	}
}
