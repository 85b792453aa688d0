package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/ewilliams-labs/moodlist/internal/core/domain"
)

func newTestAdapter(t *testing.T) *Adapter {
	t.Helper()

	adapter, err := NewAdapter(":memory:")
	if err != nil {
		t.Fatalf("NewAdapter() error = %v", err)
	}
	t.Cleanup(func() { adapter.Close() })

	return adapter
}

func testDraft(t *testing.T) domain.Draft {
	t.Helper()

	draft, err := domain.NewDraft("draft-1", "songs for a rainy afternoon", "Rainy Day", 10, 50000)
	if err != nil {
		t.Fatalf("NewDraft() error = %v", err)
	}
	draft.Phrase = "rainy day indie folk"
	draft.Songs = []domain.Song{
		{
			TrackCandidate: domain.TrackCandidate{
				ID:         "t1",
				Title:      "Holocene",
				ArtistID:   "a1",
				ArtistName: "Bon Iver",
				URL:        "https://open.spotify.com/track/t1",
			},
			Explanation: "Sparse falsetto folk that suits a grey sky.",
		},
		{
			TrackCandidate: domain.TrackCandidate{
				ID:         "t2",
				Title:      "Re: Stacks",
				ArtistID:   "a1",
				ArtistName: "Bon Iver",
			},
		},
	}

	return *draft
}

func TestAdapter_SaveAndGetByID(t *testing.T) {
	adapter := newTestAdapter(t)
	ctx := context.Background()

	want := testDraft(t)
	if err := adapter.Save(ctx, want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := adapter.GetByID(ctx, want.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}

	if got.ID != want.ID {
		t.Errorf("ID = %q, want %q", got.ID, want.ID)
	}
	if got.SourceText != want.SourceText {
		t.Errorf("SourceText = %q, want %q", got.SourceText, want.SourceText)
	}
	if got.Phrase != want.Phrase {
		t.Errorf("Phrase = %q, want %q", got.Phrase, want.Phrase)
	}
	if got.Name != want.Name {
		t.Errorf("Name = %q, want %q", got.Name, want.Name)
	}
	if got.RequestedCount != want.RequestedCount {
		t.Errorf("RequestedCount = %d, want %d", got.RequestedCount, want.RequestedCount)
	}
	if got.PopularityCeiling != want.PopularityCeiling {
		t.Errorf("PopularityCeiling = %d, want %d", got.PopularityCeiling, want.PopularityCeiling)
	}
	if len(got.Songs) != 2 {
		t.Fatalf("len(Songs) = %d, want 2", len(got.Songs))
	}
	if got.Songs[0].Title != "Holocene" || got.Songs[1].Title != "Re: Stacks" {
		t.Errorf("songs out of order: %q, %q", got.Songs[0].Title, got.Songs[1].Title)
	}
	if got.Songs[0].Explanation != want.Songs[0].Explanation {
		t.Errorf("Explanation = %q, want %q", got.Songs[0].Explanation, want.Songs[0].Explanation)
	}
	if got.Songs[1].URL != "" {
		t.Errorf("URL = %q, want empty", got.Songs[1].URL)
	}
}

func TestAdapter_GetByID_NotFound(t *testing.T) {
	adapter := newTestAdapter(t)

	_, err := adapter.GetByID(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestAdapter_SaveReplacesSongs(t *testing.T) {
	adapter := newTestAdapter(t)
	ctx := context.Background()

	draft := testDraft(t)
	if err := adapter.Save(ctx, draft); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	draft.ReplaceSongs([]domain.Song{
		{TrackCandidate: domain.TrackCandidate{ID: "t9", Title: "Motion Sickness", ArtistID: "a2", ArtistName: "Phoebe Bridgers"}},
	})
	if err := adapter.Save(ctx, draft); err != nil {
		t.Fatalf("Save() after regenerate error = %v", err)
	}

	got, err := adapter.GetByID(ctx, draft.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if len(got.Songs) != 1 {
		t.Fatalf("len(Songs) = %d, want 1", len(got.Songs))
	}
	if got.Songs[0].ID != "t9" {
		t.Errorf("song ID = %q, want t9", got.Songs[0].ID)
	}
}

func TestAdapter_UpdateSongExplanation(t *testing.T) {
	adapter := newTestAdapter(t)
	ctx := context.Background()

	draft := testDraft(t)
	if err := adapter.Save(ctx, draft); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if err := adapter.UpdateSongExplanation(ctx, draft.ID, "t2", "Quiet acoustic closer for winding down."); err != nil {
		t.Fatalf("UpdateSongExplanation() error = %v", err)
	}

	got, err := adapter.GetByID(ctx, draft.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Songs[1].Explanation != "Quiet acoustic closer for winding down." {
		t.Errorf("Explanation = %q, want patched value", got.Songs[1].Explanation)
	}
	if got.Songs[0].Explanation != draft.Songs[0].Explanation {
		t.Errorf("sibling explanation changed: %q", got.Songs[0].Explanation)
	}
}

func TestAdapter_Delete(t *testing.T) {
	adapter := newTestAdapter(t)
	ctx := context.Background()

	draft := testDraft(t)
	if err := adapter.Save(ctx, draft); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if err := adapter.Delete(ctx, draft.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := adapter.GetByID(ctx, draft.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("GetByID() after delete error = %v, want ErrNotFound", err)
	}
}
