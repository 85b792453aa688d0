package domain

import (
	"reflect"
	"testing"
)

func TestNewDraft(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		count   int
		ceiling int
		wantErr bool
	}{
		{name: "valid draft", id: "d1", count: 10, ceiling: 50000, wantErr: false},
		{name: "count at lower bound", id: "d1", count: 1, ceiling: 0, wantErr: false},
		{name: "count at upper bound", id: "d1", count: 100, ceiling: 0, wantErr: false},
		{name: "missing id", id: "", count: 10, ceiling: 0, wantErr: true},
		{name: "count too low", id: "d1", count: 0, ceiling: 0, wantErr: true},
		{name: "count too high", id: "d1", count: 101, ceiling: 0, wantErr: true},
		{name: "negative ceiling", id: "d1", count: 10, ceiling: -1, wantErr: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			d, err := NewDraft(tc.id, "chill evening music", "Evening Mix", tc.count, tc.ceiling)
			if (err != nil) != tc.wantErr {
				t.Fatalf("unexpected error state: got err=%v wantErr=%v", err, tc.wantErr)
			}
			if tc.wantErr {
				return
			}
			if d.Songs == nil || len(d.Songs) != 0 {
				t.Fatalf("expected empty song list, got %v", d.Songs)
			}
			if d.RequestedCount != tc.count {
				t.Fatalf("requested count: got %d, want %d", d.RequestedCount, tc.count)
			}
		})
	}
}

func TestDraft_ReplaceSongs(t *testing.T) {
	d, err := NewDraft("d1", "text", "Name", 5, 1000)
	if err != nil {
		t.Fatalf("failed to create draft: %v", err)
	}

	first := []Song{
		{TrackCandidate: TrackCandidate{ID: "t1", Title: "One"}},
		{TrackCandidate: TrackCandidate{ID: "t2", Title: "Two"}},
	}
	d.ReplaceSongs(first)
	if len(d.Songs) != 2 {
		t.Fatalf("expected 2 songs, got %d", len(d.Songs))
	}

	// Regeneration replaces, never merges.
	second := []Song{{TrackCandidate: TrackCandidate{ID: "t3", Title: "Three"}}}
	d.ReplaceSongs(second)
	if len(d.Songs) != 1 || d.Songs[0].ID != "t3" {
		t.Fatalf("expected songs to be fully replaced, got %+v", d.Songs)
	}

	d.ReplaceSongs(nil)
	if d.Songs == nil || len(d.Songs) != 0 {
		t.Fatalf("expected empty (non-nil) song list, got %v", d.Songs)
	}
}

func TestDraft_TrackIDs(t *testing.T) {
	d := Draft{Songs: []Song{
		{TrackCandidate: TrackCandidate{ID: "a"}},
		{TrackCandidate: TrackCandidate{ID: "b"}},
		{TrackCandidate: TrackCandidate{ID: "c"}},
	}}

	ids := d.TrackIDs()
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(ids, want) {
		t.Fatalf("track ids: got %v, want %v", ids, want)
	}

	// The snapshot must be independent of later mutations.
	d.ReplaceSongs(nil)
	if !reflect.DeepEqual(ids, want) {
		t.Fatalf("snapshot mutated: got %v, want %v", ids, want)
	}
}
