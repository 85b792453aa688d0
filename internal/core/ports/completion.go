package ports

import "context"

// PhraseExtractor compresses free-form user text into a short phrase
// suitable for a catalog search.
type PhraseExtractor interface {
	ExtractPhrase(ctx context.Context, freeText string) (string, error)
}

// Explainer produces a one-sentence rationale for why a picked song fits
// the search phrase. Output is display-only.
type Explainer interface {
	ExplainPick(ctx context.Context, phrase, title, artist string) (string, error)
}
