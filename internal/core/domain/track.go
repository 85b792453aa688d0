package domain

// TrackCandidate is a track returned by a catalog search that has not yet
// been accepted into a draft. Immutable once fetched.
type TrackCandidate struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	ArtistID   string `json:"artist_id"`
	ArtistName string `json:"artist"`
	URL        string `json:"url"`
}

// ExplanationUnavailable is the visible placeholder shown when the
// language model could not produce a rationale for a pick.
const ExplanationUnavailable = "No explanation available."

// Song is a candidate that passed every filter. Explanation is
// display-only; it is empty until the explanation worker fills it in.
type Song struct {
	TrackCandidate
	Explanation string `json:"explanation,omitempty"`
}

// PublishedPlaylist identifies a playlist created on the catalog service.
type PublishedPlaylist struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}
