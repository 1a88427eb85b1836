package models

// MediaItem is our normalized view of a metadata provider record. Upstream
// "N/A" markers are already mapped to empty strings; Year and Runtime stay
// strings because upstream formats vary ("2011–2019", "22 min").
type MediaItem struct {
	ImdbID     string `json:"imdbID"`
	Title      string `json:"title"`
	Year       string `json:"year"`
	Type       string `json:"type"`
	PosterURL  string `json:"posterUrl"`
	Plot       string `json:"plot,omitempty"`
	Genre      string `json:"genre,omitempty"`
	Runtime    string `json:"runtime,omitempty"`
	ImdbRating string `json:"imdbRating,omitempty"`
}
