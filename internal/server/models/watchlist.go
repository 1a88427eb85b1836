package models

import "time"

// WatchlistItem is a media item saved to a user's list. The (UserID, ImdbID)
// pair is unique; re-adding an item refreshes the stored metadata instead of
// duplicating the row.
type WatchlistItem struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	ImdbID    string    `json:"imdbID"`
	Title     string    `json:"title"`
	Year      string    `json:"year"`
	Type      string    `json:"type"`
	PosterURL string    `json:"posterUrl"`
	Watched   bool      `json:"watched"`
	AddedAt   time.Time `json:"addedAt"`
}
