package watchlist

import (
	"context"

	"github.com/habbababbai/entertainment-tracker/internal/server/models"
)

type Repository interface {
	Add(ctx context.Context, item *models.WatchlistItem) (*models.WatchlistItem, error)
	ListByUser(ctx context.Context, userID string) ([]*models.WatchlistItem, error)
	Remove(ctx context.Context, userID, imdbID string) error
	SetWatched(ctx context.Context, userID, imdbID string, watched bool) error
}
