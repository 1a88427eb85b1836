// Package watchlist provides a PostgreSQL-backed repository for per-user
// watchlist items.
package watchlist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/habbababbai/entertainment-tracker/internal/common"
	"github.com/habbababbai/entertainment-tracker/internal/dbx"
	"github.com/habbababbai/entertainment-tracker/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Add inserts the item, or refreshes the stored metadata when the user
// already has this imdb_id on their list. The watched flag survives a
// re-add.
func (r *PostgresRepository) Add(ctx context.Context, item *models.WatchlistItem) (*models.WatchlistItem, error) {

	if item.ID == "" {
		item.ID = uuid.NewString()
	}

	query :=
		`INSERT INTO watchlist_items (id, user_id, imdb_id, title, year, media_type, poster_url)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (user_id, imdb_id) DO UPDATE
		 SET title = EXCLUDED.title, year = EXCLUDED.year,
		     media_type = EXCLUDED.media_type, poster_url = EXCLUDED.poster_url
		 RETURNING id, watched, added_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		item.ID, item.UserID, item.ImdbID, item.Title, item.Year, item.Type, item.PosterURL).
		Scan(&item.ID, &item.Watched, &item.AddedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return item, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.WatchlistItem, error) {
	query :=
		`SELECT id, imdb_id, title, year, media_type, poster_url, watched, added_at
		 FROM watchlist_items
		 WHERE user_id = $1
		 ORDER BY added_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	items := make([]*models.WatchlistItem, 0)
	for rows.Next() {
		item := &models.WatchlistItem{UserID: userID}
		err := rows.Scan(&item.ID, &item.ImdbID, &item.Title, &item.Year,
			&item.Type, &item.PosterURL, &item.Watched, &item.AddedAt)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return items, nil
}

func (r *PostgresRepository) Remove(ctx context.Context, userID, imdbID string) error {
	query := `DELETE FROM watchlist_items WHERE user_id = $1 AND imdb_id = $2`

	res, err := r.db.ExecContext(ctx, query, userID, imdbID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) SetWatched(ctx context.Context, userID, imdbID string, watched bool) error {
	query :=
		`UPDATE watchlist_items SET watched = $3
		 WHERE user_id = $1 AND imdb_id = $2
		 RETURNING id
		 `

	var id string
	err := r.db.QueryRowContext(ctx, query, userID, imdbID, watched).Scan(&id)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
