package services

import (
	"context"
	"errors"
	"strings"

	"github.com/habbababbai/entertainment-tracker/internal/common"
	"github.com/habbababbai/entertainment-tracker/internal/logging"
	"github.com/habbababbai/entertainment-tracker/internal/server/models"
	"github.com/habbababbai/entertainment-tracker/internal/server/repositories/watchlist"
)

// WatchlistService manages a user's saved media items. The userID argument
// always comes from an authorized Identity, never from client input.
type WatchlistService struct {
	repo   watchlist.Repository
	logger logging.Logger
}

func NewWatchlistService(repo watchlist.Repository, logger logging.Logger) *WatchlistService {
	return &WatchlistService{repo: repo, logger: logger.With("component", "watchlist")}
}

func (s *WatchlistService) Add(ctx context.Context, userID string, item *models.WatchlistItem) (*models.WatchlistItem, error) {
	if strings.TrimSpace(item.ImdbID) == "" || strings.TrimSpace(item.Title) == "" {
		return nil, common.ErrorValidation
	}

	item.UserID = userID
	added, err := s.repo.Add(ctx, item)
	if err != nil {
		s.logger.Error(ctx, "watchlist add failed", "error", err, "user", userID)
		return nil, common.ErrorInternal
	}

	return added, nil
}

func (s *WatchlistService) List(ctx context.Context, userID string) ([]*models.WatchlistItem, error) {
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error(ctx, "watchlist list failed", "error", err, "user", userID)
		return nil, common.ErrorInternal
	}
	return items, nil
}

func (s *WatchlistService) Remove(ctx context.Context, userID, imdbID string) error {
	err := s.repo.Remove(ctx, userID, imdbID)
	if err == nil || errors.Is(err, common.ErrorNotFound) {
		return err
	}
	s.logger.Error(ctx, "watchlist remove failed", "error", err, "user", userID)
	return common.ErrorInternal
}

func (s *WatchlistService) SetWatched(ctx context.Context, userID, imdbID string, watched bool) error {
	err := s.repo.SetWatched(ctx, userID, imdbID, watched)
	if err == nil || errors.Is(err, common.ErrorNotFound) {
		return err
	}
	s.logger.Error(ctx, "watchlist update failed", "error", err, "user", userID)
	return common.ErrorInternal
}
