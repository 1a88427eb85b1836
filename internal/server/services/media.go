package services

import (
	"context"
	"errors"
	"strings"

	"github.com/habbababbai/entertainment-tracker/internal/common"
	"github.com/habbababbai/entertainment-tracker/internal/logging"
	"github.com/habbababbai/entertainment-tracker/internal/server/models"
)

// MetadataProvider is the external content-metadata collaborator
// (implemented by the omdb client).
type MetadataProvider interface {
	Search(ctx context.Context, title string) ([]*models.MediaItem, error)
	Detail(ctx context.Context, imdbID string) (*models.MediaItem, error)
}

// MediaService proxies search and detail lookups to the metadata provider.
type MediaService struct {
	provider MetadataProvider
	logger   logging.Logger
}

func NewMediaService(provider MetadataProvider, logger logging.Logger) *MediaService {
	return &MediaService{provider: provider, logger: logger.With("component", "media")}
}

func (s *MediaService) Search(ctx context.Context, title string) ([]*models.MediaItem, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, common.ErrorValidation
	}

	items, err := s.provider.Search(ctx, title)
	if err != nil {
		s.logger.Error(ctx, "metadata search failed", "error", err)
		return nil, common.ErrorInternal
	}

	return items, nil
}

func (s *MediaService) Detail(ctx context.Context, imdbID string) (*models.MediaItem, error) {
	if strings.TrimSpace(imdbID) == "" {
		return nil, common.ErrorValidation
	}

	item, err := s.provider.Detail(ctx, imdbID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		s.logger.Error(ctx, "metadata detail failed", "error", err, "imdbID", imdbID)
		return nil, common.ErrorInternal
	}

	return item, nil
}
