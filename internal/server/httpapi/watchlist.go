package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/habbababbai/entertainment-tracker/internal/common"
	"github.com/habbababbai/entertainment-tracker/internal/server/models"
)

type addWatchlistRequest struct {
	ImdbID    string `json:"imdbID"`
	Title     string `json:"title"`
	Year      string `json:"year"`
	Type      string `json:"type"`
	PosterURL string `json:"posterUrl"`
}

type setWatchedRequest struct {
	Watched *bool `json:"watched"`
}

func (s *Server) handleWatchlistList(c *gin.Context) {
	identity := identityFrom(c)

	items, err := s.watchlist.List(c.Request.Context(), identity.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	if items == nil {
		items = []*models.WatchlistItem{}
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (s *Server) handleWatchlistAdd(c *gin.Context) {
	identity := identityFrom(c)

	var req addWatchlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, common.ErrorValidation)
		return
	}

	item, err := s.watchlist.Add(c.Request.Context(), identity.UserID, &models.WatchlistItem{
		ImdbID:    req.ImdbID,
		Title:     req.Title,
		Year:      req.Year,
		Type:      req.Type,
		PosterURL: req.PosterURL,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

func (s *Server) handleWatchlistRemove(c *gin.Context) {
	identity := identityFrom(c)

	if err := s.watchlist.Remove(c.Request.Context(), identity.UserID, c.Param("imdbID")); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) handleWatchlistSetWatched(c *gin.Context) {
	identity := identityFrom(c)

	var req setWatchedRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Watched == nil {
		writeError(c, common.ErrorValidation)
		return
	}

	if err := s.watchlist.SetWatched(c.Request.Context(), identity.UserID, c.Param("imdbID"), *req.Watched); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
