// Package httpapi exposes the service layer over a JSON HTTP API.
package httpapi

import (
	"github.com/gin-gonic/gin"

	"github.com/habbababbai/entertainment-tracker/internal/logging"
	"github.com/habbababbai/entertainment-tracker/internal/server/services"
)

// Server groups the HTTP handlers around the underlying services.
type Server struct {
	users     *services.UserService
	media     *services.MediaService
	watchlist *services.WatchlistService
	logger    logging.Logger
}

func NewServer(users *services.UserService, media *services.MediaService, watchlist *services.WatchlistService, logger logging.Logger) *Server {
	return &Server{
		users:     users,
		media:     media,
		watchlist: watchlist,
		logger:    logger.With("component", "httpapi"),
	}
}

// Router builds the gin engine with all routes mounted. Everything under
// /api/watchlist and the account endpoints require a valid access token;
// token refresh and logout authenticate with the refresh token in the body
// instead.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/register", s.handleRegister)
	authGroup.POST("/login", s.handleLogin)
	authGroup.POST("/refresh", s.handleRefresh)
	authGroup.POST("/logout", s.handleLogout)
	authGroup.POST("/password-reset", s.handlePasswordResetRequest)
	authGroup.POST("/password-reset/confirm", s.handlePasswordResetConfirm)
	authGroup.DELETE("/account", s.handleDeleteAccount)

	mediaGroup := api.Group("/media", s.authRequired())
	mediaGroup.GET("/search", s.handleMediaSearch)
	mediaGroup.GET("/:id", s.handleMediaDetail)

	wlGroup := api.Group("/watchlist", s.authRequired())
	wlGroup.GET("", s.handleWatchlistList)
	wlGroup.POST("", s.handleWatchlistAdd)
	wlGroup.DELETE("/:imdbID", s.handleWatchlistRemove)
	wlGroup.PATCH("/:imdbID", s.handleWatchlistSetWatched)

	return r
}
