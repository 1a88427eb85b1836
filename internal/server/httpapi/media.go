package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleMediaSearch(c *gin.Context) {
	items, err := s.media.Search(c.Request.Context(), c.Query("title"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": items})
}

func (s *Server) handleMediaDetail(c *gin.Context) {
	item, err := s.media.Detail(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}
