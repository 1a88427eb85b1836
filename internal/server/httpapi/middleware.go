package httpapi

import (
	"github.com/gin-gonic/gin"

	"github.com/habbababbai/entertainment-tracker/internal/server/services"
)

const identityKey = "identity"

// authRequired verifies the Authorization header and stashes the resulting
// identity in the request context. Any failure is the same 401 body; the
// cause is only visible in debug logs.
func (s *Server) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := s.users.Authorize(c.Request.Context(), c.GetHeader("Authorization"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.Set(identityKey, identity)
		c.Next()
	}
}

func identityFrom(c *gin.Context) *services.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	identity, _ := v.(*services.Identity)
	return identity
}
