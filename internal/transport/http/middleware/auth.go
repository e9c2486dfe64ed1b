package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/gomoku/internal/domain"
	"github.com/iamasit07/gomoku/pkg/auth"
	"github.com/iamasit07/gomoku/pkg/httputil"
)

// SeatKey is the gin context key holding the caller's domain.PlayerID.
const SeatKey = "seat"

// SeatAuth validates the seat token against the :id route param and
// stores the seat it grants.
func SeatAuth(seats *auth.SeatSigner) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := httputil.GetTokenFromRequest(c.Request)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		claims, err := seats.ValidateSeatToken(tokenString, c.Param("id"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid seat token"})
			return
		}

		c.Set(SeatKey, domain.PlayerID(claims.Seat))
		c.Next()
	}
}

// Seat returns the seat set by SeatAuth.
func Seat(c *gin.Context) domain.PlayerID {
	if seat, ok := c.Get(SeatKey); ok {
		if p, ok := seat.(domain.PlayerID); ok {
			return p
		}
	}
	return domain.Empty
}
