package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidSeatToken = errors.New("invalid seat token")

// SeatClaims binds the holder to one colour of one game.
type SeatClaims struct {
	GameID string `json:"game_id"`
	Seat   int    `json:"seat"`
	jwt.RegisteredClaims
}

type SeatSigner struct {
	secret []byte
	ttl    time.Duration
}

func NewSeatSigner(secret string, ttl time.Duration) *SeatSigner {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SeatSigner{secret: []byte(secret), ttl: ttl}
}

// GenerateSeatToken creates a token for seat in gameID
func (s *SeatSigner) GenerateSeatToken(gameID string, seat int) (string, error) {
	claims := &SeatClaims{
		GameID: gameID,
		Seat:   seat,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   gameID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateSeatToken checks the signature and expiry and that the token was
// issued for gameID.
func (s *SeatSigner) ValidateSeatToken(tokenString, gameID string) (*SeatClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SeatClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*SeatClaims)
	if !ok || !token.Valid || claims.GameID != gameID {
		return nil, ErrInvalidSeatToken
	}
	return claims, nil
}
