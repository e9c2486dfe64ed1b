package httputil

import (
	"errors"
	"net/http"
	"strings"
)

// SeatTokenHeader lets clients that cannot set Authorization pass the token.
const SeatTokenHeader = "X-Seat-Token"

var ErrNoToken = errors.New("no seat token in header")

// GetTokenFromRequest reads a seat token from "Authorization: Bearer <token>",
// falling back to the X-Seat-Token header.
func GetTokenFromRequest(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
			authHeader = token
		}
		if authHeader = strings.TrimSpace(authHeader); authHeader != "" {
			return authHeader, nil
		}
	}

	if token := strings.TrimSpace(r.Header.Get(SeatTokenHeader)); token != "" {
		return token, nil
	}
	return "", ErrNoToken
}
