package auth

import (
	"testing"
	"time"
)

func TestSeatTokenRoundTrip(t *testing.T) {
	s := NewSeatSigner("secret", time.Hour)
	token, err := s.GenerateSeatToken("g1", 2)
	if err != nil {
		t.Fatalf("GenerateSeatToken: %v", err)
	}

	claims, err := s.ValidateSeatToken(token, "g1")
	if err != nil || claims.Seat != 2 {
		t.Fatalf("ValidateSeatToken = %+v, %v", claims, err)
	}
	if _, err := s.ValidateSeatToken(token, "g2"); err == nil {
		t.Fatalf("token for another game should fail")
	}
	if _, err := NewSeatSigner("other", time.Hour).ValidateSeatToken(token, "g1"); err == nil {
		t.Fatalf("token signed with another secret should fail")
	}
}

func TestSeatTokenExpires(t *testing.T) {
	s := &SeatSigner{secret: []byte("secret"), ttl: -time.Minute}
	token, err := s.GenerateSeatToken("g1", 1)
	if err != nil {
		t.Fatalf("GenerateSeatToken: %v", err)
	}
	if _, err := s.ValidateSeatToken(token, "g1"); err == nil {
		t.Fatalf("expired token should fail")
	}
}
