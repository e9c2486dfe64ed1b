package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/gomoku/internal/domain"
	"github.com/iamasit07/gomoku/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestCORSMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(CORSMiddleware([]string{"http://localhost:5173"}))
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	tests := []struct {
		name   string
		method string
		origin string
		status int
		allow  string
	}{
		{"no origin", http.MethodGet, "", http.StatusOK, ""},
		{"allowed origin", http.MethodGet, "http://localhost:5173", http.StatusOK, "http://localhost:5173"},
		{"preflight", http.MethodOptions, "http://localhost:5173", http.StatusOK, "http://localhost:5173"},
		{"foreign origin", http.MethodGet, "http://evil.example", http.StatusForbidden, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/ping", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d", w.Code, tt.status)
			}
			if got := w.Header().Get("Access-Control-Allow-Origin"); got != tt.allow {
				t.Fatalf("allow origin = %q, want %q", got, tt.allow)
			}
		})
	}
}

func TestSeatAuth(t *testing.T) {
	seats := auth.NewSeatSigner("secret", time.Hour)
	router := gin.New()
	router.GET("/games/:id", SeatAuth(seats), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"seat": int(Seat(c))})
	})

	white, _ := seats.GenerateSeatToken("g1", int(domain.White))
	tests := []struct {
		name   string
		path   string
		token  string
		status int
	}{
		{"valid", "/games/g1", white, http.StatusOK},
		{"other game", "/games/g2", white, http.StatusUnauthorized},
		{"missing", "/games/g1", "", http.StatusUnauthorized},
		{"garbage", "/games/g1", "not-a-jwt", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.status, w.Body.String())
			}
			if tt.status == http.StatusOK && w.Body.String() != `{"seat":2}` {
				t.Fatalf("unexpected body %s", w.Body.String())
			}
		})
	}
}

func TestSecurityHeaders(t *testing.T) {
	router := gin.New()
	router.Use(SecurityHeadersMiddleware())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Header().Get("X-Content-Type-Options") != "nosniff" || w.Header().Get("X-Frame-Options") != "DENY" {
		t.Fatalf("missing security headers: %v", w.Header())
	}
}
