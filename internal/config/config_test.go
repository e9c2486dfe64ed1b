package config

import (
	"testing"
	"time"

	"github.com/iamasit07/gomoku/internal/domain"
	"github.com/iamasit07/gomoku/internal/service/bot"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("FRONTEND_URL", "https://play.example")

	cfg := LoadConfig()
	if cfg.Port != "8080" {
		t.Fatalf("Port = %q", cfg.Port)
	}
	want := []string{"https://play.example", "http://localhost:5173", "https://a.example", "https://b.example"}
	if len(cfg.AllowedOrigins) != len(want) {
		t.Fatalf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
	for i := range want {
		if cfg.AllowedOrigins[i] != want[i] {
			t.Fatalf("AllowedOrigins = %v, want %v", cfg.AllowedOrigins, want)
		}
	}
	if cfg.HellTimeBudget != 3*time.Second || cfg.VCFDepth != 10 {
		t.Fatalf("unexpected AI defaults %v %d", cfg.HellTimeBudget, cfg.VCFDepth)
	}
}

func TestGetEnvAsIntFallsBack(t *testing.T) {
	t.Setenv("AI_VCF_DEPTH", "deep")
	if got := GetEnvAsInt("AI_VCF_DEPTH", 7); got != 7 {
		t.Fatalf("GetEnvAsInt = %d, want 7", got)
	}
}

func TestEngineOptionsOverrideHell(t *testing.T) {
	t.Setenv("AI_HELL_TIME_BUDGET_MS", "500")
	t.Setenv("AI_VCF_DEPTH", "6")

	e := bot.NewEngine(LoadConfig().EngineOptions()...)
	hell := e.Config(domain.Hell)
	if hell.TimeBudget != 500*time.Millisecond || hell.VCFDepth != 6 {
		t.Fatalf("Hell config not overridden: %+v", hell)
	}
	if e.Config(domain.Hard).Depth != bot.DefaultConfigs()[domain.Hard].Depth {
		t.Fatalf("other tiers should keep their defaults")
	}
}
