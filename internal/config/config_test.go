package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("JUDGE_URL", "")
	t.Setenv("ALLOW_REATTEMPT", "")

	cfg := Load()

	if cfg.StoreDriver != StoreDriverPostgres {
		t.Errorf("StoreDriver = %q, want %q", cfg.StoreDriver, StoreDriverPostgres)
	}
	if cfg.JudgeURL != "http://localhost:2358" {
		t.Errorf("JudgeURL = %q", cfg.JudgeURL)
	}
	if cfg.AllowReattempt {
		t.Error("AllowReattempt should default to false")
	}
	if cfg.JudgeTimeout != 30*time.Second {
		t.Errorf("JudgeTimeout = %v", cfg.JudgeTimeout)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Mongo")
	t.Setenv("JUDGE_URL", "http://judge:2358/")
	t.Setenv("ALLOW_REATTEMPT", "true")
	t.Setenv("JUDGE_TIMEOUT_SECONDS", "not-a-number")
	t.Setenv("ALLOWED_ORIGINS", " https://a.example , ,https://b.example")

	cfg := Load()

	if cfg.StoreDriver != StoreDriverMongo {
		t.Errorf("StoreDriver = %q", cfg.StoreDriver)
	}
	if cfg.JudgeURL != "http://judge:2358" {
		t.Errorf("JudgeURL trailing slash not trimmed: %q", cfg.JudgeURL)
	}
	if !cfg.AllowReattempt {
		t.Error("AllowReattempt = false, want true")
	}
	if cfg.JudgeTimeout != 30*time.Second {
		t.Errorf("invalid int should fall back, got %v", cfg.JudgeTimeout)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
}

func TestCacheKeyLowercasesEmail(t *testing.T) {
	got := CacheKey.CandidateStreamLockKey("t1", "Ada@Example.com")
	if got != "candidate:ada@example.com:test:t1:stream" {
		t.Fatalf("unexpected key %q", got)
	}
}
