package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MAX_SESSIONS_PER_DAY", "")
	t.Setenv("ORACLE_TIMEOUT", "")

	cfg := Load()
	if cfg.MaxSessionsPerDay != 6 {
		t.Fatalf("MaxSessionsPerDay: got %d want 6", cfg.MaxSessionsPerDay)
	}
	if cfg.RescheduleHorizonDays != 3650 {
		t.Fatalf("RescheduleHorizonDays: got %d want 3650", cfg.RescheduleHorizonDays)
	}
	if cfg.OracleTimeout != 60*time.Second {
		t.Fatalf("OracleTimeout: got %s", cfg.OracleTimeout)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("MAX_SESSIONS_PER_DAY", "4")
	t.Setenv("ORACLE_TIMEOUT", "15")
	t.Setenv("SUMMARY_TTL", "2h")
	t.Setenv("RESCHEDULE_HORIZON_DAYS", "not-a-number")

	cfg := Load()
	if cfg.MaxSessionsPerDay != 4 {
		t.Errorf("MaxSessionsPerDay: got %d want 4", cfg.MaxSessionsPerDay)
	}
	if cfg.OracleTimeout != 15*time.Second {
		t.Errorf("OracleTimeout: got %s want 15s", cfg.OracleTimeout)
	}
	if cfg.SummaryTTL != 2*time.Hour {
		t.Errorf("SummaryTTL: got %s want 2h", cfg.SummaryTTL)
	}
	if cfg.RescheduleHorizonDays != 3650 {
		t.Errorf("invalid int should fall back, got %d", cfg.RescheduleHorizonDays)
	}
}

func TestOracleKeyFallsBackToGeminiKey(t *testing.T) {
	t.Setenv("ORACLE_API_KEY", "")
	os.Unsetenv("ORACLE_API_KEY")
	t.Setenv("GEMINI_API_KEY", "g-key")

	if got := Load().OracleAPIKey; got != "g-key" {
		t.Fatalf("OracleAPIKey: got %q want g-key", got)
	}

	t.Setenv("ORACLE_API_KEY", "o-key")
	if got := Load().OracleAPIKey; got != "o-key" {
		t.Fatalf("OracleAPIKey: got %q want o-key", got)
	}
}
