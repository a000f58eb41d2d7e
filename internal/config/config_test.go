package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_PATH", "PROBE_TIMEOUT", "ADMIN_IDS", "API_URL", "REDIS_ADDR", "BOT_TOKEN"} {
		t.Setenv(key, "")
	}
	t.Setenv("PORT", "5001")
	t.Setenv("DB_PATH", "./data/todos.db")
	t.Setenv("PROBE_TIMEOUT", "5s")
	t.Setenv("API_URL", "http://localhost:5001/")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.ProbeTimeout != 5*time.Second {
		t.Errorf("expected 5s probe timeout, got %v", cfg.Server.ProbeTimeout)
	}
	if cfg.Bot.APIURL != "http://localhost:5001" {
		t.Errorf("expected trailing slash trimmed, got %q", cfg.Bot.APIURL)
	}
	if len(cfg.Bot.AdminIDs) != 0 {
		t.Errorf("expected no admins, got %v", cfg.Bot.AdminIDs)
	}
	if cfg.Bot.Redis.Enabled() {
		t.Error("redis should be disabled without REDIS_ADDR")
	}
	if err := cfg.ValidateBot(); err == nil {
		t.Error("expected missing BOT_TOKEN to fail bot validation")
	}
}

func TestLoadAdminIDsAndDurations(t *testing.T) {
	t.Setenv("ADMIN_IDS", " 111, ,222 ,")
	t.Setenv("STORE_TIMEOUT", "3")
	t.Setenv("PROBE_TIMEOUT", "250ms")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := cfg.Bot.AdminIDs; len(got) != 2 || got[0] != "111" || got[1] != "222" {
		t.Errorf("unexpected admin ids %v", got)
	}
	if cfg.Bot.StoreTimeout != 3*time.Second {
		t.Errorf("expected bare number as seconds, got %v", cfg.Bot.StoreTimeout)
	}
	if cfg.Server.ProbeTimeout != 250*time.Millisecond {
		t.Errorf("expected 250ms, got %v", cfg.Server.ProbeTimeout)
	}
}

func TestValidateRejectsEmptyPort(t *testing.T) {
	t.Setenv("PORT", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for empty PORT")
	}
}
