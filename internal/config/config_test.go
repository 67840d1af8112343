package config

import "testing"

// TestDefaultSim verifies the documented simulation constants
func TestDefaultSim(t *testing.T) {
	cfg := DefaultSim()

	if cfg.TileSize != 11 {
		t.Errorf("Expected tile size 11, got %v", cfg.TileSize)
	}
	if cfg.SpawnX != 20 || cfg.SpawnY != 20 {
		t.Errorf("Expected spawn (20, 20), got (%v, %v)", cfg.SpawnX, cfg.SpawnY)
	}
	if cfg.ShotDamage != 10 {
		t.Errorf("Expected shot damage 10, got %d", cfg.ShotDamage)
	}
	if cfg.EnemyShotMaxAge != 120 {
		t.Errorf("Expected enemy shot max age 120, got %d", cfg.EnemyShotMaxAge)
	}
	if cfg.PlayerFireCooldown <= 0 {
		t.Errorf("Expected a positive fire cooldown, got %d", cfg.PlayerFireCooldown)
	}
	if cfg.DamageFlashTicks != 60 || cfg.DeathImmunityTick != 15 {
		t.Errorf("Unexpected player timers: flash=%d immunity=%d", cfg.DamageFlashTicks, cfg.DeathImmunityTick)
	}
}

// TestSimFromEnv verifies environment overrides and invalid values
func TestSimFromEnv(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		expected func(SimConfig) bool
	}{
		{"tick rate override", "SIM_TICK_RATE", "30", func(c SimConfig) bool { return c.TickRate == 30 }},
		{"tile size override", "SIM_TILE_SIZE", "16", func(c SimConfig) bool { return c.TileSize == 16 }},
		{"damage override", "SIM_SHOT_DAMAGE", "25", func(c SimConfig) bool { return c.ShotDamage == 25 }},
		{"invalid tick rate ignored", "SIM_TICK_RATE", "fast", func(c SimConfig) bool { return c.TickRate == 60 }},
		{"negative interval ignored", "SIM_SPAWNER_INTERVAL", "-5", func(c SimConfig) bool { return c.SpawnerInterval == 180 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if cfg := SimFromEnv(); !tt.expected(cfg) {
				t.Errorf("Unexpected config for %s=%s: %+v", tt.key, tt.value, cfg)
			}
		})
	}
}

// TestServerFromEnv verifies server overrides
func TestServerFromEnv(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("EVENT_LOG_PATH", "")
	t.Setenv("DISABLE_DEBUG_SERVER", "true")

	cfg := ServerFromEnv()
	if cfg.Port != 8081 {
		t.Errorf("Expected port 8081, got %d", cfg.Port)
	}
	if cfg.EventLogPath != "" {
		t.Errorf("Explicitly empty EVENT_LOG_PATH should disable the file sink, got %q", cfg.EventLogPath)
	}
	if cfg.DebugServer {
		t.Error("Debug server should be disabled")
	}
}
