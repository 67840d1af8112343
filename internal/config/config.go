// Package config provides centralized configuration management.
// All simulation, server and limit settings are defined here and may be
// overridden through environment variables.
package config

import (
	"os"
	"strconv"
)

// =============================================================================
// SIMULATION CONFIGURATION
// =============================================================================

// SimConfig holds the tuning values of the simulation core.
// Distances are in world units (tile-relative), durations in ticks.
type SimConfig struct {
	TickRate int     // Ticks per second driven by the frame driver
	TileSize float64 // World units per tile edge

	SpawnX, SpawnY float64 // Player spawn coordinate used by Restart

	PlayerHealth int     // Player starting health
	PlayerSpeed  float64 // Player max velocity per axis
	PlayerAccel  float64 // Velocity gained per tick while a key is held
	PlayerDecel  float64 // Velocity lost per tick while no key is held

	PlayerRadius float64 // Player hitbox radius for shot contact
	EnemyRadius  float64 // Default entity hitbox radius
	ShotRadius   float64 // Shot hitbox radius

	ShotDamage         int     // Damage applied by any shot hit
	PlayerShotSpeed    float64 // Horizontal speed of the player's forward shot
	PlayerFireCooldown int     // Ticks between repeats while fire is held
	EnemyShotMaxAge    int     // Age after which player-harming shots expire
	SpawnerInterval    int     // Ticks between spawner spawns
	RingFireInterval   int     // Ticks between ring volleys
	RingVolleySpeed    float64 // Speed of each star-volley shot
	DamageFlashTicks   int     // Health bar flash after the player is hit
	DeathImmunityTick  int     // Immunity granted to the player on death
}

// DefaultSim returns the default simulation configuration.
func DefaultSim() SimConfig {
	return SimConfig{
		TickRate:           60,
		TileSize:           11,
		SpawnX:             20,
		SpawnY:             20,
		PlayerHealth:       100,
		PlayerSpeed:        1.2,
		PlayerAccel:        0.1,
		PlayerDecel:        0.2,
		PlayerRadius:       3,
		EnemyRadius:        5,
		ShotRadius:         2,
		ShotDamage:         10,
		PlayerShotSpeed:    3,
		PlayerFireCooldown: 12,
		EnemyShotMaxAge:    120,
		SpawnerInterval:    180,
		RingFireInterval:   45,
		RingVolleySpeed:    0.5,
		DamageFlashTicks:   60,
		DeathImmunityTick:  15,
	}
}

// SimFromEnv returns simulation configuration with environment overrides.
func SimFromEnv() SimConfig {
	cfg := DefaultSim()

	if tr := getEnvInt("SIM_TICK_RATE", 0); tr > 0 {
		cfg.TickRate = tr
	}
	if ts := getEnvFloat("SIM_TILE_SIZE", 0); ts > 0 {
		cfg.TileSize = ts
	}
	if si := getEnvInt("SIM_SPAWNER_INTERVAL", 0); si > 0 {
		cfg.SpawnerInterval = si
	}
	if fi := getEnvInt("SIM_RING_FIRE_INTERVAL", 0); fi > 0 {
		cfg.RingFireInterval = fi
	}
	if d := getEnvInt("SIM_SHOT_DAMAGE", 0); d > 0 {
		cfg.ShotDamage = d
	}

	return cfg
}

// =============================================================================
// RESOURCE LIMITS
// =============================================================================

// ResourceLimits caps every owned collection. Spawns beyond a cap are
// dropped silently.
type ResourceLimits struct {
	MaxEntities  int // Live enemies, spawners and rings
	MaxShots     int // Live shots
	MaxParticles int // Live particles, cascades included
}

// DefaultLimits returns the default resource limits.
func DefaultLimits() ResourceLimits {
	return ResourceLimits{
		MaxEntities:  256,
		MaxShots:     512,
		MaxParticles: 2048,
	}
}

// =============================================================================
// SERVER CONFIGURATION
// =============================================================================

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         int
	LevelPath    string // Optional level JSON; empty uses the built-in arena
	EventLogPath string // JSONL event log; empty disables the file sink
	DebugServer  bool   // pprof + /metrics on localhost
}

// DefaultServer returns the default server configuration.
func DefaultServer() ServerConfig {
	return ServerConfig{
		Port:         3000,
		EventLogPath: "events.jsonl",
		DebugServer:  true,
	}
}

// ServerFromEnv returns server configuration with environment overrides.
func ServerFromEnv() ServerConfig {
	cfg := DefaultServer()

	if p := getEnvInt("PORT", 0); p > 0 {
		cfg.Port = p
	}
	if lp := os.Getenv("LEVEL_PATH"); lp != "" {
		cfg.LevelPath = lp
	}
	if ep, ok := os.LookupEnv("EVENT_LOG_PATH"); ok {
		cfg.EventLogPath = ep
	}
	if os.Getenv("DISABLE_DEBUG_SERVER") == "true" {
		cfg.DebugServer = false
	}

	return cfg
}

// =============================================================================
// COMPLETE APP CONFIGURATION
// =============================================================================

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Sim    SimConfig
	Limits ResourceLimits
	Server ServerConfig
}

// Load returns the complete configuration with environment overrides.
func Load() AppConfig {
	return AppConfig{
		Sim:    SimFromEnv(),
		Limits: DefaultLimits(),
		Server: ServerFromEnv(),
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
