package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"wallbreaker/internal/api"
	"wallbreaker/internal/config"
	"wallbreaker/internal/game"
	"wallbreaker/internal/level"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env file from parent directory
	if err := godotenv.Load("../.env"); err != nil {
		// Try current directory as fallback
		if err := godotenv.Load(".env"); err != nil {
			log.Println("💡 No .env file found, using environment variables only")
		}
	} else {
		log.Println("✅ Loaded environment from ../.env")
	}

	log.Println("🎮 ================================")
	log.Println("🎮  WALLBREAKER - GO ENGINE")
	log.Println("🎮 ================================")

	appConfig := config.Load()
	simCfg := appConfig.Sim
	serverCfg := appConfig.Server

	lvl, err := loadLevel(serverCfg.LevelPath, simCfg.TileSize)
	if err != nil {
		log.Fatalf("❌ Failed to load level: %v", err)
	}
	grid, err := lvl.Grid(simCfg.TileSize)
	if err != nil {
		log.Fatalf("❌ Failed to build grid: %v", err)
	}
	log.Printf("🗺️ Level %q: %dx%d tiles, %d entities", lvl.Name, lvl.Width, lvl.Height, len(lvl.Entities))

	engine, err := game.NewEngine(game.EngineConfig{
		Sim:        simCfg,
		Limits:     appConfig.Limits,
		Grid:       grid,
		Placements: lvl.Placements(),
	})
	if err != nil {
		log.Fatalf("❌ Failed to create engine: %v", err)
	}
	limits := engine.GetLimits()
	log.Printf("🛡️ Resource limits: %d entities, %d shots, %d particles",
		limits.MaxEntities, limits.MaxShots, limits.MaxParticles)
	log.Printf("🎮 Config: %d TPS, tile %.0f", simCfg.TickRate, simCfg.TileSize)

	if err := engine.StartEventLog(serverCfg.EventLogPath); err != nil {
		log.Printf("⚠️ Event log disabled: %v", err)
	} else if serverCfg.EventLogPath != "" {
		log.Printf("📝 Event log: %s", serverCfg.EventLogPath)
	}

	if serverCfg.DebugServer {
		if err := api.StartDebugServer(api.DefaultObservabilityConfig()); err != nil {
			log.Printf("⚠️ Debug server disabled: %v", err)
		}
	}

	server := api.NewServer(engine)
	hub := server.Hub()

	// Metrics run on the engine goroutine, so keep the event log poll cheap
	var ticks uint64
	engine.SetCallbacks(func(ts game.TickStats) {
		api.RecordTickStats(ts)
		ticks++
		if ticks%uint64(simCfg.TickRate) == 0 {
			s := engine.GetEventLogStats()
			api.UpdateEventLogStats(s.Total, s.Dropped)
		}
	}, hub.BroadcastSound)

	engine.Start()
	log.Println("✅ Game Engine started")

	addr := ":" + strconv.Itoa(serverCfg.Port)
	go func() {
		log.Printf("🌐 API server on http://localhost%s", addr)
		log.Printf("🖼️ Frame: http://localhost%s/api/frame.png", addr)
		log.Printf("📡 WebSocket: ws://localhost%s/ws", addr)

		if err := server.Start(addr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	log.Println("✅ Server ready! Press Ctrl+C to stop.")
	<-quit

	log.Println("🛑 Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("⚠️ API shutdown: %v", err)
	}
	engine.Stop()
	engine.StopEventLog()
	log.Println("👋 Goodbye!")
}

// loadLevel reads the configured level, falling back to the built-in arena.
func loadLevel(path string, tileSize float64) (*level.Level, error) {
	if path == "" {
		return level.Default(tileSize), nil
	}
	return level.Load(path)
}
