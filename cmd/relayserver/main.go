// Package main provides the relay server binary: the authoritative WebSocket
// relay for multiplayer matches.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/GuySandler/orbitaldaggers/internal/config"
	"github.com/GuySandler/orbitaldaggers/internal/frontend/ws"
	"github.com/GuySandler/orbitaldaggers/internal/game/combat"
	"github.com/GuySandler/orbitaldaggers/internal/game/lobby"
	"github.com/GuySandler/orbitaldaggers/internal/game/player"
	"github.com/GuySandler/orbitaldaggers/internal/game/session"
	"github.com/GuySandler/orbitaldaggers/internal/game/world"
	"github.com/GuySandler/orbitaldaggers/internal/gameserver"
	"github.com/GuySandler/orbitaldaggers/internal/observability"
	"github.com/GuySandler/orbitaldaggers/internal/server"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	mapsDir := flag.String("maps-dir", "content/maps", "path to map YAML files directory")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting relay server",
		zap.String("addr", cfg.Server.Addr()),
	)

	// Load the map catalog
	mapStart := time.Now()
	catalog, err := world.LoadCatalogFromDir(*mapsDir)
	if err != nil {
		logger.Fatal("loading map catalog", zap.Error(err))
	}
	logger.Info("map catalog loaded",
		zap.Int("maps", catalog.Len()),
		zap.Duration("elapsed", time.Since(mapStart)),
	)
	arena, ok := catalog.Lookup(cfg.Game.MultiplayerMapID)
	if !ok {
		logger.Fatal("configured multiplayer map missing from catalog",
			zap.String("map_id", cfg.Game.MultiplayerMapID))
	}
	if !arena.Arena {
		logger.Fatal("configured multiplayer map is not an arena",
			zap.String("map_id", cfg.Game.MultiplayerMapID))
	}

	// Assemble the game core
	registry := session.NewRegistry(player.State{
		X:     cfg.Game.SpawnX,
		Y:     cfg.Game.SpawnY,
		HP:    cfg.Game.StartingHP,
		HPMax: cfg.Game.StartingHP,
	})
	lobbies := lobby.NewManager(cfg.Game.LobbyCapacity)
	resolver := combat.NewResolver(cfg.Game.HitCooldown, nil)
	svc := gameserver.NewService(logger, cfg.Game, catalog, registry, lobbies, resolver)

	// Wire the transport
	handler := ws.NewHandler(logger, svc, cfg.Server.WriteTimeout)
	httpServer := &http.Server{
		Addr:    cfg.Server.Addr(),
		Handler: ws.NewRouter(handler),
	}

	// Wire lifecycle
	lifecycle := server.NewLifecycle(logger)

	lifecycle.Add("http", &server.FuncService{
		StartFn: func() error {
			logger.Info("http server listening",
				zap.String("addr", cfg.Server.Addr()),
			)
			if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serving on %s: %w", cfg.Server.Addr(), err)
			}
			return nil
		},
		StopFn: func() {
			shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				logger.Warn("http shutdown", zap.Error(err))
			}
		},
	})

	logger.Info("relay server initialized",
		zap.Duration("startup", time.Since(start)),
		zap.String("multiplayer_map", cfg.Game.MultiplayerMapID),
		zap.Int("lobby_capacity", cfg.Game.LobbyCapacity),
	)

	if err := lifecycle.Run(ctx); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
