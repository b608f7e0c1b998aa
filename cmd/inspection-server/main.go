// Package main is the entry point for the inspection game server.
// It only handles dependency injection and server initialization.
// NO business logic belongs here.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/MRamiBalles/ContrabandoJuego/server/internal/domain/game"
	"github.com/MRamiBalles/ContrabandoJuego/server/internal/events"
	"github.com/MRamiBalles/ContrabandoJuego/server/internal/infra/ai"
	"github.com/MRamiBalles/ContrabandoJuego/server/internal/infra/cache"
	"github.com/MRamiBalles/ContrabandoJuego/server/internal/infra/storage"
	"github.com/MRamiBalles/ContrabandoJuego/server/internal/network"
	"github.com/MRamiBalles/ContrabandoJuego/server/internal/platform/config"
	"github.com/MRamiBalles/ContrabandoJuego/server/internal/platform/logger"
	"github.com/MRamiBalles/ContrabandoJuego/server/internal/platform/metrics"
	"github.com/MRamiBalles/ContrabandoJuego/server/internal/session"
)

// SQLitePersisterAdapter translates domain events to storage events.
type SQLitePersisterAdapter struct {
	repo *storage.SQLiteEventRepository
}

func (a *SQLitePersisterAdapter) Append(event events.GameEvent) error {
	payloadBytes, _ := json.Marshal(event.Payload)
	var payloadMap map[string]interface{}
	json.Unmarshal(payloadBytes, &payloadMap)

	storageEvent := storage.EventRow{
		ID:        event.ID,
		GameID:    event.GameID,
		Round:     event.Round,
		Timestamp: event.Timestamp,
		EventType: string(event.Type),
		Payload:   payloadMap,
	}

	start := time.Now()
	err := a.repo.Append(context.Background(), storageEvent)
	metrics.Get().RecordEventWrite(time.Since(start), err)
	return err
}

func main() {
	configPath := flag.String("config", "inspeccion.yaml", "path to config file")
	flag.Parse()

	log.Println("[INSPECTION-SERVER] Initializing 'El Juego de la Inspección' Authoritative Server...")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger := logger.NewLogger(cfg.Server.Debug)

	appLogger.Info("Initializing SQLite database '%s'...", cfg.Storage.SQLitePath)
	db, err := storage.InitSQLite(cfg.Storage.SQLitePath)
	if err != nil {
		appLogger.Error("Failed to initialize SQLite: %v", err)
		os.Exit(1)
	}
	gameRepo := storage.NewSQLiteGameRepository(db)
	roundRepo := storage.NewSQLiteRoundRepository(db)
	eventRepo := storage.NewSQLiteEventRepository(db)
	eventPersister := &SQLitePersisterAdapter{repo: eventRepo}

	appLogger.Info("Bootstrapping EventLog...")
	eventLog := events.NewEventLog(eventPersister)

	appLogger.Info("Bootstrapping snapshot cache...")
	snapshotCache := cache.NewSnapshotCache(cache.NewMemoryClient(), cfg.Cache.SnapshotTTL)

	var llmProvider ai.LLMProvider
	switch cfg.LLM.Provider {
	case "openai":
		appLogger.Info("Bootstrapping OpenAI dialogue provider...")
		llmProvider = ai.NewOpenAIProvider(ai.NewBudgetGate(cfg.LLM.DailyBudgetUSD, cfg.LLM.MonthBudgetUSD))
	case "anthropic":
		appLogger.Info("Bootstrapping Anthropic dialogue provider...")
		llmProvider = ai.NewAnthropicProvider(ai.NewBudgetGate(cfg.LLM.DailyBudgetUSD, cfg.LLM.MonthBudgetUSD))
	default:
		appLogger.Info("No LLM provider configured; inspector uses static dialogue.")
	}

	deps := &session.Deps{
		Log:       appLogger,
		EventLog:  eventLog,
		Games:     gameRepo,
		Rounds:    roundRepo,
		Snapshots: snapshotCache,
		Collector: metrics.Get(),
	}
	sessions := session.NewManager(deps, llmProvider)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appLogger.Info("Bootstrapping WebSocket Hub...")
	hub := network.NewHub(appLogger, sessions)
	go hub.Run(ctx)
	hub.StartEventPoller(ctx, eventLog)

	reconstructor := storage.NewReconstructor(gameRepo, roundRepo)
	replayHandler := network.NewReplayHandler(reconstructor, eventLog, appLogger)

	// Setup API Routes
	http.HandleFunc("/ws", hub.ServeWS)
	http.HandleFunc("/api/replay", replayHandler.HandleReplay)
	http.HandleFunc("/metrics", metrics.Handler())
	http.HandleFunc("/metrics/prometheus", metrics.PrometheusHandler())

	http.HandleFunc("/api/game/new", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		type requestParams struct {
			Seed int64 `json:"seed"`
		}
		var req requestParams
		// An empty body means "random seed".
		_ = json.NewDecoder(r.Body).Decode(&req)

		sess, err := sessions.Create(r.Context(), req.Seed)
		if err != nil {
			appLogger.Error("Failed to create game: %v", err)
			http.Error(w, "Failed to create game", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(sess.Snapshot())
	})

	// /api/game/{id} (GET state) and /api/game/{id}/move (POST action)
	http.HandleFunc("/api/game/", func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, "/api/game/")
		parts := strings.Split(strings.Trim(rest, "/"), "/")
		if len(parts) == 0 || parts[0] == "" {
			http.Error(w, "Missing game id", http.StatusBadRequest)
			return
		}
		gameID := parts[0]

		sess := sessions.Get(gameID)
		if sess == nil {
			http.Error(w, "Game not found", http.StatusNotFound)
			return
		}

		switch {
		case len(parts) == 1 && r.Method == http.MethodGet:
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(sess.Snapshot())

		case len(parts) == 2 && parts[1] == "move" && r.Method == http.MethodPost:
			type moveParams struct {
				Action   string `json:"action"`
				Quantity int    `json:"quantity"`
			}
			var req moveParams
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid payload", http.StatusBadRequest)
				return
			}

			action := game.ParseAction(req.Action)
			if !action.IsSmugglerAction() {
				http.Error(w, "Invalid action: "+req.Action, http.StatusBadRequest)
				return
			}

			view, err := sess.PlayRound(r.Context(), action, req.Quantity)
			if err != nil {
				http.Error(w, err.Error(), http.StatusConflict)
				return
			}

			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(view)

		default:
			http.Error(w, "Not found", http.StatusNotFound)
		}
	})

	http.HandleFunc("/api/games/recent", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		games, err := gameRepo.ListRecent(r.Context(), 20)
		if err != nil {
			http.Error(w, "Failed to list games", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(games)
	})

	go func() {
		log.Printf("[INSPECTION-SERVER] HTTP API & WS Server listening on %s", cfg.Server.ListenAddr)
		if err := http.ListenAndServe(cfg.Server.ListenAddr, nil); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	log.Println("[INSPECTION-SERVER] Server running. Press Ctrl+C to exit.")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[INSPECTION-SERVER] Shutting down...")
}
