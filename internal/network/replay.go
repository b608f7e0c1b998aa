// Package network - replay.go
// T015: Replay endpoint - JSON export of a finished game's history,
// rebuilt from persisted rounds so it works across server restarts.
package network

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/MRamiBalles/ContrabandoJuego/server/internal/events"
	"github.com/MRamiBalles/ContrabandoJuego/server/internal/infra/storage"
	"github.com/MRamiBalles/ContrabandoJuego/server/internal/platform/logger"
)

// ReplayHandler provides the game replay API.
type ReplayHandler struct {
	reconstructor *storage.Reconstructor
	eventLog      *events.EventLog
	logger        *logger.Logger
}

// NewReplayHandler creates a new replay handler.
func NewReplayHandler(rec *storage.Reconstructor, el *events.EventLog, log *logger.Logger) *ReplayHandler {
	return &ReplayHandler{
		reconstructor: rec,
		eventLog:      el,
		logger:        log,
	}
}

// ReplayResponse is the API response for a game replay.
type ReplayResponse struct {
	GameID      string               `json:"game_id"`
	Seed        int64                `json:"seed"`
	FinalScore  int                  `json:"final_score"`
	Completed   bool                 `json:"completed"`
	TotalRounds int                  `json:"total_rounds"`
	GeneratedAt string               `json:"generated_at"`
	Recap       []storage.RecapEntry `json:"recap"`
	Events      []events.GameEvent   `json:"events,omitempty"`
}

// HandleReplay returns the replay for a game.
// GET /api/replay?game_id=XXX&round=N&include_events=true
func (rh *ReplayHandler) HandleReplay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		rh.jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	gameID := r.URL.Query().Get("game_id")
	if gameID == "" {
		rh.jsonError(w, "Missing game_id", http.StatusBadRequest)
		return
	}

	rebuilt, err := rh.reconstructor.RebuildGame(r.Context(), gameID)
	if err != nil {
		rh.logger.Warn("replay rebuild for %s failed: %v", gameID, err)
		rh.jsonError(w, "Game not found", http.StatusNotFound)
		return
	}

	recap, err := rh.reconstructor.GenerateRecap(r.Context(), gameID)
	if err != nil {
		rh.jsonError(w, "Failed to build recap", http.StatusInternalServerError)
		return
	}

	// Optional round filter
	if roundStr := r.URL.Query().Get("round"); roundStr != "" {
		round, _ := strconv.Atoi(roundStr)
		var filtered []storage.RecapEntry
		for _, entry := range recap {
			if entry.Round == round {
				filtered = append(filtered, entry)
			}
		}
		recap = filtered
	}

	resp := ReplayResponse{
		GameID:      gameID,
		Seed:        rebuilt.Seed,
		FinalScore:  rebuilt.FinalScore,
		Completed:   rebuilt.Completed,
		TotalRounds: rebuilt.RoundsPlayed,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Recap:       recap,
	}

	if r.URL.Query().Get("include_events") == "true" && rh.eventLog != nil {
		resp.Events = rh.eventLog.GetByGame(gameID)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (rh *ReplayHandler) jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
