// Package metrics provides observability for the inspection game server.
// T030: Counters for load analysis and balancing the inspector's behavior.
package metrics

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// Collector gathers performance and gameplay metrics.
type Collector struct {
	// Game metrics
	GamesStarted   int64
	GamesCompleted int64
	RoundsResolved int64
	RoundLatSum    int64 // nanoseconds
	RoundLatMax    int64
	LastRoundTime  time.Time

	// Gameplay counters
	SmugglesCaught int64
	SmugglesMissed int64
	BribesOffered  int64
	BribesAccepted int64
	TrapsSprung    int64
	TrucesSignaled int64

	// Event metrics
	EventsWritten    int64
	EventWriteLatSum int64
	EventWriteLatMax int64
	EventWriteErrors int64

	// WebSocket metrics
	WSConnectionsActive int64
	WSMessagesIn        int64
	WSMessagesOut       int64
	WSErrors            int64

	// LLM metrics
	LLMRequests   int64
	LLMFallbacks  int64
	LLMTokensUsed int64
	LLMCostUSD    float64
	LLMLatencySum int64

	// System
	StartTime time.Time
	mu        sync.RWMutex
}

// Global collector instance
var collector = &Collector{
	StartTime: time.Now(),
}

// Get returns the global collector.
func Get() *Collector {
	return collector
}

// RecordGameStart records a new game being created.
func (c *Collector) RecordGameStart() {
	atomic.AddInt64(&c.GamesStarted, 1)
}

// RecordGameComplete records a game reaching its final round.
func (c *Collector) RecordGameComplete() {
	atomic.AddInt64(&c.GamesCompleted, 1)
}

// RecordRound records a resolved round and its processing latency.
func (c *Collector) RecordRound(latency time.Duration) {
	atomic.AddInt64(&c.RoundsResolved, 1)
	atomic.AddInt64(&c.RoundLatSum, int64(latency))

	// Update max (non-atomic but acceptable for metrics)
	if int64(latency) > atomic.LoadInt64(&c.RoundLatMax) {
		atomic.StoreInt64(&c.RoundLatMax, int64(latency))
	}

	c.mu.Lock()
	c.LastRoundTime = time.Now()
	c.mu.Unlock()
}

// RecordOutcome records the headline result of a round.
func (c *Collector) RecordOutcome(caught, missed, trapSprung bool) {
	if caught {
		atomic.AddInt64(&c.SmugglesCaught, 1)
	}
	if missed {
		atomic.AddInt64(&c.SmugglesMissed, 1)
	}
	if trapSprung {
		atomic.AddInt64(&c.TrapsSprung, 1)
	}
}

// RecordBribe records a bribe offer and whether it was accepted.
func (c *Collector) RecordBribe(accepted bool) {
	atomic.AddInt64(&c.BribesOffered, 1)
	if accepted {
		atomic.AddInt64(&c.BribesAccepted, 1)
	}
}

// RecordTruce records a truce signal.
func (c *Collector) RecordTruce() {
	atomic.AddInt64(&c.TrucesSignaled, 1)
}

// RecordEventWrite records an event write to the database.
func (c *Collector) RecordEventWrite(latency time.Duration, err error) {
	atomic.AddInt64(&c.EventsWritten, 1)
	atomic.AddInt64(&c.EventWriteLatSum, int64(latency))

	if int64(latency) > atomic.LoadInt64(&c.EventWriteLatMax) {
		atomic.StoreInt64(&c.EventWriteLatMax, int64(latency))
	}

	if err != nil {
		atomic.AddInt64(&c.EventWriteErrors, 1)
	}
}

// RecordWSConnection records WebSocket connection changes.
func (c *Collector) RecordWSConnection(delta int64) {
	atomic.AddInt64(&c.WSConnectionsActive, delta)
}

// RecordWSMessage records WebSocket messages.
func (c *Collector) RecordWSMessage(incoming bool) {
	if incoming {
		atomic.AddInt64(&c.WSMessagesIn, 1)
	} else {
		atomic.AddInt64(&c.WSMessagesOut, 1)
	}
}

// RecordWSError records a WebSocket error.
func (c *Collector) RecordWSError() {
	atomic.AddInt64(&c.WSErrors, 1)
}

// RecordLLMCall records an LLM API call.
func (c *Collector) RecordLLMCall(tokens int, cost float64, latency time.Duration) {
	atomic.AddInt64(&c.LLMRequests, 1)
	atomic.AddInt64(&c.LLMTokensUsed, int64(tokens))
	atomic.AddInt64(&c.LLMLatencySum, int64(latency))

	c.mu.Lock()
	c.LLMCostUSD += cost
	c.mu.Unlock()
}

// RecordLLMFallback records a dialogue request served from static tables.
func (c *Collector) RecordLLMFallback() {
	atomic.AddInt64(&c.LLMFallbacks, 1)
}

// Snapshot returns current metrics as a map.
func (c *Collector) Snapshot() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	roundsResolved := atomic.LoadInt64(&c.RoundsResolved)
	eventsWritten := atomic.LoadInt64(&c.EventsWritten)
	llmRequests := atomic.LoadInt64(&c.LLMRequests)

	// Calculate averages
	var roundAvg, eventAvg, llmAvg float64
	if roundsResolved > 0 {
		roundAvg = float64(atomic.LoadInt64(&c.RoundLatSum)) / float64(roundsResolved) / 1e6 // ms
	}
	if eventsWritten > 0 {
		eventAvg = float64(atomic.LoadInt64(&c.EventWriteLatSum)) / float64(eventsWritten) / 1e6
	}
	if llmRequests > 0 {
		llmAvg = float64(atomic.LoadInt64(&c.LLMLatencySum)) / float64(llmRequests) / 1e9 // seconds
	}

	return map[string]interface{}{
		"uptime_seconds": time.Since(c.StartTime).Seconds(),

		"games": map[string]interface{}{
			"started":   atomic.LoadInt64(&c.GamesStarted),
			"completed": atomic.LoadInt64(&c.GamesCompleted),
		},

		"rounds": map[string]interface{}{
			"resolved":       roundsResolved,
			"avg_latency_ms": roundAvg,
			"max_latency_ms": float64(atomic.LoadInt64(&c.RoundLatMax)) / 1e6,
			"last_round":     c.LastRoundTime.Format(time.RFC3339),
		},

		"gameplay": map[string]interface{}{
			"smuggles_caught": atomic.LoadInt64(&c.SmugglesCaught),
			"smuggles_missed": atomic.LoadInt64(&c.SmugglesMissed),
			"bribes_offered":  atomic.LoadInt64(&c.BribesOffered),
			"bribes_accepted": atomic.LoadInt64(&c.BribesAccepted),
			"traps_sprung":    atomic.LoadInt64(&c.TrapsSprung),
			"truces_signaled": atomic.LoadInt64(&c.TrucesSignaled),
		},

		"events": map[string]interface{}{
			"written":          eventsWritten,
			"avg_write_lat_ms": eventAvg,
			"max_write_lat_ms": float64(atomic.LoadInt64(&c.EventWriteLatMax)) / 1e6,
			"errors":           atomic.LoadInt64(&c.EventWriteErrors),
		},

		"websocket": map[string]interface{}{
			"active_connections": atomic.LoadInt64(&c.WSConnectionsActive),
			"messages_in":        atomic.LoadInt64(&c.WSMessagesIn),
			"messages_out":       atomic.LoadInt64(&c.WSMessagesOut),
			"errors":             atomic.LoadInt64(&c.WSErrors),
		},

		"llm": map[string]interface{}{
			"requests":        llmRequests,
			"fallbacks":       atomic.LoadInt64(&c.LLMFallbacks),
			"tokens_used":     atomic.LoadInt64(&c.LLMTokensUsed),
			"cost_usd":        c.LLMCostUSD,
			"avg_latency_sec": llmAvg,
		},
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-cache")

		snapshot := collector.Snapshot()
		json.NewEncoder(w).Encode(snapshot)
	}
}

// PrometheusHandler returns metrics in Prometheus format.
func PrometheusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		c := collector

		// Game metrics
		fmt.Fprintf(w, "# HELP inspeccion_games_started Total games started\n")
		fmt.Fprintf(w, "# TYPE inspeccion_games_started counter\n")
		fmt.Fprintf(w, "inspeccion_games_started %d\n\n", atomic.LoadInt64(&c.GamesStarted))

		fmt.Fprintf(w, "# HELP inspeccion_games_completed Total games completed\n")
		fmt.Fprintf(w, "# TYPE inspeccion_games_completed counter\n")
		fmt.Fprintf(w, "inspeccion_games_completed %d\n\n", atomic.LoadInt64(&c.GamesCompleted))

		fmt.Fprintf(w, "# HELP inspeccion_rounds_resolved Total rounds resolved\n")
		fmt.Fprintf(w, "# TYPE inspeccion_rounds_resolved counter\n")
		fmt.Fprintf(w, "inspeccion_rounds_resolved %d\n\n", atomic.LoadInt64(&c.RoundsResolved))

		fmt.Fprintf(w, "# HELP inspeccion_round_latency_max_ms Maximum round latency\n")
		fmt.Fprintf(w, "# TYPE inspeccion_round_latency_max_ms gauge\n")
		fmt.Fprintf(w, "inspeccion_round_latency_max_ms %.2f\n\n", float64(atomic.LoadInt64(&c.RoundLatMax))/1e6)

		// Gameplay metrics
		fmt.Fprintf(w, "# HELP inspeccion_smuggles_total Smuggle attempts by outcome\n")
		fmt.Fprintf(w, "# TYPE inspeccion_smuggles_total counter\n")
		fmt.Fprintf(w, "inspeccion_smuggles_total{outcome=\"caught\"} %d\n", atomic.LoadInt64(&c.SmugglesCaught))
		fmt.Fprintf(w, "inspeccion_smuggles_total{outcome=\"missed\"} %d\n\n", atomic.LoadInt64(&c.SmugglesMissed))

		fmt.Fprintf(w, "# HELP inspeccion_bribes_total Bribe offers by outcome\n")
		fmt.Fprintf(w, "# TYPE inspeccion_bribes_total counter\n")
		fmt.Fprintf(w, "inspeccion_bribes_total{outcome=\"offered\"} %d\n", atomic.LoadInt64(&c.BribesOffered))
		fmt.Fprintf(w, "inspeccion_bribes_total{outcome=\"accepted\"} %d\n\n", atomic.LoadInt64(&c.BribesAccepted))

		fmt.Fprintf(w, "# HELP inspeccion_traps_sprung Total traps sprung on the smuggler\n")
		fmt.Fprintf(w, "# TYPE inspeccion_traps_sprung counter\n")
		fmt.Fprintf(w, "inspeccion_traps_sprung %d\n\n", atomic.LoadInt64(&c.TrapsSprung))

		// Event metrics
		fmt.Fprintf(w, "# HELP inspeccion_events_written Total events written\n")
		fmt.Fprintf(w, "# TYPE inspeccion_events_written counter\n")
		fmt.Fprintf(w, "inspeccion_events_written %d\n\n", atomic.LoadInt64(&c.EventsWritten))

		fmt.Fprintf(w, "# HELP inspeccion_event_write_errors Total event write errors\n")
		fmt.Fprintf(w, "# TYPE inspeccion_event_write_errors counter\n")
		fmt.Fprintf(w, "inspeccion_event_write_errors %d\n\n", atomic.LoadInt64(&c.EventWriteErrors))

		// WebSocket metrics
		fmt.Fprintf(w, "# HELP inspeccion_ws_connections Active WebSocket connections\n")
		fmt.Fprintf(w, "# TYPE inspeccion_ws_connections gauge\n")
		fmt.Fprintf(w, "inspeccion_ws_connections %d\n\n", atomic.LoadInt64(&c.WSConnectionsActive))

		fmt.Fprintf(w, "# HELP inspeccion_ws_messages_total Total WebSocket messages\n")
		fmt.Fprintf(w, "# TYPE inspeccion_ws_messages_total counter\n")
		fmt.Fprintf(w, "inspeccion_ws_messages_total{direction=\"in\"} %d\n", atomic.LoadInt64(&c.WSMessagesIn))
		fmt.Fprintf(w, "inspeccion_ws_messages_total{direction=\"out\"} %d\n\n", atomic.LoadInt64(&c.WSMessagesOut))

		// LLM metrics
		fmt.Fprintf(w, "# HELP inspeccion_llm_requests Total LLM API requests\n")
		fmt.Fprintf(w, "# TYPE inspeccion_llm_requests counter\n")
		fmt.Fprintf(w, "inspeccion_llm_requests %d\n\n", atomic.LoadInt64(&c.LLMRequests))

		fmt.Fprintf(w, "# HELP inspeccion_llm_fallbacks Dialogue served from static tables\n")
		fmt.Fprintf(w, "# TYPE inspeccion_llm_fallbacks counter\n")
		fmt.Fprintf(w, "inspeccion_llm_fallbacks %d\n\n", atomic.LoadInt64(&c.LLMFallbacks))

		fmt.Fprintf(w, "# HELP inspeccion_llm_tokens_used Total tokens consumed\n")
		fmt.Fprintf(w, "# TYPE inspeccion_llm_tokens_used counter\n")
		fmt.Fprintf(w, "inspeccion_llm_tokens_used %d\n\n", atomic.LoadInt64(&c.LLMTokensUsed))

		c.mu.RLock()
		fmt.Fprintf(w, "# HELP inspeccion_llm_cost_usd Total LLM cost in USD\n")
		fmt.Fprintf(w, "# TYPE inspeccion_llm_cost_usd counter\n")
		fmt.Fprintf(w, "inspeccion_llm_cost_usd %.4f\n", c.LLMCostUSD)
		c.mu.RUnlock()
	}
}
