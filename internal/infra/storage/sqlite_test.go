package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/MRamiBalles/ContrabandoJuego/server/internal/domain/game"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := InitSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("init sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func seedGame(t *testing.T, games GameRepository, id string) {
	t.Helper()
	err := games.Create(context.Background(), GameRow{
		ID:            id,
		Seed:          42,
		Greed:         0.5,
		Deceptiveness: 0.4,
		Adaptiveness:  0.6,
		FinalTrust:    0.5,
		CreatedAt:     time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("create game: %v", err)
	}
}

func TestGameRepositoryLifecycle(t *testing.T) {
	ctx := context.Background()
	games := NewSQLiteGameRepository(openTestDB(t))

	seedGame(t, games, "game-1")

	row, err := games.GetByID(ctx, "game-1")
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if row == nil {
		t.Fatal("created game must be readable")
	}
	if row.Seed != 42 || row.Greed != 0.5 {
		t.Errorf("header fields not persisted: %+v", row)
	}
	if row.CompletedAt != nil {
		t.Error("a fresh game must not be completed")
	}

	if err := games.Finish(ctx, "game-1", 17, 0.75, 20); err != nil {
		t.Fatalf("finish: %v", err)
	}
	row, err = games.GetByID(ctx, "game-1")
	if err != nil {
		t.Fatalf("get after finish: %v", err)
	}
	if row.FinalScore != 17 || row.FinalTrust != 0.75 || row.RoundsPlayed != 20 {
		t.Errorf("finish stamps not persisted: %+v", row)
	}
	if row.CompletedAt == nil {
		t.Error("finish must stamp completed_at")
	}

	missing, err := games.GetByID(ctx, "nope")
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Error("an unknown game must read as nil, not an error")
	}
}

func TestListRecentOrdersNewestFirst(t *testing.T) {
	ctx := context.Background()
	games := NewSQLiteGameRepository(openTestDB(t))

	base := time.Now().UTC()
	for i, id := range []string{"old", "mid", "new"} {
		err := games.Create(ctx, GameRow{
			ID:        id,
			Seed:      int64(i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}

	recent, err := games.ListRecent(ctx, 2)
	if err != nil {
		t.Fatalf("list recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 games, got %d", len(recent))
	}
	if recent[0].ID != "new" || recent[1].ID != "mid" {
		t.Errorf("expected newest first, got %s then %s", recent[0].ID, recent[1].ID)
	}
}

func TestRoundRepositoryAppendAndRead(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	games := NewSQLiteGameRepository(db)
	rounds := NewSQLiteRoundRepository(db)
	seedGame(t, games, "game-1")

	rows := []RoundRow{
		{GameID: "game-1", Round: 1, SmugglerAction: "Smuggle", InspectorAction: "Don't Inspect", Quantity: 2, Payoff: 20, Score: 20},
		{GameID: "game-1", Round: 2, SmugglerAction: "Lay Low", InspectorAction: "Inspect", Quantity: 1, Payoff: 0, Score: 20},
	}
	for _, row := range rows {
		if err := rounds.Append(ctx, row); err != nil {
			t.Fatalf("append round %d: %v", row.Round, err)
		}
	}

	got, err := rounds.GetByGameID(ctx, "game-1")
	if err != nil {
		t.Fatalf("get rounds: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rounds, got %d", len(got))
	}
	if got[0].Round != 1 || got[1].Round != 2 {
		t.Error("rounds must come back in play order")
	}
	if got[0].SmugglerAction != "Smuggle" || got[0].Payoff != 20 {
		t.Errorf("round fields not persisted: %+v", got[0])
	}
}

func TestEventRepositoryFilters(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	eventsRepo := NewSQLiteEventRepository(db)

	now := time.Now().UTC()
	rows := []EventRow{
		{ID: "e1", GameID: "game-1", Round: 1, Timestamp: now, EventType: "ROUND_RESOLVED", Payload: map[string]interface{}{"payoff": float64(10)}},
		{ID: "e2", GameID: "game-1", Round: 2, Timestamp: now, EventType: "TRAP_SPRUNG", Payload: nil},
		{ID: "e3", GameID: "game-2", Round: 1, Timestamp: now, EventType: "ROUND_RESOLVED", Payload: nil},
	}
	for _, row := range rows {
		if err := eventsRepo.Append(ctx, row); err != nil {
			t.Fatalf("append %s: %v", row.ID, err)
		}
	}

	byGame, err := eventsRepo.GetByGameID(ctx, "game-1")
	if err != nil {
		t.Fatalf("get by game: %v", err)
	}
	if len(byGame) != 2 {
		t.Fatalf("expected 2 events for game-1, got %d", len(byGame))
	}
	if byGame[0].Payload["payoff"] != float64(10) {
		t.Errorf("payload did not survive the JSON round-trip: %+v", byGame[0].Payload)
	}

	byType, err := eventsRepo.GetByEventType(ctx, "game-1", "TRAP_SPRUNG")
	if err != nil {
		t.Fatalf("get by type: %v", err)
	}
	if len(byType) != 1 || byType[0].ID != "e2" {
		t.Errorf("expected only e2, got %+v", byType)
	}
}

func TestRebuildGameReplaysScore(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	games := NewSQLiteGameRepository(db)
	rounds := NewSQLiteRoundRepository(db)
	seedGame(t, games, "game-1")

	plays := []RoundRow{
		{GameID: "game-1", Round: 1, SmugglerAction: "Smuggle", InspectorAction: "Don't Inspect", Quantity: 1, Payoff: 10, Score: 10},
		{GameID: "game-1", Round: 2, SmugglerAction: "Smuggle", InspectorAction: "Inspect", Quantity: 1, Payoff: -5, Score: 5},
		{GameID: "game-1", Round: 3, SmugglerAction: "Lay Low", InspectorAction: "Don't Inspect", Quantity: 1, Payoff: 1, Score: 6, WasTrap: false},
	}
	for _, row := range plays {
		if err := rounds.Append(ctx, row); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	rebuilt, err := NewReconstructor(games, rounds).RebuildGame(ctx, "game-1")
	if err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	if rebuilt.FinalScore != 6 || rebuilt.RoundsPlayed != 3 {
		t.Errorf("replay got score %d over %d rounds, expected 6 over 3",
			rebuilt.FinalScore, rebuilt.RoundsPlayed)
	}
	if rebuilt.Completed {
		t.Error("an unfinished game must not rebuild as completed")
	}
	if rebuilt.History[0].Smuggler != game.ActSmuggle || rebuilt.History[0].Inspector != game.ActDontInspect {
		t.Errorf("actions did not parse back: %+v", rebuilt.History[0])
	}
}

func TestRebuildGameDetectsScoreTampering(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	games := NewSQLiteGameRepository(db)
	rounds := NewSQLiteRoundRepository(db)
	seedGame(t, games, "game-1")

	err := rounds.Append(ctx, RoundRow{
		GameID: "game-1", Round: 1,
		SmugglerAction: "Smuggle", InspectorAction: "Don't Inspect",
		Quantity: 1, Payoff: 10, Score: 999,
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	if _, err := NewReconstructor(games, rounds).RebuildGame(ctx, "game-1"); err == nil {
		t.Error("a running-score mismatch must fail the rebuild")
	}
}

func TestGenerateRecap(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	games := NewSQLiteGameRepository(db)
	rounds := NewSQLiteRoundRepository(db)
	seedGame(t, games, "game-1")

	plays := []RoundRow{
		{GameID: "game-1", Round: 1, SmugglerAction: "Smuggle", InspectorAction: "Inspect", Quantity: 1, Payoff: -5, Score: -5},
		{GameID: "game-1", Round: 2, SmugglerAction: "Lay Low", InspectorAction: "Inspect", Quantity: 1, Payoff: 0, Score: -5, WasTrap: true},
		{GameID: "game-1", Round: 3, SmugglerAction: "Smuggle", InspectorAction: "Don't Inspect", Quantity: 1, Payoff: 10, Score: 5},
	}
	for _, row := range plays {
		if err := rounds.Append(ctx, row); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	recap, err := NewReconstructor(games, rounds).GenerateRecap(ctx, "game-1")
	if err != nil {
		t.Fatalf("recap: %v", err)
	}
	if len(recap) != 3 {
		t.Fatalf("expected 3 recap entries, got %d", len(recap))
	}
	if recap[0].Impact != "NEGATIVE" || recap[1].Impact != "NEUTRAL" || recap[2].Impact != "POSITIVE" {
		t.Errorf("impacts wrong: %s %s %s", recap[0].Impact, recap[1].Impact, recap[2].Impact)
	}
	if recap[1].Summary != "The inspector sprung a trap. The deal was a lie." {
		t.Errorf("trap round must narrate the betrayal, got %q", recap[1].Summary)
	}

	if _, err := NewReconstructor(games, rounds).GenerateRecap(ctx, "missing"); err == nil {
		t.Error("recap for an unknown game must fail")
	}
}
