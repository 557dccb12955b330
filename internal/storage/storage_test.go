package storage

import (
	"os"
	"testing"
	"time"
)

func openTemp(t *testing.T) *Storage {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStorage(t *testing.T) {
	t.Run("DefaultPreferences", func(t *testing.T) {
		prefs := DefaultPreferences()
		if prefs.Username != "Player" {
			t.Errorf("Expected username 'Player', got '%s'", prefs.Username)
		}
		if prefs.Difficulty != DifficultyMedium {
			t.Errorf("Expected medium difficulty")
		}
		if prefs.PlayerColor != ColorWhite {
			t.Errorf("Expected the human to play white")
		}
		if !prefs.SoundEnabled {
			t.Errorf("Expected sound enabled by default")
		}
	})

	t.Run("NewGameStats", func(t *testing.T) {
		stats := NewGameStats()
		if stats.GamesPlayed != 0 {
			t.Errorf("Expected 0 games played")
		}
		if stats.GetWinRate() != 0 {
			t.Errorf("Expected 0 win rate")
		}
	})

	t.Run("WinRate", func(t *testing.T) {
		stats := &GameStats{
			GamesPlayed: 10,
			Wins:        5,
			Losses:      3,
			Draws:       2,
		}
		rate := stats.GetWinRate()
		if rate != 50 {
			t.Errorf("Expected 50%% win rate, got %.2f%%", rate)
		}
	})
}

func TestPreferencesRoundTrip(t *testing.T) {
	s := openTemp(t)

	prefs, err := s.LoadPreferences()
	if err != nil {
		t.Fatalf("LoadPreferences on empty db: %v", err)
	}
	if prefs.Difficulty != DifficultyMedium {
		t.Errorf("empty db should yield defaults, got %+v", prefs)
	}

	prefs.Username = "alice"
	prefs.Difficulty = DifficultyHard
	prefs.PlayerColor = ColorBlack
	prefs.SoundEnabled = false
	if err := s.SavePreferences(prefs); err != nil {
		t.Fatalf("SavePreferences: %v", err)
	}

	got, err := s.LoadPreferences()
	if err != nil {
		t.Fatalf("LoadPreferences: %v", err)
	}
	if got.Username != "alice" || got.Difficulty != DifficultyHard || got.PlayerColor != ColorBlack || got.SoundEnabled {
		t.Errorf("loaded %+v, want what was saved", got)
	}
	if got.LastPlayed.IsZero() {
		t.Error("LastPlayed should be stamped on save")
	}
}

func TestFirstLaunch(t *testing.T) {
	s := openTemp(t)

	first, err := s.IsFirstLaunch()
	if err != nil || !first {
		t.Fatalf("IsFirstLaunch = %v, %v; want true", first, err)
	}
	if err := s.MarkFirstLaunchComplete(); err != nil {
		t.Fatal(err)
	}
	if first, _ := s.IsFirstLaunch(); first {
		t.Error("still first launch after marking complete")
	}
}

func TestRecordGame(t *testing.T) {
	s := openTemp(t)

	results := []GameResult{
		{Won: true, Difficulty: DifficultyEasy, PlayerColor: ColorWhite, Duration: time.Minute},
		{Won: true, Difficulty: DifficultyHard, PlayerColor: ColorBlack, Duration: time.Minute},
		{Draw: true, Duration: time.Minute},
		{Won: true, Difficulty: DifficultyHard, Duration: time.Minute},
		{Duration: time.Minute},
	}
	for _, r := range results {
		if err := s.RecordGame(r); err != nil {
			t.Fatalf("RecordGame: %v", err)
		}
	}

	stats, err := s.LoadStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.GamesPlayed != 5 || stats.Wins != 3 || stats.Draws != 1 || stats.Losses != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.LongestWinStrk != 2 || stats.CurrentStreak != 0 {
		t.Errorf("streaks = %d longest, %d current; want 2 and 0", stats.LongestWinStrk, stats.CurrentStreak)
	}
	if stats.WinsByDiff["hard"] != 2 || stats.WinsByDiff["easy"] != 1 {
		t.Errorf("wins by difficulty = %v", stats.WinsByDiff)
	}
	if stats.WinsByColor["white"] != 2 || stats.WinsByColor["black"] != 1 {
		t.Errorf("wins by color = %v", stats.WinsByColor)
	}
	if stats.TotalPlayTime != 5*time.Minute {
		t.Errorf("total play time = %v", stats.TotalPlayTime)
	}
}

func TestGameRecords(t *testing.T) {
	s := openTemp(t)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, result := range []string{"1-0", "0-1", "1/2-1/2"} {
		rec := &GameRecord{
			Played: base.Add(time.Duration(i) * time.Hour),
			Result: result,
			Moves:  10 + i,
			PGN:    "1. e4 e5 " + result,
		}
		if err := s.SaveGameRecord(rec); err != nil {
			t.Fatalf("SaveGameRecord: %v", err)
		}
		if rec.ID == "" {
			t.Fatal("SaveGameRecord should assign an ID")
		}
	}

	all, err := s.ListGameRecords(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d records, want 3", len(all))
	}
	if all[0].Result != "1/2-1/2" || all[2].Result != "1-0" {
		t.Errorf("records not newest first: %v, %v, %v", all[0].Result, all[1].Result, all[2].Result)
	}

	latest, err := s.ListGameRecords(1)
	if err != nil || len(latest) != 1 || latest[0].ID != all[0].ID {
		t.Fatalf("ListGameRecords(1) = %v, %v", latest, err)
	}

	if err := s.DeleteGameRecord(all[0].ID); err != nil {
		t.Fatal(err)
	}
	rest, _ := s.ListGameRecords(0)
	if len(rest) != 2 {
		t.Errorf("got %d records after delete, want 2", len(rest))
	}
	if err := s.DeleteGameRecord("../stats"); err == nil {
		t.Error("expected an error for a malformed id")
	}

	// Records do not leak into the other keys.
	if _, err := s.LoadStats(); err != nil {
		t.Errorf("LoadStats: %v", err)
	}
}

func TestDataPaths(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	t.Setenv("APPDATA", os.Getenv("XDG_DATA_HOME"))

	dataDir, err := GetDataDir()
	if err != nil {
		t.Fatalf("GetDataDir failed: %v", err)
	}
	if dataDir == "" {
		t.Error("GetDataDir returned empty path")
	}

	// Verify directory exists
	if _, err := os.Stat(dataDir); os.IsNotExist(err) {
		t.Errorf("Data directory was not created: %s", dataDir)
	}

	t.Logf("Data directory: %s", dataDir)
}
