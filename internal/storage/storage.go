package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Storage keys
const (
	keyPreferences = "preferences"
	keyStats       = "stats"
	keyFirstLaunch = "first_launch"
	gamePrefix     = "game/"
)

// Difficulty represents AI difficulty level
type Difficulty int

const (
	DifficultyEasy Difficulty = iota
	DifficultyMedium
	DifficultyHard
)

// String returns the lower-case name used as a statistics key.
func (d Difficulty) String() string {
	switch d {
	case DifficultyMedium:
		return "medium"
	case DifficultyHard:
		return "hard"
	}
	return "easy"
}

// PlayerColor represents which color the human plays
type PlayerColor int

const (
	ColorWhite PlayerColor = iota
	ColorBlack
)

// UserPreferences stores user settings
type UserPreferences struct {
	Username     string      `json:"username"`
	Difficulty   Difficulty  `json:"difficulty"`
	PlayerColor  PlayerColor `json:"player_color"`
	SoundEnabled bool        `json:"sound_enabled"`
	FlipBoard    bool        `json:"flip_board"`
	LastPlayed   time.Time   `json:"last_played"`
}

// DefaultPreferences returns default user preferences
func DefaultPreferences() *UserPreferences {
	return &UserPreferences{
		Username:     "Player",
		Difficulty:   DifficultyMedium,
		PlayerColor:  ColorWhite,
		SoundEnabled: true,
		LastPlayed:   time.Now(),
	}
}

// GameStats stores game statistics
type GameStats struct {
	GamesPlayed    int            `json:"games_played"`
	Wins           int            `json:"wins"`
	Losses         int            `json:"losses"`
	Draws          int            `json:"draws"`
	WinsByDiff     map[string]int `json:"wins_by_difficulty"`
	WinsByColor    map[string]int `json:"wins_by_color"`
	TotalPlayTime  time.Duration  `json:"total_play_time"`
	LongestWinStrk int            `json:"longest_win_streak"`
	CurrentStreak  int            `json:"current_streak"`
}

// NewGameStats returns empty game statistics
func NewGameStats() *GameStats {
	return &GameStats{
		WinsByDiff:  make(map[string]int),
		WinsByColor: make(map[string]int),
	}
}

// GameResult represents the result of a completed game
type GameResult struct {
	Won         bool
	Draw        bool
	Difficulty  Difficulty
	PlayerColor PlayerColor
	Duration    time.Duration
}

// GameRecord is a finished game kept in the archive.
type GameRecord struct {
	ID     string    `json:"id"`
	Played time.Time `json:"played"`
	Result string    `json:"result"` // PGN result token
	Moves  int       `json:"moves"`  // plies
	PGN    string    `json:"pgn"`
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db *badger.DB
}

// NewStorage opens the database in the platform data directory.
func NewStorage() (*Storage, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return Open(dbDir)
}

// Open opens (or creates) a database in dir.
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", dir, err)
	}

	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// IsFirstLaunch returns true if this is the first launch
func (s *Storage) IsFirstLaunch() (bool, error) {
	firstLaunch := true

	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(keyFirstLaunch))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		firstLaunch = false
		return nil
	})

	return firstLaunch, err
}

// MarkFirstLaunchComplete marks that first launch setup is complete
func (s *Storage) MarkFirstLaunchComplete() error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyFirstLaunch), []byte("done"))
	})
}

// putJSON stores v under key.
func (s *Storage) putJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// getJSON decodes the value under key into v, leaving v untouched when the
// key does not exist.
func (s *Storage) getJSON(key string, v any) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
}

// SavePreferences saves user preferences
func (s *Storage) SavePreferences(prefs *UserPreferences) error {
	prefs.LastPlayed = time.Now()
	return s.putJSON(keyPreferences, prefs)
}

// LoadPreferences loads user preferences, returns defaults if not found
func (s *Storage) LoadPreferences() (*UserPreferences, error) {
	prefs := DefaultPreferences()
	err := s.getJSON(keyPreferences, prefs)
	return prefs, err
}

// SaveStats saves game statistics
func (s *Storage) SaveStats(stats *GameStats) error {
	return s.putJSON(keyStats, stats)
}

// LoadStats loads game statistics, returns empty stats if not found
func (s *Storage) LoadStats() (*GameStats, error) {
	stats := NewGameStats()
	if err := s.getJSON(keyStats, stats); err != nil {
		return stats, err
	}
	if stats.WinsByDiff == nil {
		stats.WinsByDiff = make(map[string]int)
	}
	if stats.WinsByColor == nil {
		stats.WinsByColor = make(map[string]int)
	}
	return stats, nil
}

// RecordGame records a completed game and updates statistics
func (s *Storage) RecordGame(result GameResult) error {
	stats, err := s.LoadStats()
	if err != nil {
		return err
	}

	stats.GamesPlayed++
	stats.TotalPlayTime += result.Duration

	colorKey := "white"
	if result.PlayerColor == ColorBlack {
		colorKey = "black"
	}

	if result.Draw {
		stats.Draws++
		stats.CurrentStreak = 0
	} else if result.Won {
		stats.Wins++
		stats.CurrentStreak++
		if stats.CurrentStreak > stats.LongestWinStrk {
			stats.LongestWinStrk = stats.CurrentStreak
		}
		stats.WinsByDiff[result.Difficulty.String()]++
		stats.WinsByColor[colorKey]++
	} else {
		stats.Losses++
		stats.CurrentStreak = 0
	}

	return s.SaveStats(stats)
}

// GetWinRate returns the win rate as a percentage (0-100)
func (s *GameStats) GetWinRate() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.GamesPlayed) * 100
}

// SaveGameRecord archives a finished game. An empty ID is filled from the
// play time so that keys sort chronologically.
func (s *Storage) SaveGameRecord(rec *GameRecord) error {
	if rec.Played.IsZero() {
		rec.Played = time.Now()
	}
	if rec.ID == "" {
		rec.ID = fmt.Sprintf("%020d", rec.Played.UnixNano())
	}
	return s.putJSON(gamePrefix+rec.ID, rec)
}

// ListGameRecords returns up to limit archived games, newest first. A limit
// of zero or less returns all of them.
func (s *Storage) ListGameRecords(limit int) ([]GameRecord, error) {
	var records []GameRecord

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = []byte(gamePrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		// Reverse iteration starts at the last key not above the seek key.
		for it.Seek([]byte(gamePrefix + "\xff")); it.ValidForPrefix([]byte(gamePrefix)); it.Next() {
			var rec GameRecord
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			})
			if err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
			records = append(records, rec)
			if limit > 0 && len(records) >= limit {
				break
			}
		}
		return nil
	})

	return records, err
}

// DeleteGameRecord removes one archived game.
func (s *Storage) DeleteGameRecord(id string) error {
	if id == "" || strings.Contains(id, "/") {
		return fmt.Errorf("invalid game id %q", id)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(gamePrefix + id))
	})
}
