package prefs

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	_ "modernc.org/sqlite"
)

// Preference keys.
const (
	KeyTheme             = "theme"
	KeyFontSize          = "font_size"
	KeyAnimationsEnabled = "animations_enabled"
)

// Defaults applied when a key has never been written.
const (
	DefaultTheme    = "light"
	DefaultFontSize = "medium"
)

// Preferences are durable, process-wide display settings independent of any
// chat session.
type Preferences struct {
	Theme             string
	FontSize          string
	AnimationsEnabled bool
}

// Store persists preferences to a local sqlite file. Every setter writes
// synchronously; there is no batching or debounce.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open initializes the preference database at the given path, creating the
// parent directory and schema as needed.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS preferences (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Load reads all preference keys, keeping the documented default for any key
// that was never saved. Absence is decided by presence of the row, not by
// its value, so a stored "false" survives a round trip.
func (s *Store) Load() (Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefs := Preferences{
		Theme:             DefaultTheme,
		FontSize:          DefaultFontSize,
		AnimationsEnabled: true,
	}

	rows, err := s.db.Query(`SELECT key, value FROM preferences`)
	if err != nil {
		return prefs, err
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return prefs, err
		}
		switch key {
		case KeyTheme:
			prefs.Theme = value
		case KeyFontSize:
			prefs.FontSize = value
		case KeyAnimationsEnabled:
			if enabled, err := strconv.ParseBool(value); err == nil {
				prefs.AnimationsEnabled = enabled
			}
		}
	}
	return prefs, rows.Err()
}

// Save writes one key synchronously.
func (s *Store) Save(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`INSERT INTO preferences (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

func (s *Store) SetTheme(theme string) error {
	return s.Save(KeyTheme, theme)
}

func (s *Store) SetFontSize(size string) error {
	return s.Save(KeyFontSize, size)
}

func (s *Store) SetAnimationsEnabled(enabled bool) error {
	return s.Save(KeyAnimationsEnabled, strconv.FormatBool(enabled))
}
