package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/reportdeck/internal/i18n"
	"github.com/nao1215/reportdeck/internal/model"
)

// FileName is the database file name inside the data directory.
const FileName = "reportdeck.db"

// Preference keys.
const (
	KeyTheme    = "theme"
	KeyLanguage = "language"
)

// ErrNotFound is returned when the database file does not exist and
// CreateIfNotExists is false.
var ErrNotFound = errors.New("preferences database not found")

// PrefsDB provides SQLite-based storage for user preferences.
type PrefsDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string

	// now returns the current time for updated_at stamps.
	now func() time.Time
}

// Options configures PrefsDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a PrefsDB in the given directory.
func Open(dbDir string, opts Options) (*PrefsDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %s", ErrNotFound, dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file, mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	pdb := &PrefsDB{
		db:     db,
		dbPath: dbPath,
		now:    time.Now,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := pdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return pdb, nil
}

// Close closes the database connection.
func (p *PrefsDB) Close() error {
	return p.db.Close()
}

// Path returns the database file path.
func (p *PrefsDB) Path() string {
	return p.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (p *PrefsDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS preferences (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`

	_, err := p.db.ExecContext(context.Background(), schema)
	return err
}

// Get returns the stored value of key. The boolean is false when the key
// has never been set.
func (p *PrefsDB) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := p.db.QueryRowContext(ctx, `SELECT value FROM preferences WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read preference %q: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key, replacing any previous value.
func (p *PrefsDB) Set(ctx context.Context, key, value string) error {
	query := `
	INSERT INTO preferences (key, value, updated_at)
	VALUES (?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET
		value = excluded.value,
		updated_at = excluded.updated_at
	`

	if _, err := p.db.ExecContext(ctx, query, key, value, p.now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("failed to save preference %q: %w", key, err)
	}
	return nil
}

// Preference is one stored setting.
type Preference struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

// List returns every stored preference ordered by key.
func (p *PrefsDB) List(ctx context.Context) ([]Preference, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT key, value, updated_at FROM preferences ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("failed to list preferences: %w", err)
	}
	defer rows.Close()

	var prefs []Preference
	for rows.Next() {
		var pref Preference
		var updatedAt string
		if err := rows.Scan(&pref.Key, &pref.Value, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan preference: %w", err)
		}
		pref.UpdatedAt = parseTimestamp(updatedAt)
		prefs = append(prefs, pref)
	}
	return prefs, rows.Err()
}

// Theme returns the stored theme, ThemeLight when unset or unknown.
func (p *PrefsDB) Theme(ctx context.Context) (model.Theme, error) {
	value, _, err := p.Get(ctx, KeyTheme)
	if err != nil {
		return model.ThemeLight, err
	}
	return model.ParseTheme(value), nil
}

// SetTheme stores the theme.
func (p *PrefsDB) SetTheme(ctx context.Context, theme model.Theme) error {
	return p.Set(ctx, KeyTheme, model.ParseTheme(string(theme)).String())
}

// ToggleTheme flips the stored theme and returns the new one.
func (p *PrefsDB) ToggleTheme(ctx context.Context) (model.Theme, error) {
	current, err := p.Theme(ctx)
	if err != nil {
		return current, err
	}
	next := current.Toggle()
	if err := p.SetTheme(ctx, next); err != nil {
		return current, err
	}
	return next, nil
}

// Language returns the stored language, the default language when unset.
func (p *PrefsDB) Language(ctx context.Context) (string, error) {
	value, ok, err := p.Get(ctx, KeyLanguage)
	if err != nil {
		return i18n.DefaultLanguage, err
	}
	if !ok {
		return i18n.DefaultLanguage, nil
	}
	return i18n.Resolve(value), nil
}

// SetLanguage stores the language after resolving it to a supported one.
// It returns the stored id.
func (p *PrefsDB) SetLanguage(ctx context.Context, lang string) (string, error) {
	resolved := i18n.Resolve(lang)
	if err := p.Set(ctx, KeyLanguage, resolved); err != nil {
		return "", err
	}
	return resolved, nil
}

// parseTimestamp parses a timestamp string from SQLite.
func parseTimestamp(s string) time.Time {
	formats := []string{
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05Z",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}

	return time.Time{}
}
