package source

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/matzehuels/vibegraph/pkg/catalog"
	verrors "github.com/matzehuels/vibegraph/pkg/errors"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// SQLiteSource stores the catalogue in a SQLite database. Song/vibe
// membership lives in the song_vibes join table; positions keep the order the
// snapshot was saved in.
type SQLiteSource struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens or creates the database at path and applies migrations.
func OpenSQLite(ctx context.Context, path string) (*SQLiteSource, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, verrors.Wrap(verrors.ErrCodeSourceUnavailable, err, "open sqlite db %s", path)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	s := &SQLiteSource{db: db, path: path}
	if err := s.applyMigrations(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

type migration struct {
	version string
	sql     string
}

func loadMigrations() ([]migration, error) {
	entries, err := migrationFS.ReadDir("migrations")
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	out := make([]migration, 0, len(names))
	for _, name := range names {
		data, err := migrationFS.ReadFile("migrations/" + name)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}
		out = append(out, migration{version: strings.TrimSuffix(name, ".sql"), sql: string(data)})
	}
	return out, nil
}

func (s *SQLiteSource) applyMigrations(ctx context.Context) error {
	migrations, err := loadMigrations()
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, "CREATE TABLE IF NOT EXISTS schema_migrations (version TEXT PRIMARY KEY)"); err != nil {
		return fmt.Errorf("ensure schema_migrations: %w", err)
	}
	for _, m := range migrations {
		var count int
		if err := tx.QueryRowContext(ctx, "SELECT COUNT(1) FROM schema_migrations WHERE version = ?", m.version).Scan(&count); err != nil {
			return fmt.Errorf("scan migration version: %w", err)
		}
		if count > 0 {
			continue
		}
		if _, err := tx.ExecContext(ctx, m.sql); err != nil {
			return fmt.Errorf("apply migration %s: %w", m.version, err)
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES (?)", m.version); err != nil {
			return fmt.Errorf("record migration %s: %w", m.version, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migrations: %w", err)
	}
	return nil
}

// Load reads all tables and fills in embedded refs.
func (s *SQLiteSource) Load(ctx context.Context) (catalog.Snapshot, error) {
	snap := catalog.Snapshot{
		Songs:   []catalog.Song{},
		Artists: []catalog.Artist{},
		Vibes:   []catalog.Vibe{},
	}

	rows, err := s.db.QueryContext(ctx, "SELECT id, name, image_url FROM artists ORDER BY position, id")
	if err != nil {
		return catalog.Snapshot{}, fmt.Errorf("query artists: %w", err)
	}
	for rows.Next() {
		var a catalog.Artist
		var img sql.NullString
		if err := rows.Scan(&a.ID, &a.Name, &img); err != nil {
			rows.Close()
			return catalog.Snapshot{}, fmt.Errorf("scan artist: %w", err)
		}
		a.ImageURL = img.String
		snap.Artists = append(snap.Artists, a)
	}
	if err := closeRows(rows, "artists"); err != nil {
		return catalog.Snapshot{}, err
	}

	rows, err = s.db.QueryContext(ctx, "SELECT id, name, description, color FROM vibes ORDER BY position, id")
	if err != nil {
		return catalog.Snapshot{}, fmt.Errorf("query vibes: %w", err)
	}
	for rows.Next() {
		var v catalog.Vibe
		var desc, color sql.NullString
		if err := rows.Scan(&v.ID, &v.Name, &desc, &color); err != nil {
			rows.Close()
			return catalog.Snapshot{}, fmt.Errorf("scan vibe: %w", err)
		}
		v.Description, v.Color = desc.String, color.String
		snap.Vibes = append(snap.Vibes, v)
	}
	if err := closeRows(rows, "vibes"); err != nil {
		return catalog.Snapshot{}, err
	}

	memberships := make(map[string][]catalog.VibeRef)
	rows, err = s.db.QueryContext(ctx, "SELECT song_id, vibe_id FROM song_vibes ORDER BY song_id, position")
	if err != nil {
		return catalog.Snapshot{}, fmt.Errorf("query song_vibes: %w", err)
	}
	for rows.Next() {
		var songID, vibeID string
		if err := rows.Scan(&songID, &vibeID); err != nil {
			rows.Close()
			return catalog.Snapshot{}, fmt.Errorf("scan song_vibe: %w", err)
		}
		memberships[songID] = append(memberships[songID], catalog.VibeRef{ID: vibeID})
	}
	if err := closeRows(rows, "song_vibes"); err != nil {
		return catalog.Snapshot{}, err
	}

	rows, err = s.db.QueryContext(ctx, "SELECT id, title, duration, artist_id FROM songs ORDER BY position, id")
	if err != nil {
		return catalog.Snapshot{}, fmt.Errorf("query songs: %w", err)
	}
	for rows.Next() {
		var song catalog.Song
		if err := rows.Scan(&song.ID, &song.Title, &song.Duration, &song.ArtistID); err != nil {
			rows.Close()
			return catalog.Snapshot{}, fmt.Errorf("scan song: %w", err)
		}
		song.Vibes = memberships[song.ID]
		snap.Songs = append(snap.Songs, song)
	}
	if err := closeRows(rows, "songs"); err != nil {
		return catalog.Snapshot{}, err
	}

	return snap.Denormalize(), nil
}

func closeRows(rows *sql.Rows, table string) error {
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("iterate %s: %w", table, err)
	}
	return rows.Close()
}

// Save replaces all tables with snap in one transaction.
func (s *SQLiteSource) Save(ctx context.Context, snap catalog.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, table := range []string{"song_vibes", "songs", "vibes", "artists"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for i, a := range snap.Artists {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO artists (id, name, image_url, position) VALUES (?, ?, ?, ?)",
			a.ID, a.Name, nullableString(a.ImageURL), i,
		); err != nil {
			return fmt.Errorf("insert artist %s: %w", a.ID, err)
		}
	}
	for i, v := range snap.Vibes {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO vibes (id, name, description, color, position) VALUES (?, ?, ?, ?, ?)",
			v.ID, v.Name, nullableString(v.Description), nullableString(v.Color), i,
		); err != nil {
			return fmt.Errorf("insert vibe %s: %w", v.ID, err)
		}
	}
	for i, song := range snap.Songs {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO songs (id, title, duration, artist_id, position) VALUES (?, ?, ?, ?, ?)",
			song.ID, song.Title, song.Duration, song.ArtistID, i,
		); err != nil {
			return fmt.Errorf("insert song %s: %w", song.ID, err)
		}
		for j, v := range song.Vibes {
			if _, err := tx.ExecContext(ctx,
				"INSERT OR IGNORE INTO song_vibes (song_id, vibe_id, position) VALUES (?, ?, ?)",
				song.ID, v.ID, j,
			); err != nil {
				return fmt.Errorf("insert song_vibe %s/%s: %w", song.ID, v.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

// Name returns "sqlite:<path>".
func (s *SQLiteSource) Name() string { return KindSQLite + ":" + s.path }

// Close closes the underlying database connection.
func (s *SQLiteSource) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

var (
	_ Source = (*SQLiteSource)(nil)
	_ Writer = (*SQLiteSource)(nil)
)
