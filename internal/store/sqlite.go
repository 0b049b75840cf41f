package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Xael/reversusfinal/internal/game"
)

const schema = `
CREATE TABLE IF NOT EXISTS saves (
	profile         TEXT PRIMARY KEY,
	id              TEXT NOT NULL,
	battle          TEXT NOT NULL,
	elapsed_seconds INTEGER NOT NULL,
	saved_at        INTEGER NOT NULL,
	data            BLOB NOT NULL
);
CREATE TABLE IF NOT EXISTS achievements (
	profile     TEXT NOT NULL,
	id          TEXT NOT NULL,
	unlocked_at INTEGER NOT NULL,
	PRIMARY KEY (profile, id)
);`

// SQLiteStore keeps saves and achievements in a SQLite file.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

var _ SaveStore = (*SQLiteStore)(nil)

// OpenSQLite opens (or creates) the database at path. ":memory:" gives a
// private in-memory database.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	dsn := path
	if path != ":memory:" {
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One connection keeps ":memory:" a single database.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) SaveGame(ctx context.Context, profile string, doc *game.SaveDocument) error {
	data, err := game.EncodeSave(doc)
	if err != nil {
		return err
	}
	m := metaOf(doc)
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO saves (profile, id, battle, elapsed_seconds, saved_at, data)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(profile) DO UPDATE SET
		   id = excluded.id,
		   battle = excluded.battle,
		   elapsed_seconds = excluded.elapsed_seconds,
		   saved_at = excluded.saved_at,
		   data = excluded.data`,
		profile, m.ID, m.Battle, m.ElapsedSeconds, m.SavedAt.UnixMilli(), data)
	if err != nil {
		return fmt.Errorf("save game for %s: %w", profile, err)
	}
	return nil
}

func (s *SQLiteStore) LoadGame(ctx context.Context, profile string) (*game.SaveDocument, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM saves WHERE profile = ?`, profile).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSave
	}
	if err != nil {
		return nil, fmt.Errorf("load game for %s: %w", profile, err)
	}
	return game.DecodeSave(data)
}

func (s *SQLiteStore) DeleteGame(ctx context.Context, profile string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM saves WHERE profile = ?`, profile); err != nil {
		return fmt.Errorf("delete game for %s: %w", profile, err)
	}
	return nil
}

func (s *SQLiteStore) Meta(ctx context.Context, profile string) (SaveMeta, error) {
	var (
		m       SaveMeta
		savedAt int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, battle, elapsed_seconds, saved_at FROM saves WHERE profile = ?`, profile).
		Scan(&m.ID, &m.Battle, &m.ElapsedSeconds, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return SaveMeta{}, ErrNoSave
	}
	if err != nil {
		return SaveMeta{}, fmt.Errorf("save meta for %s: %w", profile, err)
	}
	m.SavedAt = time.UnixMilli(savedAt).UTC()
	return m, nil
}

// SaveAchievements records ids as unlocked. Existing rows keep their
// original unlock time.
func (s *SQLiteStore) SaveAchievements(ctx context.Context, profile string, ids []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()
	now := s.now().UTC().UnixMilli()
	for _, id := range ids {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO achievements (profile, id, unlocked_at) VALUES (?, ?, ?)`,
			profile, id, now); err != nil {
			return fmt.Errorf("save achievement %s: %w", id, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) LoadAchievements(ctx context.Context, profile string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM achievements WHERE profile = ? ORDER BY unlocked_at, id`, profile)
	if err != nil {
		return nil, fmt.Errorf("load achievements for %s: %w", profile, err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
