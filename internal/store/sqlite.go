package store

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB holds per-player high scores for the SSH server.
type DB struct {
	conn *sql.DB
}

// OpenDB opens (or creates) the SQLite database at path.
func OpenDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable wal: %w", err)
	}
	if _, err := conn.Exec("PRAGMA busy_timeout=5000"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS high_scores (
		player TEXT PRIMARY KEY,
		score INTEGER NOT NULL DEFAULT 0,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := db.conn.Exec(schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// HighScore returns the stored score for player, or 0.
func (db *DB) HighScore(player string) (int, error) {
	var score int64
	err := db.conn.QueryRow(`SELECT score FROM high_scores WHERE player = ?`, player).Scan(&score)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("load high score for %q: %w", player, err)
	}
	return int(score), nil
}

// SetHighScore records score for player. A lower score never replaces a
// higher one.
func (db *DB) SetHighScore(player string, score int) error {
	_, err := db.conn.Exec(`
		INSERT INTO high_scores (player, score) VALUES (?, ?)
		ON CONFLICT(player) DO UPDATE SET
			score = MAX(score, excluded.score),
			updated_at = CURRENT_TIMESTAMP`,
		player, score)
	if err != nil {
		return fmt.Errorf("save high score for %q: %w", player, err)
	}
	return nil
}

// Leaderboard returns up to limit players ordered by score.
func (db *DB) Leaderboard(limit int) ([]Entry, error) {
	rows, err := db.conn.Query(`SELECT player, score FROM high_scores ORDER BY score DESC, player LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Player, &e.Score); err != nil {
			return nil, fmt.Errorf("leaderboard scan: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Entry is one leaderboard row.
type Entry struct {
	Player string
	Score  int
}

// ForPlayer returns a HighScoreStore scoped to one player.
func (db *DB) ForPlayer(player string) HighScoreStore {
	return &playerStore{db: db, player: player}
}

type playerStore struct {
	db     *DB
	player string
}

func (p *playerStore) LoadHighScore() (int, error) {
	return p.db.HighScore(p.player)
}

func (p *playerStore) SaveHighScore(score int) error {
	return p.db.SetHighScore(p.player, score)
}
