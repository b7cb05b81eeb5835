package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/m-mizutani/goerr/v2"
	_ "modernc.org/sqlite"

	"homehub/internal/logging"
)

// SQLiteStore keeps the log in a single table; row id preserves append order.
type SQLiteStore struct {
	db *sql.DB
}

const schema = `CREATE TABLE IF NOT EXISTS history (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	kind TEXT NOT NULL,
	date TEXT NOT NULL,
	content TEXT NOT NULL
)`

// NewSQLiteStore opens or creates the database. A file that is not a usable
// database is moved aside to {path}.corrupt-{unix} and replaced by an empty one.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, goerr.Wrap(err, "ensure history dir", goerr.V("path", dbPath))
	}
	db, err := openSQLite(dbPath)
	if err == nil {
		return &SQLiteStore{db: db}, nil
	}

	aside := fmt.Sprintf("%s.corrupt-%d", dbPath, time.Now().Unix())
	logging.Default().Warn("history database unreadable, starting fresh",
		"path", dbPath, "moved_to", aside, "error", err)
	if err := os.Rename(dbPath, aside); err != nil {
		return nil, goerr.Wrap(err, "move corrupt history aside", goerr.V("path", dbPath))
	}
	for _, side := range []string{"-wal", "-shm"} {
		_ = os.Remove(dbPath + side)
	}
	db, err = openSQLite(dbPath)
	if err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func openSQLite(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)")
	if err != nil {
		return nil, goerr.Wrap(err, "open history database", goerr.V("path", dbPath))
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, goerr.Wrap(err, "init history schema", goerr.V("path", dbPath))
	}
	return db, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) Load(ctx context.Context) Log {
	rows, err := s.db.QueryContext(ctx, `SELECT kind, date, content FROM history ORDER BY id`)
	if err != nil {
		logging.From(ctx).Warn("history query failed, starting fresh", "error", err)
		return Log{}
	}
	defer rows.Close()

	log := Log{}
	for rows.Next() {
		var kind string
		var e Entry
		if err := rows.Scan(&kind, &e.Date, &e.Content); err != nil {
			logging.From(ctx).Warn("skipping unreadable history row", "error", err)
			continue
		}
		log[kind] = append(log[kind], e)
	}
	if err := rows.Err(); err != nil {
		logging.From(ctx).Warn("history scan failed, starting fresh", "error", err)
		return Log{}
	}
	return log
}

func (s *SQLiteStore) Save(ctx context.Context, log Log) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return goerr.Wrap(err, "begin history tx")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM history`); err != nil {
		return goerr.Wrap(err, "clear history")
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO history (kind, date, content) VALUES (?, ?, ?)`)
	if err != nil {
		return goerr.Wrap(err, "prepare history insert")
	}
	defer stmt.Close()

	for _, kind := range sortedKinds(log) {
		for _, e := range log[kind] {
			if _, err := stmt.ExecContext(ctx, kind, e.Date, e.Content); err != nil {
				return goerr.Wrap(err, "insert history entry", goerr.V("kind", kind))
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return goerr.Wrap(err, "commit history")
	}
	return nil
}
