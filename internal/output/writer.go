// Package output writes generated files to disk, touching only files whose
// content changed, and records every run in a SQLite manifest kept next to
// the output.
package output

import (
	"bytes"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/funvibe/bladec/internal/utils"
)

// Status describes what Write did with a file.
type Status string

const (
	Created   Status = "created"
	Updated   Status = "updated"
	Unchanged Status = "unchanged"
)

// Entry is one recorded write of a file.
type Entry struct {
	RunID  string
	Source string
	Hash   string
	Status Status
	At     time.Time
}

// Writer writes files below an output directory.
type Writer struct {
	dir    string
	source string
	runID  string
	dryRun bool
	logger *slog.Logger
	db     *sql.DB
}

// Option configures a Writer.
type Option func(*Writer)

// WithDryRun reports statuses without touching the disk or the manifest.
func WithDryRun(dryRun bool) Option {
	return func(w *Writer) { w.dryRun = dryRun }
}

// WithSource records the algebra name with the run.
func WithSource(name string) Option {
	return func(w *Writer) { w.source = name }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *Writer) { w.logger = l }
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	seq        INTEGER PRIMARY KEY AUTOINCREMENT,
	id         TEXT NOT NULL UNIQUE,
	source     TEXT NOT NULL,
	started_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS files (
	run_id TEXT NOT NULL REFERENCES runs(id),
	path   TEXT NOT NULL,
	sha256 TEXT NOT NULL,
	status TEXT NOT NULL,
	PRIMARY KEY (run_id, path)
);
CREATE INDEX IF NOT EXISTS idx_files_path ON files(path);
`

// Open prepares a writer for dir and starts a new run in its manifest.
// A dry-run writer opens no manifest.
func Open(dir string, opts ...Option) (*Writer, error) {
	w := &Writer{
		dir:    dir,
		runID:  uuid.NewString(),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.dryRun {
		return w, nil
	}

	manifest := utils.ManifestPath(dir)
	if err := os.MkdirAll(filepath.Dir(manifest), 0o755); err != nil {
		return nil, fmt.Errorf("creating manifest dir: %w", err)
	}
	db, err := sql.Open("sqlite", manifest)
	if err != nil {
		return nil, fmt.Errorf("opening manifest: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating manifest schema: %w", err)
	}
	if _, err := db.Exec(
		`INSERT INTO runs (id, source, started_at) VALUES (?, ?, ?)`,
		w.runID, w.source, time.Now().UTC().Format(time.RFC3339Nano),
	); err != nil {
		db.Close()
		return nil, fmt.Errorf("recording run: %w", err)
	}
	w.db = db
	w.logger.Debug("opened manifest", "path", manifest, "run", w.runID)
	return w, nil
}

// RunID identifies the current run.
func (w *Writer) RunID() string { return w.runID }

// Write stores content at name, relative to the output directory, unless
// the file already holds exactly these bytes.
func (w *Writer) Write(name string, content []byte) (Status, error) {
	if filepath.IsAbs(name) || !filepath.IsLocal(name) {
		return "", fmt.Errorf("output path %q escapes the output directory", name)
	}
	path := filepath.Join(w.dir, name)

	status := Created
	existing, err := os.ReadFile(path)
	switch {
	case err == nil && bytes.Equal(existing, content):
		status = Unchanged
	case err == nil:
		status = Updated
	case !errors.Is(err, fs.ErrNotExist):
		return "", fmt.Errorf("reading %s: %w", name, err)
	}

	if status != Unchanged && !w.dryRun {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return "", fmt.Errorf("creating directory for %s: %w", name, err)
		}
		if err := os.WriteFile(path, content, 0o644); err != nil {
			return "", fmt.Errorf("writing %s: %w", name, err)
		}
	}
	w.logger.Debug("wrote file", "path", name, "status", status, "dry_run", w.dryRun)

	if w.db != nil {
		if _, err := w.db.Exec(
			`INSERT OR REPLACE INTO files (run_id, path, sha256, status) VALUES (?, ?, ?, ?)`,
			w.runID, filepath.ToSlash(name), Hash(content), string(status),
		); err != nil {
			return status, fmt.Errorf("recording %s: %w", name, err)
		}
	}
	return status, nil
}

// History lists the recorded writes of name, oldest first.
func (w *Writer) History(name string) ([]Entry, error) {
	if w.db == nil {
		return nil, nil
	}
	return history(w.db, name)
}

// ReadHistory lists the recorded writes of name from the manifest of dir
// without starting a run. A missing manifest has no history.
func ReadHistory(dir, name string) ([]Entry, error) {
	manifest := utils.ManifestPath(dir)
	if _, err := os.Stat(manifest); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening manifest: %w", err)
	}
	db, err := sql.Open("sqlite", manifest)
	if err != nil {
		return nil, fmt.Errorf("opening manifest: %w", err)
	}
	defer db.Close()
	return history(db, name)
}

func history(db *sql.DB, name string) ([]Entry, error) {
	rows, err := db.Query(`
		SELECT r.id, r.source, f.sha256, f.status, r.started_at
		FROM files f JOIN runs r ON r.id = f.run_id
		WHERE f.path = ?
		ORDER BY r.seq`, filepath.ToSlash(name))
	if err != nil {
		return nil, fmt.Errorf("querying history of %s: %w", name, err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var status, at string
		if err := rows.Scan(&e.RunID, &e.Source, &e.Hash, &status, &at); err != nil {
			return nil, fmt.Errorf("reading history of %s: %w", name, err)
		}
		e.Status = Status(status)
		if e.At, err = time.Parse(time.RFC3339Nano, at); err != nil {
			return nil, fmt.Errorf("parsing run time %q: %w", at, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close releases the manifest.
func (w *Writer) Close() error {
	if w.db == nil {
		return nil
	}
	return w.db.Close()
}

// Hash returns the hex SHA-256 of content.
func Hash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
