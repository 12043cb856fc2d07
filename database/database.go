// Package database persists session state between runs: open tabs,
// bookmarks and per-file view state. It is a collaborator of the rendering
// core, never a dependency of it — the core neither reads nor writes
// persisted state.
//
// Per-file state is keyed by a SHA-256 digest of the absolute file path, so
// the database carries no plaintext record of which state row belongs to
// which document.
package database

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	qpdfview "github.com/liyaoshi/qpdfview"
)

// maxFileStates bounds the number of per-file state rows; the least
// recently used rows beyond it are pruned on save.
const maxFileStates = 1000

// Tab is the restorable state of one open document tab.
type Tab struct {
	FilePath       string
	CurrentPage    int
	ContinuousMode bool
	LayoutMode     int
	ScaleMode      int
	ScaleFactor    float64
	Rotation       qpdfview.Rotation
}

// Bookmark is the set of bookmarked pages of one document.
type Bookmark struct {
	FilePath string
	Pages    []int
}

// FileState is the last view state of one document.
type FileState struct {
	CurrentPage    int
	ContinuousMode bool
	LayoutMode     int
	ScaleMode      int
	ScaleFactor    float64
	Rotation       qpdfview.Rotation
}

// Database wraps the sqlite session store.
type Database struct {
	db *sql.DB

	// fileStateLimit overrides maxFileStates; zero selects the default.
	fileStateLimit int
}

// Open opens (or creates) the session database at the given path.
func Open(path string) (*Database, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}

	d := &Database{db: db}
	if err := d.prepareTables(); err != nil {
		db.Close()
		return nil, err
	}

	qpdfview.Logger().Info("session database open", "path", path)
	return d, nil
}

// Close releases the underlying database handle.
func (d *Database) Close() error {
	return d.db.Close()
}

func (d *Database) prepareTables() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS tabs_v2
			(filePath TEXT
			,instanceName TEXT
			,currentPage INTEGER
			,continuousMode INTEGER
			,layoutMode INTEGER
			,scaleMode INTEGER
			,scaleFactor REAL
			,rotation INTEGER)`,
		`CREATE TABLE IF NOT EXISTS bookmarks_v1
			(filePath TEXT
			,pages TEXT)`,
		`CREATE TABLE IF NOT EXISTS perfilesettings_v1
			(lastUsed INTEGER
			,filePath TEXT PRIMARY KEY
			,currentPage INTEGER
			,continuousMode INTEGER
			,layoutMode INTEGER
			,scaleMode INTEGER
			,scaleFactor REAL
			,rotation INTEGER)`,
	}
	for _, stmt := range stmts {
		if _, err := d.db.Exec(stmt); err != nil {
			return fmt.Errorf("prepare tables: %w", err)
		}
	}
	return nil
}

// RestoreTabs returns the tabs stored for the given instance.
func (d *Database) RestoreTabs(instanceName string) ([]Tab, error) {
	rows, err := d.db.Query(
		`SELECT filePath,currentPage,continuousMode,layoutMode,scaleMode,scaleFactor,rotation
		 FROM tabs_v2 WHERE instanceName==?`, instanceName)
	if err != nil {
		return nil, fmt.Errorf("restore tabs: %w", err)
	}
	defer rows.Close()

	var tabs []Tab
	for rows.Next() {
		var t Tab
		var continuous int
		var rotation int
		if err := rows.Scan(&t.FilePath, &t.CurrentPage, &continuous,
			&t.LayoutMode, &t.ScaleMode, &t.ScaleFactor, &rotation); err != nil {
			return nil, fmt.Errorf("restore tabs: %w", err)
		}
		t.ContinuousMode = continuous != 0
		t.Rotation = qpdfview.Rotation(rotation)
		tabs = append(tabs, t)
	}
	return tabs, rows.Err()
}

// SaveTabs replaces the stored tabs of the given instance.
func (d *Database) SaveTabs(instanceName string, tabs []Tab) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("save tabs: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM tabs_v2 WHERE instanceName==?`, instanceName); err != nil {
		return fmt.Errorf("save tabs: %w", err)
	}

	for _, t := range tabs {
		_, err := tx.Exec(
			`INSERT INTO tabs_v2
			 (filePath,instanceName,currentPage,continuousMode,layoutMode,scaleMode,scaleFactor,rotation)
			 VALUES (?,?,?,?,?,?,?,?)`,
			t.FilePath, instanceName, t.CurrentPage, boolToInt(t.ContinuousMode),
			t.LayoutMode, t.ScaleMode, t.ScaleFactor, int(t.Rotation))
		if err != nil {
			return fmt.Errorf("save tabs: %w", err)
		}
	}
	return tx.Commit()
}

// RestoreBookmarks returns all stored bookmarks.
func (d *Database) RestoreBookmarks() ([]Bookmark, error) {
	rows, err := d.db.Query(`SELECT filePath,pages FROM bookmarks_v1`)
	if err != nil {
		return nil, fmt.Errorf("restore bookmarks: %w", err)
	}
	defer rows.Close()

	var bookmarks []Bookmark
	for rows.Next() {
		var b Bookmark
		var pages string
		if err := rows.Scan(&b.FilePath, &pages); err != nil {
			return nil, fmt.Errorf("restore bookmarks: %w", err)
		}
		b.Pages = parsePages(pages)
		bookmarks = append(bookmarks, b)
	}
	return bookmarks, rows.Err()
}

// SaveBookmarks replaces all stored bookmarks.
func (d *Database) SaveBookmarks(bookmarks []Bookmark) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("save bookmarks: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM bookmarks_v1`); err != nil {
		return fmt.Errorf("save bookmarks: %w", err)
	}

	for _, b := range bookmarks {
		_, err := tx.Exec(`INSERT INTO bookmarks_v1 (filePath,pages) VALUES (?,?)`,
			b.FilePath, formatPages(b.Pages))
		if err != nil {
			return fmt.Errorf("save bookmarks: %w", err)
		}
	}
	return tx.Commit()
}

// LoadFileState returns the stored view state of the given file, or nil if
// none is stored.
func (d *Database) LoadFileState(filePath string) (*FileState, error) {
	row := d.db.QueryRow(
		`SELECT currentPage,continuousMode,layoutMode,scaleMode,scaleFactor,rotation
		 FROM perfilesettings_v1 WHERE filePath==?`, fileKey(filePath))

	var s FileState
	var continuous int
	var rotation int
	err := row.Scan(&s.CurrentPage, &continuous, &s.LayoutMode, &s.ScaleMode,
		&s.ScaleFactor, &rotation)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load file state: %w", err)
	}
	s.ContinuousMode = continuous != 0
	s.Rotation = qpdfview.Rotation(rotation)
	return &s, nil
}

// SaveFileState stores the view state of the given file and prunes the
// least recently used rows beyond the retention limit.
func (d *Database) SaveFileState(filePath string, state FileState) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("save file state: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT OR REPLACE INTO perfilesettings_v1
		 (lastUsed,filePath,currentPage,continuousMode,layoutMode,scaleMode,scaleFactor,rotation)
		 VALUES (?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), fileKey(filePath), state.CurrentPage,
		boolToInt(state.ContinuousMode), state.LayoutMode, state.ScaleMode,
		state.ScaleFactor, int(state.Rotation))
	if err != nil {
		return fmt.Errorf("save file state: %w", err)
	}

	limit := d.fileStateLimit
	if limit <= 0 {
		limit = maxFileStates
	}
	_, err = tx.Exec(
		`DELETE FROM perfilesettings_v1 WHERE filePath IN
		 (SELECT filePath FROM perfilesettings_v1 ORDER BY lastUsed DESC LIMIT -1 OFFSET ?)`,
		limit)
	if err != nil {
		return fmt.Errorf("save file state: %w", err)
	}

	return tx.Commit()
}

// fileKey derives the storage key of a file: the hex SHA-256 digest of its
// absolute path.
func fileKey(filePath string) string {
	abs, err := filepath.Abs(filePath)
	if err != nil {
		abs = filePath
	}
	sum := sha256.Sum256([]byte(abs))
	return hex.EncodeToString(sum[:])
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Bookmarked pages are stored as a comma-separated list, matching the
// original schema.
func formatPages(pages []int) string {
	parts := make([]string, len(pages))
	for i, p := range pages {
		parts[i] = strconv.Itoa(p)
	}
	return strings.Join(parts, ",")
}

func parsePages(s string) []int {
	if s == "" {
		return nil
	}
	var pages []int
	for _, part := range strings.Split(s, ",") {
		p, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		pages = append(pages, p)
	}
	return pages
}
