package db

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/glebarez/go-sqlite"
	"xnote/internal/models"
)

// ErrNotFound is returned when no note exists for the requested id.
var ErrNotFound = errors.New("note not found")

const noteColumns = `id, title, content, sentiment, created_at, updated_at`

type DB struct {
	conn *sql.DB
}

func New(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return db, nil
}

func (d *DB) migrate() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS notes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			sentiment TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, q := range queries {
		if _, err := d.conn.Exec(q); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}
	return nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) CreateNote(title, content, sentiment string) (*models.Note, error) {
	result, err := d.conn.Exec(`INSERT INTO notes (title, content, sentiment) VALUES (?, ?, ?)`, title, content, sentiment)
	if err != nil {
		return nil, err
	}
	id, _ := result.LastInsertId()
	return d.GetNote(id)
}

func (d *DB) GetNote(id int64) (*models.Note, error) {
	row := d.conn.QueryRow(`SELECT `+noteColumns+` FROM notes WHERE id = ?`, id)
	return scanNote(row)
}

// ListNotes returns notes in id order. Each call re-queries the table.
func (d *DB) ListNotes(offset, limit int) ([]models.Note, error) {
	rows, err := d.conn.Query(`SELECT `+noteColumns+` FROM notes ORDER BY id LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []models.Note
	for rows.Next() {
		var n models.Note
		var sentiment sql.NullString
		if err := rows.Scan(&n.ID, &n.Title, &n.Content, &sentiment, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, err
		}
		n.Sentiment = sentiment.String
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

func (d *DB) UpdateNote(id int64, title, content, sentiment string) (*models.Note, error) {
	result, err := d.conn.Exec(`UPDATE notes SET title = ?, content = ?, sentiment = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, title, content, sentiment, id)
	if err != nil {
		return nil, err
	}
	if n, err := result.RowsAffected(); err != nil {
		return nil, err
	} else if n == 0 {
		return nil, ErrNotFound
	}
	return d.GetNote(id)
}

// UpdateSentiment persists a freshly computed label without touching
// title or content.
func (d *DB) UpdateSentiment(id int64, sentiment string) (*models.Note, error) {
	result, err := d.conn.Exec(`UPDATE notes SET sentiment = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, sentiment, id)
	if err != nil {
		return nil, err
	}
	if n, err := result.RowsAffected(); err != nil {
		return nil, err
	} else if n == 0 {
		return nil, ErrNotFound
	}
	return d.GetNote(id)
}

// DeleteNote reports whether a row was removed; deleting an unknown id
// is not an error.
func (d *DB) DeleteNote(id int64) (bool, error) {
	result, err := d.conn.Exec(`DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func scanNote(row *sql.Row) (*models.Note, error) {
	var n models.Note
	var sentiment sql.NullString
	err := row.Scan(&n.ID, &n.Title, &n.Content, &sentiment, &n.CreatedAt, &n.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	n.Sentiment = sentiment.String
	return &n, nil
}
