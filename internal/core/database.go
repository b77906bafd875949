package core

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/julien-sobczak/the-noteweaver/pkg/clock"
)

//go:embed sql/*.sql
var migrationsFS embed.FS

// SQLClient is implemented by *sql.DB and *sql.Tx.
type SQLClient interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// Index is the database of the last build (.nw/index.db).
type Index struct {
	client *sql.DB

	// In-progress transaction
	tx *sql.Tx
}

// IndexedNote is a note as saved in the index.
type IndexedNote struct {
	Record
	IndexedAt time.Time
}

// OpenIndex opens the database, creating or migrating the schema if needed.
func OpenIndex(path string) (*Index, error) {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	instance, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return nil, err
	}

	// Run migrations
	d, err := iofs.New(migrationsFS, "sql")
	if err != nil {
		return nil, fmt.Errorf("error while reading migrations: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", d, "sqlite3", instance)
	if err != nil {
		return nil, fmt.Errorf("error while initializing migrations: %w", err)
	}
	err = m.Up() // Create/Update table schema_migrations
	if err != nil && err != migrate.ErrNoChange {
		return nil, fmt.Errorf("error while running migrations: %w", err)
	}

	return &Index{client: db}, nil
}

func (i *Index) Close() error {
	return i.client.Close()
}

/* Transaction Management */

// BeginTransaction starts a new transaction.
func (i *Index) BeginTransaction() error {
	tx, err := i.client.BeginTx(context.Background(), nil)
	if err != nil {
		return err
	}
	i.tx = tx
	return nil
}

// RollbackTransaction aborts the current transaction.
func (i *Index) RollbackTransaction() error {
	if i.tx == nil {
		return errors.New("no transaction started")
	}
	err := i.tx.Rollback()
	i.tx = nil
	return err
}

// CommitTransaction ends the current transaction.
func (i *Index) CommitTransaction() error {
	if i.tx == nil {
		return errors.New("no transaction started")
	}
	err := i.tx.Commit()
	if err != nil {
		return err
	}
	i.tx = nil
	return nil
}

// Client returns the client to use to query the database.
func (i *Index) Client() SQLClient {
	if i.tx != nil {
		// Execute queries in current transaction
		return i.tx
	}
	return i.client
}

/* Note Management */

// Save replaces the content of the index by the given records.
func (i *Index) Save(records []Record) error {
	if err := i.BeginTransaction(); err != nil {
		return err
	}
	defer func() {
		if i.tx != nil {
			_ = i.RollbackTransaction()
		}
	}()

	if _, err := i.Client().Exec(`DELETE FROM note;`); err != nil {
		return err
	}

	indexedAt := timeToSQL(clock.Now())
	for _, record := range records {
		_, err := i.Client().Exec(`
			INSERT INTO note(
				id,
				title,
				relative_path,
				html,
				error,
				message,
				indexed_at
			)
			VALUES (?, ?, ?, ?, ?, ?, ?);
			`,
			record.ID,
			record.Title,
			record.Path,
			record.HTML,
			record.Error,
			record.Message,
			indexedAt,
		)
		if err != nil {
			return fmt.Errorf("unable to save note %q: %w", record.ID, err)
		}
	}
	CurrentLogger().Debugf("Indexed %d notes", len(records))

	return i.CommitTransaction()
}

// Find returns the note with the given identifier or nil.
func (i *Index) Find(id string) (*IndexedNote, error) {
	return QueryNote(i.Client(), "WHERE id = ?", id)
}

// Search returns the notes whose title or content contains the text.
func (i *Index) Search(text string) ([]*IndexedNote, error) {
	pattern := "%" + text + "%"
	return QueryNotes(i.Client(), "WHERE title LIKE ? OR html LIKE ? ORDER BY title", pattern, pattern)
}

// Count returns the number of indexed notes.
func (i *Index) Count() (int, error) {
	var count int
	if err := i.Client().QueryRow(`SELECT count(*) FROM note`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

/* SQL Helpers */

func QueryNote(db SQLClient, whereClause string, args ...any) (*IndexedNote, error) {
	var n IndexedNote
	var indexedAt string

	// Query for a value based on a single row.
	if err := db.QueryRow(fmt.Sprintf(`
		SELECT
			id,
			title,
			relative_path,
			html,
			error,
			message,
			indexed_at
		FROM note
		%s;`, whereClause), args...).
		Scan(
			&n.ID,
			&n.Title,
			&n.Path,
			&n.HTML,
			&n.Error,
			&n.Message,
			&indexedAt,
		); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	n.IndexedAt = timeFromSQL(indexedAt)

	return &n, nil
}

func QueryNotes(db SQLClient, whereClause string, args ...any) ([]*IndexedNote, error) {
	var notes []*IndexedNote

	rows, err := db.Query(fmt.Sprintf(`
		SELECT
			id,
			title,
			relative_path,
			html,
			error,
			message,
			indexed_at
		FROM note
		%s;`, whereClause), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var n IndexedNote
		var indexedAt string

		err = rows.Scan(
			&n.ID,
			&n.Title,
			&n.Path,
			&n.HTML,
			&n.Error,
			&n.Message,
			&indexedAt,
		)
		if err != nil {
			return nil, err
		}
		n.IndexedAt = timeFromSQL(indexedAt)
		notes = append(notes, &n)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return notes, nil
}
