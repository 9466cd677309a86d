package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/PressureTank/TextGen/backend/template"
)

const createTextsTable = `
CREATE TABLE IF NOT EXISTS texts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	content TEXT NOT NULL
)`

type SQLiteDB struct {
	db     *sql.DB
	logger *zap.Logger
}

var _ template.Database = (*SQLiteDB)(nil)

// Open opens the sqlite database at dsn with the driver selected at build time.
// SQLite serialises writers, so the pool is kept to a single connection.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driverName, err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

func NewSQLiteDB(db *sql.DB, logger *zap.Logger) *SQLiteDB {
	return &SQLiteDB{
		db:     db,
		logger: logger,
	}
}

// Init creates the texts table if it does not exist yet.
func (s *SQLiteDB) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createTextsTable); err != nil {
		s.logger.Error("Error creating texts table", zap.Error(err))
		return fmt.Errorf("create texts table: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteDB) Close() error {
	if err := s.db.Close(); err != nil {
		s.logger.Error("Error closing database", zap.Error(err))
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

// Ping reports whether the database is reachable.
func (s *SQLiteDB) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteDB) GetTemplates(ctx context.Context) ([]template.Template, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, content FROM texts ORDER BY id")
	if err != nil {
		s.logger.Error("Error fetching templates from database", zap.Error(err))
		return nil, fmt.Errorf("query texts: %w", err)
	}
	defer rows.Close()

	templates := []template.Template{}
	for rows.Next() {
		var t template.Template
		if err := rows.Scan(&t.ID, &t.Name, &t.Content); err != nil {
			s.logger.Error("Error scanning template row", zap.Error(err))
			return nil, fmt.Errorf("scan text row: %w", err)
		}
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		s.logger.Error("Error iterating template rows", zap.Error(err))
		return nil, fmt.Errorf("iterate texts: %w", err)
	}

	return templates, nil
}

func (s *SQLiteDB) GetTemplate(ctx context.Context, id int64) (*template.Template, error) {
	row := s.db.QueryRowContext(ctx, "SELECT id, name, content FROM texts WHERE id = ?", id)
	var t template.Template
	err := row.Scan(&t.ID, &t.Name, &t.Content)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, template.ErrNotFound
	} else if err != nil {
		s.logger.Error("Error fetching template from database", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("query text %d: %w", id, err)
	}
	return &t, nil
}

func (s *SQLiteDB) AddTemplate(ctx context.Context, name, content string) (int64, error) {
	res, err := s.db.ExecContext(ctx, "INSERT INTO texts (name, content) VALUES (?, ?)", name, content)
	if err != nil {
		s.logger.Error("Error inserting template into database", zap.Error(err))
		return 0, fmt.Errorf("insert text: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		s.logger.Error("Error reading inserted template id", zap.Error(err))
		return 0, fmt.Errorf("insert text: %w", err)
	}
	return id, nil
}

func (s *SQLiteDB) UpdateTemplate(ctx context.Context, id int64, name, content string) error {
	res, err := s.db.ExecContext(ctx, "UPDATE texts SET name = ?, content = ? WHERE id = ?", name, content, id)
	if err != nil {
		s.logger.Error("Error updating template in database", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("update text %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		s.logger.Error("Error reading affected rows", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("update text %d: %w", id, err)
	}
	if n == 0 {
		return template.ErrNotFound
	}
	return nil
}

// DeleteTemplate removes the row with the given id. Deleting an unknown id is a no-op.
func (s *SQLiteDB) DeleteTemplate(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM texts WHERE id = ?", id)
	if err != nil {
		s.logger.Error("Error deleting template from database", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("delete text %d: %w", id, err)
	}
	return nil
}
