// internal/store/postgres/store.go
package postgres

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/shrimpsizemoose/kardemumma/internal/models"
)

// PostgresStore keeps the whole document in a single jsonb row. The store is
// still a document store: every Update rewrites the full document. The mutex
// only serializes this process; nothing guards against a second process.
type PostgresStore struct {
	db *sqlx.DB
	mu sync.Mutex
}

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS documents (
			name TEXT PRIMARY KEY,
			body JSONB NOT NULL
		)
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create documents table: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Load() (*models.Database, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *PostgresStore) Update(fn func(db *models.Database) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	return s.save(doc)
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) load() (*models.Database, error) {
	var body []byte
	err := s.db.Get(&body, `SELECT body FROM documents WHERE name = 'db'`)
	if err == sql.ErrNoRows {
		return models.NewDatabase(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}

	doc := models.NewDatabase()
	if err := json.Unmarshal(body, doc); err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	return doc, nil
}

func (s *PostgresStore) save(doc *models.Database) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO documents (name, body) VALUES ('db', $1)
		ON CONFLICT (name) DO UPDATE SET body = $1
	`, body)
	if err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}
	return nil
}
