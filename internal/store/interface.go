package store

import (
	"github.com/shrimpsizemoose/kardemumma/internal/models"
)

// DocStore is a whole-document store: no partial reads, no partial writes.
// Update runs load -> mutate -> save as one serialized cycle; if the callback
// returns an error nothing is written. This is the only mutation path, which
// keeps two racing requests from both passing a capacity check.
type DocStore interface {
	Load() (*models.Database, error)
	Update(fn func(db *models.Database) error) error
	Close() error
}

type DatabaseType string

const (
	DBTypePostgres DatabaseType = "postgres"
	DBTypeRedis    DatabaseType = "redis"
	DBTypeJSONFile DatabaseType = "jsonfile"
)
