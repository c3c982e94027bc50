package app

import (
	"strings"

	"github.com/shrimpsizemoose/kardemumma/internal/store"
	"github.com/shrimpsizemoose/kardemumma/internal/store/jsonfile"
	"github.com/shrimpsizemoose/kardemumma/internal/store/postgres"
	"github.com/shrimpsizemoose/kardemumma/internal/store/redisstore"
)

// NewStore picks a document backend from the DSN: postgres:// and redis://
// URLs get their servers, anything else is treated as a JSON file path.
func NewStore(dsn string) (store.DocStore, error) {
	switch {
	case strings.HasPrefix(dsn, "postgres"):
		return postgres.NewPostgresStore(dsn)
	case strings.HasPrefix(dsn, "redis"):
		return redisstore.NewRedisStore(dsn)
	default:
		return jsonfile.NewJSONFileStore(dsn)
	}
}
