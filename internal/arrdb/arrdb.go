// Package arrdb reads tracked titles straight out of a Sonarr or Radarr
// postgres database. It is the fallback canonical-path source for setups
// where the HTTP API is unreachable or no API key is configured.
package arrdb

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/xxxsen/mediadup/internal/arr"
)

// Both managers create quoted PascalCase tables in postgres. Sonarr keeps
// the title on "Series" directly; Radarr moved it to "MovieMetadata".
const (
	selectSeriesSQL = `SELECT "Title", "Path", "Monitored" FROM "Series" WHERE "Path" IS NOT NULL AND "Path" <> '' ORDER BY "Title"`
	selectMoviesSQL = `SELECT mm."Title", m."Path", m."Monitored" FROM "Movies" m JOIN "MovieMetadata" mm ON mm."Id" = m."MovieMetadataId" WHERE m."Path" IS NOT NULL AND m."Path" <> '' ORDER BY mm."Title"`
)

// DAO is a read-only handle on one manager database.
type DAO struct {
	db *sql.DB
}

// Open connects to the manager database. The connection is verified lazily
// on first query.
func Open(dsn string) (*DAO, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return &DAO{db: db}, nil
}

// NewWithDB wraps an existing handle, mainly for tests.
func NewWithDB(db *sql.DB) *DAO {
	return &DAO{db: db}
}

// Close releases the underlying database connection.
func (dao *DAO) Close() error {
	if dao.db == nil {
		return nil
	}
	return dao.db.Close()
}

// SeriesPaths returns every tracked series with its on-disk path.
func (dao *DAO) SeriesPaths(ctx context.Context) ([]arr.Record, error) {
	return dao.listPaths(ctx, selectSeriesSQL)
}

// MoviePaths returns every tracked movie with its on-disk path.
func (dao *DAO) MoviePaths(ctx context.Context) ([]arr.Record, error) {
	return dao.listPaths(ctx, selectMoviesSQL)
}

func (dao *DAO) listPaths(ctx context.Context, query string) ([]arr.Record, error) {
	rows, err := dao.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query tracked paths: %w", err)
	}
	defer rows.Close()

	var records []arr.Record
	for rows.Next() {
		var rec arr.Record
		if err := rows.Scan(&rec.Title, &rec.Path, &rec.Monitored); err != nil {
			return nil, fmt.Errorf("scan tracked path: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
