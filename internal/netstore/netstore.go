// Package netstore is the Postgres-backed source of record for road network
// edges. It is independent of the in-memory spatial indexes: those are
// rebuilt from loaded records at process start. The "no persistent on-disk
// index" boundary binds the index structures themselves, not the polylines
// they're built from.
package netstore

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/udisondev/geomatch/db/migrations"
	"github.com/udisondev/geomatch/internal/geom"
	"github.com/udisondev/geomatch/internal/wkt"
)

// NetworkRecord is one stored road-network edge: an identifier, its
// endpoint node identifiers, and its geometry.
type NetworkRecord struct {
	ID       string
	FromNode string
	ToNode   string
	Geometry geom.Polyline
}

// Store wraps a pgx connection pool for road network persistence.
type Store struct {
	pool *pgxpool.Pool
}

// New connects to Postgres and returns a Store handle.
func New(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Close closes the underlying connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

var gooseOnce sync.Once

// RunMigrations applies the embedded goose migrations against dsn.
func RunMigrations(ctx context.Context, dsn string) error {
	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("opening sql connection for migrations: %w", err)
	}
	defer sqlDB.Close()

	var dialectErr error
	gooseOnce.Do(func() {
		goose.SetBaseFS(migrations.FS)
		dialectErr = goose.SetDialect("postgres")
	})
	if dialectErr != nil {
		return fmt.Errorf("setting goose dialect: %w", dialectErr)
	}
	if err := goose.UpContext(ctx, sqlDB, "."); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

// LoadAll returns every stored road network edge.
func (s *Store) LoadAll(ctx context.Context) ([]NetworkRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, from_node, to_node, geometry FROM road_network_edges`)
	if err != nil {
		return nil, fmt.Errorf("querying road network edges: %w", err)
	}
	defer rows.Close()

	var out []NetworkRecord
	for rows.Next() {
		var rec NetworkRecord
		var wktGeom string
		if err := rows.Scan(&rec.ID, &rec.FromNode, &rec.ToNode, &wktGeom); err != nil {
			return nil, fmt.Errorf("scanning road network edge: %w", err)
		}
		pl, err := wkt.ParseLineString(wktGeom)
		if err != nil {
			return nil, fmt.Errorf("parsing geometry for edge %q: %w", rec.ID, err)
		}
		rec.Geometry = pl
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading road network edges: %w", err)
	}
	return out, nil
}

// UpsertEdge inserts or replaces a single road network edge.
func (s *Store) UpsertEdge(ctx context.Context, rec NetworkRecord) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO road_network_edges (id, from_node, to_node, geometry, updated_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO UPDATE SET
		   from_node = EXCLUDED.from_node,
		   to_node = EXCLUDED.to_node,
		   geometry = EXCLUDED.geometry,
		   updated_at = EXCLUDED.updated_at`,
		rec.ID, rec.FromNode, rec.ToNode, wkt.FormatLineString(rec.Geometry), time.Now(),
	)
	if err != nil {
		return fmt.Errorf("upserting road network edge %q: %w", rec.ID, err)
	}
	return nil
}
