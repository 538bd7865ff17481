// Command netseed applies the road network schema migrations and loads a
// seed file of road network edges into Postgres.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/udisondev/geomatch/internal/netstore"
	"github.com/udisondev/geomatch/internal/wkt"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run() error {
	dsn := flag.String("dsn", "", "Postgres connection string")
	seedPath := flag.String("seed", "", "path to a road network seed file (\"id;from_node;to_node;LINESTRING(...)\" per line)")
	migrateOnly := flag.Bool("migrate-only", false, "apply migrations without loading a seed file")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	if *dsn == "" {
		flag.Usage()
		return fmt.Errorf("-dsn is required")
	}

	ctx := context.Background()

	if err := netstore.RunMigrations(ctx, *dsn); err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}
	slog.Info("migrations applied")

	if *migrateOnly {
		return nil
	}
	if *seedPath == "" {
		flag.Usage()
		return fmt.Errorf("-seed is required unless -migrate-only is set")
	}

	store, err := netstore.New(ctx, *dsn)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer store.Close()

	records, err := loadSeed(*seedPath)
	if err != nil {
		return fmt.Errorf("loading seed file: %w", err)
	}

	for _, rec := range records {
		if err := store.UpsertEdge(ctx, rec); err != nil {
			return fmt.Errorf("seeding edge %q: %w", rec.ID, err)
		}
	}
	slog.Info("seed loaded", "edges", len(records))
	return nil
}

// loadSeed reads "id;from_node;to_node;LINESTRING(...)" lines into
// network records ready for netstore.Store.UpsertEdge.
func loadSeed(path string) ([]netstore.NetworkRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []netstore.NetworkRecord
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, ";", 4)
		if len(parts) != 4 {
			return nil, fmt.Errorf("malformed seed line %q: want \"id;from_node;to_node;LINESTRING(...)\"", line)
		}
		pl, err := wkt.ParseLineString(parts[3])
		if err != nil {
			return nil, fmt.Errorf("edge %q: %w", parts[0], err)
		}
		out = append(out, netstore.NetworkRecord{
			ID:       parts[0],
			FromNode: parts[1],
			ToNode:   parts[2],
			Geometry: pl,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
