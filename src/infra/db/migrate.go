package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedded embed.FS

// Migrations returns the embedded schema migrations.
func Migrations() fs.FS {
	sub, err := fs.Sub(embedded, "migrations")
	if err != nil {
		// The directory is embedded at compile time.
		panic(err)
	}
	return sub
}

// MigrationStatus describes one migration and whether it has been applied.
type MigrationStatus struct {
	Version   int64
	Source    string
	Applied   bool
	AppliedAt time.Time
}

// Migrator applies the embedded migrations through the engine's pool.
type Migrator struct {
	sqlDB    *sql.DB
	provider *goose.Provider
	log      *slog.Logger
}

// NewMigrator builds a Migrator on top of e. Close releases the database/sql
// handle; the engine's pool stays open.
func NewMigrator(e *Engine, log *slog.Logger) (*Migrator, error) {
	sqlDB := stdlib.OpenDBFromPool(e.Pool())

	provider, err := goose.NewProvider(goose.DialectPostgres, sqlDB, Migrations())
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to create migration provider: %w", err)
	}

	return &Migrator{sqlDB: sqlDB, provider: provider, log: log}, nil
}

// Up applies every pending migration.
func (m *Migrator) Up(ctx context.Context) error {
	results, err := m.provider.Up(ctx)
	m.logResults(ctx, "up", results)
	if err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// Down rolls back the most recent migration.
func (m *Migrator) Down(ctx context.Context) error {
	result, err := m.provider.Down(ctx)
	if result != nil {
		m.logResults(ctx, "down", []*goose.MigrationResult{result})
	}
	if err != nil {
		return fmt.Errorf("failed to roll back migration: %w", err)
	}
	return nil
}

// Status reports every known migration in version order.
func (m *Migrator) Status(ctx context.Context) ([]MigrationStatus, error) {
	statuses, err := m.provider.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read migration status: %w", err)
	}

	out := make([]MigrationStatus, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, MigrationStatus{
			Version:   s.Source.Version,
			Source:    s.Source.Path,
			Applied:   s.State == goose.StateApplied,
			AppliedAt: s.AppliedAt,
		})
	}
	return out, nil
}

// Close releases the database/sql handle.
func (m *Migrator) Close() error {
	return m.sqlDB.Close()
}

func (m *Migrator) logResults(ctx context.Context, direction string, results []*goose.MigrationResult) {
	for _, r := range results {
		if r.Error != nil {
			m.log.ErrorContext(ctx, "migration failed",
				"direction", direction,
				"version", r.Source.Version,
				"source", r.Source.Path,
				"error", r.Error,
			)
			continue
		}
		m.log.InfoContext(ctx, "migration applied",
			"direction", direction,
			"version", r.Source.Version,
			"source", r.Source.Path,
			"duration_ms", r.Duration.Milliseconds(),
		)
	}
}
