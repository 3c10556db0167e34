package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskhive/taskhive/internal/config"
)

var globalPostgresPool *pgxpool.Pool

func MustConnectPostgres() {
	cfg := config.Global().Postgres
	connURL := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Username, cfg.Password, cfg.Host,
		cfg.Port, cfg.Database, cfg.SSLMode)

	poolCfg, err := pgxpool.ParseConfig(connURL)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to parse postgres config")
		panic(err)
	}
	poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout

	globalPostgresPool, err = pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to connect to postgres")
		panic(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.PingTimeout)
	defer cancel()

	err = globalPostgresPool.Ping(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to ping postgres")
		panic(err)
	}
	globalLogger.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Msg("connected to postgres")
}

// schemaStatements is applied on every startup. CREATE IF NOT EXISTS
// keeps it idempotent, so a fresh database boots without a separate
// migration step.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS tasks (
	id                BIGSERIAL PRIMARY KEY,
	title             TEXT NOT NULL,
	description       TEXT NOT NULL DEFAULT '',
	due_date          TIMESTAMP,
	priority          TEXT NOT NULL DEFAULT 'medium',
	status            TEXT NOT NULL DEFAULT 'pending',
	calendar_event_id TEXT,
	created_at        TIMESTAMPTZ NOT NULL,
	updated_at        TIMESTAMPTZ NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks (status)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_priority ON tasks (priority)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_due_date ON tasks (due_date)`,
	`CREATE TABLE IF NOT EXISTS users (
	id                    UUID PRIMARY KEY,
	email                 TEXT NOT NULL UNIQUE,
	name                  TEXT NOT NULL DEFAULT '',
	password              TEXT NOT NULL,
	timezone              TEXT NOT NULL DEFAULT 'UTC',
	notifications_enabled BOOLEAN NOT NULL DEFAULT TRUE,
	is_active             BOOLEAN NOT NULL DEFAULT TRUE,
	created_at            TIMESTAMPTZ NOT NULL,
	updated_at            TIMESTAMPTZ NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS sessions (
	id            UUID PRIMARY KEY,
	user_id       UUID NOT NULL REFERENCES users (id) ON DELETE CASCADE,
	fingerprint   TEXT NOT NULL,
	refresh_token TEXT NOT NULL,
	expires_at    TIMESTAMPTZ NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_refresh_token ON sessions (refresh_token)`,
}

func MustMigratePostgres() {
	ctx, cancel := context.WithTimeout(context.Background(), config.Global().Postgres.ConnectTimeout)
	defer cancel()

	for _, stmt := range schemaStatements {
		_, err := globalPostgresPool.Exec(ctx, stmt)
		if err != nil {
			globalLogger.Error().
				Err(err).
				Msg("failed to apply schema statement")
			panic(err)
		}
	}
	globalLogger.Info().Msg("applied postgres schema")
}

func DisconnectPostgres() {
	globalPostgresPool.Close()
	globalLogger.Info().Msg("disconnected from postgres")
}
