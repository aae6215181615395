package config

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	zlog "github.com/rs/zerolog/log"
)

const applicationName = "nutrition-service"

const (
	maxOpenConns    = 20
	maxIdleConns    = 10
	connMaxIdleTime = 5 * time.Minute
	connMaxLifetime = time.Hour
	connectTimeout  = 3 * time.Second
)

// NewDB opens a pgx-backed *sql.DB and pings it so a bad DSN fails at boot.
// Sessions are tagged with application_name unless the DSN sets one.
func NewDB(dsn string, debug bool) (*sql.DB, error) {
	if dsn == "" {
		return nil, errors.New("empty DB DSN")
	}
	pgCfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse DB DSN: %w", err)
	}
	if _, ok := pgCfg.RuntimeParams["application_name"]; !ok {
		pgCfg.RuntimeParams["application_name"] = applicationName
	}

	db := stdlib.OpenDB(*pgCfg)
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxIdleTime(connMaxIdleTime)
	db.SetConnMaxLifetime(connMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping DB: %w", err)
	}
	if debug {
		logServerInfo(ctx, db)
	}
	return db, nil
}

func logServerInfo(ctx context.Context, db *sql.DB) {
	var user, name, version string
	err := db.QueryRowContext(ctx,
		`SELECT current_user, current_database(), current_setting('server_version')`,
	).Scan(&user, &name, &version)
	if err != nil {
		zlog.Warn().Err(err).Msg("db info query failed")
		return
	}
	zlog.Info().
		Str("db_user", user).
		Str("db_name", name).
		Str("db_version", version).
		Msg("db connected")
}
