// Package database opens the MySQL pool backing the user repository.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/iliyamo/users-service/internal/config"
)

// Open builds the connection pool from cfg and verifies connectivity before
// the server starts accepting requests. parseTime maps DATETIME columns onto
// time.Time and loc=UTC keeps stored timestamps unambiguous, matching the
// UTC-normalized created_at values the service writes.
func Open(cfg config.Config) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn(cfg))
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}

	// A single-entity service with short point queries; a modest pool is
	// enough, and recycling connections hourly avoids stale server-side
	// session state behind load balancers.
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}
	return db, nil
}

// dsn renders the driver connection string. The password segment is omitted
// entirely when empty so local setups without one still authenticate.
func dsn(cfg config.Config) string {
	cred := cfg.DBUser
	if cfg.DBPass != "" {
		cred += ":" + cfg.DBPass
	}
	return fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		cred, cfg.DBHost, cfg.DBPort, cfg.DBName)
}
