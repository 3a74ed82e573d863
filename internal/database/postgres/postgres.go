package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log"
	"strings"
	"time"

	"cultivation-service/internal/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

//go:embed schema.sql
var schemaSQL string

func connString(cfg config.PostgresConfig, dbname string) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.Username, cfg.Password, dbname)
}

// ConnectAndCreateDB connects to the service database, creating it and
// applying the schema the first time.
func ConnectAndCreateDB(cfg config.PostgresConfig) (*sqlx.DB, error) {
	log.Printf("Connecting to PostgreSQL with: host=%s, port=%s, user=%s, dbname=%s",
		cfg.Host, cfg.Port, cfg.Username, cfg.DBname)

	defaultDB, err := sql.Open("postgres", connString(cfg, "postgres"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to default postgres db: %w", err)
	}
	defer defaultDB.Close()

	var exists bool
	checkQuery := `SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)`
	if err := defaultDB.QueryRow(checkQuery, cfg.DBname).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check if database exists: %w", err)
	}

	if !exists {
		createQuery := fmt.Sprintf(`CREATE DATABASE "%s"`, cfg.DBname)
		if _, err := defaultDB.Exec(createQuery); err != nil {
			return nil, fmt.Errorf("failed to create database %s: %w", cfg.DBname, err)
		}
		log.Printf("Database '%s' created successfully", cfg.DBname)
	}

	db, err := sqlx.Connect("postgres", connString(cfg, cfg.DBname))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to target database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping target database: %w", err)
	}

	// Every schema statement is idempotent.
	if err := executeSchema(db); err != nil {
		log.Printf("Warning: failed to apply schema: %v", err)
	}

	return db, nil
}

// ConnectWithRetry keeps trying until the database answers or ctx ends.
func ConnectWithRetry(ctx context.Context, cfg config.PostgresConfig, wait time.Duration) (*sqlx.DB, error) {
	for attempt := 1; ; attempt++ {
		db, err := ConnectAndCreateDB(cfg)
		if err == nil {
			return db, nil
		}
		log.Printf("error connect to database (attempt %d): %s", attempt, err)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
}

func splitStatements(schema string) []string {
	var out []string
	for _, statement := range strings.Split(schema, ";") {
		statement = strings.TrimSpace(statement)
		if statement == "" || strings.HasPrefix(statement, "--") {
			continue
		}
		out = append(out, statement)
	}
	return out
}

func executeSchema(db *sqlx.DB) error {
	successCount := 0
	statements := splitStatements(schemaSQL)
	for i, statement := range statements {
		if _, err := db.Exec(statement); err != nil {
			log.Printf("Warning: Failed to execute statement %d: %v", i+1, err)
			log.Printf("Statement: %s", statement[:min(100, len(statement))])
			continue
		}
		successCount++
	}

	log.Printf("Schema execution completed. Successfully executed %d of %d statements", successCount, len(statements))
	if successCount == 0 {
		return fmt.Errorf("no schema statement succeeded")
	}
	return nil
}
