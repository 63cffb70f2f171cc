package repository

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"

	"callintake/internal/model"
)

//go:embed schema.sql
var schemaSQL string

// PostgresRepository stores the intake audit log and agent corrections
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository. dsn is either a
// key/value string or a postgres:// URL.
func NewPostgresRepository(dsn string, maxConn, maxIdleConn int) (*PostgresRepository, error) {
	connStr, err := connString(dsn)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Connect("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	return NewFromDB(db), nil
}

// connString turns a URL DSN into lib/pq key/value form. Query parameters are
// passed through untouched, so only settings Postgres or lib/pq understand
// belong there.
func connString(dsn string) (string, error) {
	dsn = strings.TrimSpace(dsn)
	if !strings.Contains(dsn, "://") {
		return dsn, nil
	}
	connStr, err := pq.ParseURL(dsn)
	if err != nil {
		return "", fmt.Errorf("invalid database url: %w", err)
	}
	return connStr, nil
}

// NewFromDB wraps an existing connection pool
func NewFromDB(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// Ping checks the connection
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// EnsureSchema creates the tables if they do not exist
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// LogIntake records one classified utterance
func (r *PostgresRepository) LogIntake(ctx context.Context, entry *model.IntakeLog) error {
	query := `
		INSERT INTO intake_logs (session_id, raw_text, use_ai, items, unknown_count, fallback_count, response_time_ms, created_at)
		VALUES (:session_id, :raw_text, :use_ai, :items, :unknown_count, :fallback_count, :response_time_ms, :created_at)
	`
	if entry.Items == nil {
		entry.Items = model.JSONItems{}
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("failed to log intake: %w", err)
	}
	return nil
}

// RecentIntakes returns a session's audit rows, newest first
func (r *PostgresRepository) RecentIntakes(ctx context.Context, sessionID string, limit int) ([]model.IntakeLog, error) {
	query := `
		SELECT id, session_id, raw_text, use_ai, items, unknown_count, fallback_count, response_time_ms, created_at
		FROM intake_logs
		WHERE session_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	var logs []model.IntakeLog
	if err := r.db.SelectContext(ctx, &logs, query, sessionID, limit); err != nil {
		return nil, fmt.Errorf("failed to fetch intake logs: %w", err)
	}
	return logs, nil
}

// SaveCorrection upserts an agent correction together with its embedding
func (r *PostgresRepository) SaveCorrection(ctx context.Context, ex model.CorrectionExample, embedding []float32) error {
	query := `
		INSERT INTO intake_corrections (fragment, kind, value, embedding)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (fragment, kind) DO UPDATE
		SET value = EXCLUDED.value, embedding = EXCLUDED.embedding, created_at = NOW()
	`
	vec := pgvector.NewVector(embedding)
	if _, err := r.db.ExecContext(ctx, query, ex.Fragment, string(ex.Kind), ex.Value, vec); err != nil {
		return fmt.Errorf("failed to save correction: %w", err)
	}
	return nil
}

// NearestCorrections returns the stored corrections closest to the embedding
// by cosine distance
func (r *PostgresRepository) NearestCorrections(ctx context.Context, embedding []float32, limit int) ([]model.CorrectionExample, error) {
	if limit <= 0 {
		return nil, nil
	}
	query := `
		SELECT fragment, kind, value, embedding <=> $1 AS distance
		FROM intake_corrections
		WHERE embedding IS NOT NULL
		ORDER BY embedding <=> $1
		LIMIT $2
	`
	var examples []model.CorrectionExample
	vec := pgvector.NewVector(embedding)
	if err := r.db.SelectContext(ctx, &examples, query, vec, limit); err != nil {
		return nil, fmt.Errorf("failed to find corrections: %w", err)
	}
	return examples, nil
}
