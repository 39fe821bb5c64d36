// Package bank persists Accepted records for the downstream banking process.
// Every banked row starts as a draft vault node; promotion to public is owned
// by other systems and never happens here.
package bank

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"answer-pipeline/internal/common/config"
	"answer-pipeline/internal/common/logger"
	"answer-pipeline/internal/record"
)

var (
	ErrInsertFailed  = errors.New("BANK_INSERT_FAILED")
	ErrDuplicateSlug = errors.New("DUPLICATE_SLUG")
)

type PostgresBank struct {
	db     *sql.DB
	logger logger.Logger
}

func NewPostgres(cfg config.BankConfig, log logger.Logger) (*PostgresBank, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxConnections)
	return NewWithDB(db, log), nil
}

// NewWithDB wraps an existing handle; used by tests with sqlmock.
func NewWithDB(db *sql.DB, log logger.Logger) *PostgresBank {
	return &PostgresBank{
		db: db,
		logger: log.With(map[string]interface{}{
			"component": "bank",
		}),
	}
}

// Store persists one accepted record keyed by its vault slug. A slug that
// was already banked is reported as a duplicate, not overwritten: the review
// tool owns reconciliation of re-asked questions.
func (b *PostgresBank) Store(ctx context.Context, out *record.OutputRecord) error {
	var exists bool
	err := b.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM vault_nodes
			WHERE slug = $1
		)`, out.VaultNode.Slug).Scan(&exists)
	if err != nil {
		return fmt.Errorf("%w: duplicate check failed: %v", ErrInsertFailed, err)
	}
	if exists {
		return fmt.Errorf("%w: slug %s already banked", ErrDuplicateSlug, out.VaultNode.Slug)
	}

	payload, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("%w: marshal record: %v", ErrInsertFailed, err)
	}

	nodeID := uuid.New().String()
	createdAt := time.Now().UTC().Format(time.RFC3339)

	_, err = b.db.ExecContext(ctx, `
		INSERT INTO vault_nodes (
			id, slug, vertical_guess, cmn_status, score_10, ymyl_category, payload, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		nodeID,
		out.VaultNode.Slug,
		out.VaultNode.VerticalGuess,
		out.VaultNode.CMNStatus,
		out.InputCheck.Score10,
		string(out.YMYLCategory),
		payload,
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("%w: insert failed: %v", ErrInsertFailed, err)
	}

	b.logger.Info("record banked", map[string]interface{}{
		"nodeId": nodeID,
		"slug":   out.VaultNode.Slug,
	})
	return nil
}

// Ping verifies the connection.
func (b *PostgresBank) Ping(ctx context.Context) error {
	return b.db.PingContext(ctx)
}

// Close closes the pool.
func (b *PostgresBank) Close() error {
	return b.db.Close()
}
