package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/queuebot/internal/ports/secondary"
)

// ClaimRepository implements secondary.ClaimRepository with SQLite.
type ClaimRepository struct {
	db *sql.DB
}

// NewClaimRepository creates a new SQLite claim repository.
func NewClaimRepository(db *sql.DB) *ClaimRepository {
	return &ClaimRepository{db: db}
}

// TryCreate inserts a claim if none exists for the message. The primary key
// on message_id plus INSERT OR IGNORE makes this an atomic create-if-absent;
// RowsAffected distinguishes "I just claimed it" from "someone raced me".
func (r *ClaimRepository) TryCreate(ctx context.Context, messageID, claimantID string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO claims (message_id, claimant_id) VALUES (?, ?)",
		messageID, claimantID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to create claim: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read claim insert result: %w", err)
	}

	return rowsAffected > 0, nil
}

// Get returns the claimant for a message, ok=false if unclaimed.
func (r *ClaimRepository) Get(ctx context.Context, messageID string) (string, bool, error) {
	var claimantID string
	err := r.db.QueryRowContext(ctx,
		"SELECT claimant_id FROM claims WHERE message_id = ?",
		messageID,
	).Scan(&claimantID)

	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get claim: %w", err)
	}

	return claimantID, true, nil
}

// Delete removes a claim. Deleting a missing claim is not an error: the
// archive and reject paths both converge here regardless of prior state.
func (r *ClaimRepository) Delete(ctx context.Context, messageID string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM claims WHERE message_id = ?", messageID)
	if err != nil {
		return fmt.Errorf("failed to delete claim: %w", err)
	}
	return nil
}

// DeleteAll removes every claim and reports how many were removed.
func (r *ClaimRepository) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM claims")
	if err != nil {
		return 0, fmt.Errorf("failed to delete claims: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted claims: %w", err)
	}

	return rowsAffected, nil
}

// List returns all live claims, oldest first.
func (r *ClaimRepository) List(ctx context.Context) ([]*secondary.ClaimRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT message_id, claimant_id, created_at FROM claims ORDER BY created_at ASC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list claims: %w", err)
	}
	defer rows.Close()

	var claims []*secondary.ClaimRecord
	for rows.Next() {
		var createdAt time.Time
		record := &secondary.ClaimRecord{}
		if err := rows.Scan(&record.MessageID, &record.ClaimantID, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan claim: %w", err)
		}
		record.CreatedAt = createdAt.Format(time.RFC3339)
		claims = append(claims, record)
	}

	return claims, nil
}

// Ensure ClaimRepository implements the interface
var _ secondary.ClaimRepository = (*ClaimRepository)(nil)
