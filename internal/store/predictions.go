package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PredictionRecord is one persisted prediction. OwnerID is nil for
// anonymous predictions that were computed but not attached to an account.
// Records are immutable once written; only an admin delete removes them.
type PredictionRecord struct {
	ID          string    `json:"id"`
	OwnerID     *string   `json:"owner_id,omitempty"`
	Disease     string    `json:"disease"`
	Specialist  string    `json:"specialist"`
	Confidence  *float64  `json:"confidence"`
	Symptoms    []string  `json:"symptoms"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// SavePrediction writes one record and returns its ID.
func (s *Store) SavePrediction(ctx context.Context, rec *PredictionRecord) (string, error) {
	rec.ID = uuid.NewString()
	err := s.pool.QueryRow(ctx,
		`INSERT INTO predictions (id, owner_id, disease, specialist, confidence, symptoms, description)
         VALUES ($1, $2, $3, $4, $5, $6, $7)
         RETURNING created_at`,
		rec.ID, rec.OwnerID, rec.Disease, rec.Specialist, rec.Confidence, rec.Symptoms, rec.Description,
	).Scan(&rec.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("save prediction: %w", err)
	}
	return rec.ID, nil
}

// ListPredictionsByOwner returns a user's history, newest first.
func (s *Store) ListPredictionsByOwner(ctx context.Context, ownerID string) ([]PredictionRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, owner_id, disease, specialist, confidence, symptoms, description, created_at
         FROM predictions
         WHERE owner_id = $1
         ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list predictions: %w", err)
	}
	defer rows.Close()

	var records []PredictionRecord
	for rows.Next() {
		var rec PredictionRecord
		if err := rows.Scan(&rec.ID, &rec.OwnerID, &rec.Disease, &rec.Specialist,
			&rec.Confidence, &rec.Symptoms, &rec.Description, &rec.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// DeletePrediction removes one record. Admin-only at the handler level.
func (s *Store) DeletePrediction(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM predictions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete prediction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
