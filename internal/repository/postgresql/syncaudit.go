package postgresql

import (
	"context"
	"fmt"

	"github.com/attendsync/attendance-backend-go/internal/domain/syncaudit"
	"github.com/attendsync/attendance-backend-go/internal/pkg/database"
	"github.com/google/uuid"
)

type syncFailureRepository struct {
	db *database.DB
}

// Record implements syncaudit.FailureRepository.
func (s *syncFailureRepository) Record(ctx context.Context, failure syncaudit.Failure) error {
	q := GetQuerier(ctx, s.db)

	query := `
		INSERT INTO sync_failures (id, facility_id, stage, reason, raw_payload, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := q.Exec(ctx, query,
		uuid.New().String(),
		failure.FacilityID,
		failure.Stage,
		failure.Reason,
		failure.RawPayload,
		failure.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record sync failure: %w", err)
	}

	return nil
}

// ListByFacility implements syncaudit.FailureRepository.
func (s *syncFailureRepository) ListByFacility(ctx context.Context, facilityID string, limit int) ([]syncaudit.Failure, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		SELECT id, facility_id, stage, reason, raw_payload, occurred_at
		FROM sync_failures
		WHERE facility_id = $1
		ORDER BY occurred_at DESC
		LIMIT $2
	`

	rows, err := q.Query(ctx, query, facilityID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sync failures: %w", err)
	}
	defer rows.Close()

	var failures []syncaudit.Failure
	for rows.Next() {
		var f syncaudit.Failure
		err := rows.Scan(&f.ID, &f.FacilityID, &f.Stage, &f.Reason, &f.RawPayload, &f.OccurredAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sync failure: %w", err)
		}
		failures = append(failures, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sync failures: %w", err)
	}

	return failures, nil
}

func NewSyncFailureRepository(db *database.DB) syncaudit.FailureRepository {
	return &syncFailureRepository{db: db}
}
