// internal/infra/database/postgres_request_repository.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"join_request_bot/internal/domain/request"
)

// Custom errors specific to the request repository
var ErrRequestNotFound = fmt.Errorf("join request not found")

type PostgresRequestRepository struct {
	db *sql.DB
}

func NewPostgresRequestRepository(db *sql.DB) *PostgresRequestRepository {
	return &PostgresRequestRepository{db: db}
}

const requestColumns = `id, user_id, username, first_name, last_name, status, created_at, approved_at, admin_message_id, user_explanation`

// Upsert creates a fresh pending row for the applicant. A previous row for
// the same applicant is overwritten outright: status resets to pending and
// the decision fields clear. The row id stays stable across overwrites.
func (r *PostgresRequestRepository) Upsert(ctx context.Context, req *request.Request) error {
	query := `INSERT INTO requests (user_id, username, first_name, last_name, status, created_at)
               VALUES ($1, $2, $3, $4, 'pending', NOW())
               ON CONFLICT (user_id) DO UPDATE
               SET username = EXCLUDED.username,
                   first_name = EXCLUDED.first_name,
                   last_name = EXCLUDED.last_name,
                   status = 'pending',
                   created_at = NOW(),
                   approved_at = NULL,
                   admin_message_id = NULL,
                   user_explanation = NULL
               RETURNING id, status, created_at`
	err := r.db.QueryRowContext(ctx, query, req.ApplicantID, req.Username, req.FirstName, req.LastName).
		Scan(&req.ID, &req.Status, &req.CreatedAt)
	if err != nil {
		return fmt.Errorf("error upserting join request: %w", err)
	}
	return nil
}

func (r *PostgresRequestRepository) GetByApplicantID(ctx context.Context, applicantID int64) (*request.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE user_id = $1`
	req := request.Request{}
	err := r.db.QueryRowContext(ctx, query, applicantID).Scan(
		&req.ID, &req.ApplicantID, &req.Username, &req.FirstName, &req.LastName,
		&req.Status, &req.CreatedAt, &req.ApprovedAt, &req.AdminMessageID, &req.Explanation,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("error getting join request by applicant ID: %w", err)
	}
	return &req, nil
}

func (r *PostgresRequestRepository) GetByID(ctx context.Context, id int64) (*request.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE id = $1`
	req := request.Request{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&req.ID, &req.ApplicantID, &req.Username, &req.FirstName, &req.LastName,
		&req.Status, &req.CreatedAt, &req.ApprovedAt, &req.AdminMessageID, &req.Explanation,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("error getting join request by ID: %w", err)
	}
	return &req, nil
}

func (r *PostgresRequestRepository) SetExplanation(ctx context.Context, id int64, explanation string) error {
	query := `UPDATE requests SET user_explanation = $1 WHERE id = $2`
	res, err := r.db.ExecContext(ctx, query, explanation, id)
	if err != nil {
		return fmt.Errorf("error setting explanation: %w", err)
	}
	return requireRow(res)
}

func (r *PostgresRequestRepository) SetAdminMessageID(ctx context.Context, id int64, messageID int) error {
	query := `UPDATE requests SET admin_message_id = $1 WHERE id = $2`
	res, err := r.db.ExecContext(ctx, query, messageID, id)
	if err != nil {
		return fmt.Errorf("error setting admin message id: %w", err)
	}
	return requireRow(res)
}

// MarkApproved transitions a pending request to approved. The status guard
// in the WHERE clause makes a concurrent second decision a no-op; the
// return value reports whether this call won the transition.
func (r *PostgresRequestRepository) MarkApproved(ctx context.Context, id int64, adminMessageID int) (bool, error) {
	query := `UPDATE requests
               SET status = 'approved', approved_at = NOW(), admin_message_id = $2
               WHERE id = $1 AND status = 'pending'`
	res, err := r.db.ExecContext(ctx, query, id, adminMessageID)
	if err != nil {
		return false, fmt.Errorf("error marking request approved: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error reading rows affected: %w", err)
	}
	return n == 1, nil
}

func (r *PostgresRequestRepository) MarkDeclined(ctx context.Context, id int64, adminMessageID int) (bool, error) {
	query := `UPDATE requests
               SET status = 'declined', admin_message_id = $2
               WHERE id = $1 AND status = 'pending'`
	res, err := r.db.ExecContext(ctx, query, id, adminMessageID)
	if err != nil {
		return false, fmt.Errorf("error marking request declined: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error reading rows affected: %w", err)
	}
	return n == 1, nil
}

func (r *PostgresRequestRepository) MarkExpired(ctx context.Context, id int64) error {
	query := `UPDATE requests SET status = 'expired' WHERE id = $1 AND status = 'pending'`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("error marking request expired: %w", err)
	}
	return nil
}

// ListPendingOlderThan returns pending requests created at or before the
// cutoff. The comparison is inclusive so a request created exactly at the
// cutoff instant is swept.
func (r *PostgresRequestRepository) ListPendingOlderThan(ctx context.Context, cutoff time.Time) ([]*request.Request, error) {
	query := `SELECT ` + requestColumns + `
               FROM requests
               WHERE status = 'pending' AND created_at <= $1
               ORDER BY created_at ASC`
	rows, err := r.db.QueryContext(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("error querying pending requests older than cutoff: %w", err)
	}
	defer rows.Close()

	requests := make([]*request.Request, 0)
	for rows.Next() {
		req := request.Request{}
		if err := rows.Scan(
			&req.ID, &req.ApplicantID, &req.Username, &req.FirstName, &req.LastName,
			&req.Status, &req.CreatedAt, &req.ApprovedAt, &req.AdminMessageID, &req.Explanation,
		); err != nil {
			return nil, fmt.Errorf("error scanning join request row: %w", err)
		}
		requests = append(requests, &req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating join request rows: %w", err)
	}
	return requests, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading rows affected: %w", err)
	}
	if n == 0 {
		return ErrRequestNotFound
	}
	return nil
}
