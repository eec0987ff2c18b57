package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"join_request_bot/internal/domain/member"
)

// Custom errors specific to the member repository
var ErrMemberNotFound = fmt.Errorf("member not found")

type PostgresMemberRepository struct {
	db *sql.DB
}

func NewPostgresMemberRepository(db *sql.DB) *PostgresMemberRepository {
	return &PostgresMemberRepository{db: db}
}

const memberColumns = `id, user_id, username, first_name, last_name, approved_at, last_contacted_at, is_active`

// Upsert inserts the member or refreshes the existing row. The row id and
// the original approved_at survive re-registration; display names refresh
// and the member reactivates. The xmax trick distinguishes a fresh insert
// from a conflict update.
func (r *PostgresMemberRepository) Upsert(ctx context.Context, m *member.Member) (bool, error) {
	query := `INSERT INTO users (user_id, username, first_name, last_name, is_active)
               VALUES ($1, $2, $3, $4, TRUE)
               ON CONFLICT (user_id) DO UPDATE
               SET username = EXCLUDED.username,
                   first_name = EXCLUDED.first_name,
                   last_name = EXCLUDED.last_name,
                   is_active = TRUE
               RETURNING id, approved_at, (xmax = 0)`
	var created bool
	err := r.db.QueryRowContext(ctx, query, m.ApplicantID, m.Username, m.FirstName, m.LastName).
		Scan(&m.ID, &m.ApprovedAt, &created)
	if err != nil {
		return false, fmt.Errorf("error upserting member: %w", err)
	}
	m.IsActive = true
	return created, nil
}

func (r *PostgresMemberRepository) GetByApplicantID(ctx context.Context, applicantID int64) (*member.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM users WHERE user_id = $1`
	m := member.Member{}
	err := r.db.QueryRowContext(ctx, query, applicantID).Scan(
		&m.ID, &m.ApplicantID, &m.Username, &m.FirstName, &m.LastName,
		&m.ApprovedAt, &m.LastContactedAt, &m.IsActive,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("error getting member by applicant ID: %w", err)
	}
	return &m, nil
}

func (r *PostgresMemberRepository) ListActive(ctx context.Context) ([]*member.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM users WHERE is_active = TRUE ORDER BY approved_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing active members: %w", err)
	}
	defer rows.Close()

	members := make([]*member.Member, 0)
	for rows.Next() {
		m := member.Member{}
		if err := rows.Scan(
			&m.ID, &m.ApplicantID, &m.Username, &m.FirstName, &m.LastName,
			&m.ApprovedAt, &m.LastContactedAt, &m.IsActive,
		); err != nil {
			return nil, fmt.Errorf("error scanning active member: %w", err)
		}
		members = append(members, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating active members: %w", err)
	}
	return members, nil
}

func (r *PostgresMemberRepository) Deactivate(ctx context.Context, applicantID int64) error {
	query := `UPDATE users SET is_active = FALSE WHERE user_id = $1`
	res, err := r.db.ExecContext(ctx, query, applicantID)
	if err != nil {
		return fmt.Errorf("error deactivating member: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading rows affected: %w", err)
	}
	if n == 0 {
		return ErrMemberNotFound
	}
	return nil
}

func (r *PostgresMemberRepository) TouchContacted(ctx context.Context, applicantID int64) error {
	query := `UPDATE users SET last_contacted_at = NOW() WHERE user_id = $1`
	if _, err := r.db.ExecContext(ctx, query, applicantID); err != nil {
		return fmt.Errorf("error updating last contacted timestamp: %w", err)
	}
	return nil
}

func (r *PostgresMemberRepository) Stats(ctx context.Context, recentSince time.Time) (*member.Stats, error) {
	query := `SELECT COUNT(*),
                      COUNT(*) FILTER (WHERE username IS NOT NULL AND username <> ''),
                      COUNT(*) FILTER (WHERE last_contacted_at IS NOT NULL),
                      COUNT(*) FILTER (WHERE approved_at >= $1)
               FROM users`
	s := member.Stats{}
	err := r.db.QueryRowContext(ctx, query, recentSince).
		Scan(&s.Total, &s.WithHandle, &s.Contacted, &s.RecentlyApproved)
	if err != nil {
		return nil, fmt.Errorf("error computing member stats: %w", err)
	}
	return &s, nil
}
