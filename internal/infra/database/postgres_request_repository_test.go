package database

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"join_request_bot/internal/domain/request"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

var requestRows = []string{
	"id", "user_id", "username", "first_name", "last_name",
	"status", "created_at", "approved_at", "admin_message_id", "user_explanation",
}

func TestRequestUpsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()
	repo := NewPostgresRequestRepository(db)

	t.Run("returns the row id and reset fields", func(t *testing.T) {
		createdAt := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO requests")).
			WithArgs(int64(42), "alice", "Alice", "Liddell").
			WillReturnRows(sqlmock.NewRows([]string{"id", "status", "created_at"}).
				AddRow(int64(7), "pending", createdAt))

		req := &request.Request{
			ApplicantID: 42,
			Username:    sql.NullString{String: "alice", Valid: true},
			FirstName:   sql.NullString{String: "Alice", Valid: true},
			LastName:    sql.NullString{String: "Liddell", Valid: true},
		}
		err := repo.Upsert(context.Background(), req)
		assert.NoError(t, err)
		assert.Equal(t, int64(7), req.ID)
		assert.Equal(t, request.StatusPending, req.Status)
		assert.Equal(t, createdAt, req.CreatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRequestGet(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()
	repo := NewPostgresRequestRepository(db)

	t.Run("by id", func(t *testing.T) {
		createdAt := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
		mock.ExpectQuery(regexp.QuoteMeta("FROM requests WHERE id = $1")).
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows(requestRows).
				AddRow(int64(7), int64(42), "alice", "Alice", nil, "pending", createdAt, nil, nil, "Other: hi"))

		req, err := repo.GetByID(context.Background(), 7)
		assert.NoError(t, err)
		assert.Equal(t, int64(42), req.ApplicantID)
		assert.Equal(t, "Other: hi", req.Explanation.String)
		assert.False(t, req.LastName.Valid)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row maps to the sentinel", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("FROM requests WHERE id = $1")).
			WithArgs(int64(999)).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByID(context.Background(), 999)
		assert.ErrorIs(t, err, ErrRequestNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("by applicant id", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("FROM requests WHERE user_id = $1")).
			WithArgs(int64(42)).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByApplicantID(context.Background(), 42)
		assert.ErrorIs(t, err, ErrRequestNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRequestDecisions(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()
	repo := NewPostgresRequestRepository(db)

	t.Run("MarkApproved wins on a pending row", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("status = 'pending'")).
			WithArgs(int64(7), 555).
			WillReturnResult(sqlmock.NewResult(0, 1))

		ok, err := repo.MarkApproved(context.Background(), 7, 555)
		assert.NoError(t, err)
		assert.True(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("MarkApproved loses on an already decided row", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("status = 'pending'")).
			WithArgs(int64(7), 555).
			WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := repo.MarkApproved(context.Background(), 7, 555)
		assert.NoError(t, err)
		assert.False(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("MarkDeclined guards on status the same way", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("status = 'declined'")).
			WithArgs(int64(7), 555).
			WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := repo.MarkDeclined(context.Background(), 7, 555)
		assert.NoError(t, err)
		assert.False(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRequestSetters(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()
	repo := NewPostgresRequestRepository(db)

	t.Run("SetExplanation on a missing row", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("SET user_explanation = $1")).
			WithArgs("Other: hi", int64(999)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.SetExplanation(context.Background(), 999, "Other: hi")
		assert.ErrorIs(t, err, ErrRequestNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("SetAdminMessageID", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("SET admin_message_id = $1")).
			WithArgs(900, int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.SetAdminMessageID(context.Background(), 7, 900)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestListPendingOlderThan(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()
	repo := NewPostgresRequestRepository(db)

	cutoff := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	oldCreated := cutoff.Add(-2 * time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta("status = 'pending' AND created_at <= $1")).
		WithArgs(cutoff).
		WillReturnRows(sqlmock.NewRows(requestRows).
			AddRow(int64(7), int64(42), "alice", "Alice", nil, "pending", oldCreated, nil, int64(900), "Other: hi").
			AddRow(int64(8), int64(43), nil, "Bob", nil, "pending", cutoff, nil, nil, nil))

	pending, err := repo.ListPendingOlderThan(context.Background(), cutoff)
	assert.NoError(t, err)
	if assert.Len(t, pending, 2) {
		assert.Equal(t, int64(42), pending[0].ApplicantID)
		assert.True(t, pending[0].AdminMessageID.Valid)
		assert.False(t, pending[1].AdminMessageID.Valid)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}
