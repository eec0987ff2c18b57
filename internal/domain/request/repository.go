package request

import (
	"context"
	"time"
)

// Repository defines the operations for persisting and retrieving join requests.
type Repository interface {
	// Upsert creates a fresh pending request for the applicant, replacing
	// any previous row for the same applicant id. The request's ID,
	// Status and CreatedAt fields are populated on return.
	Upsert(ctx context.Context, req *Request) error
	GetByApplicantID(ctx context.Context, applicantID int64) (*Request, error)
	GetByID(ctx context.Context, id int64) (*Request, error)
	SetExplanation(ctx context.Context, id int64, explanation string) error
	SetAdminMessageID(ctx context.Context, id int64, messageID int) error

	// MarkApproved and MarkDeclined transition a request out of the
	// pending state. They report false when the row was no longer
	// pending, which guards against two moderators deciding the same
	// request concurrently.
	MarkApproved(ctx context.Context, id int64, adminMessageID int) (bool, error)
	MarkDeclined(ctx context.Context, id int64, adminMessageID int) (bool, error)
	MarkExpired(ctx context.Context, id int64) error

	// ListPendingOlderThan returns pending requests created at or before
	// the cutoff instant.
	ListPendingOlderThan(ctx context.Context, cutoff time.Time) ([]*Request, error)
}
