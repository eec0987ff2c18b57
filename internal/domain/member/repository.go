package member

import (
	"context"
	"time"
)

// Repository defines the operations for persisting and retrieving members.
type Repository interface {
	// Upsert inserts the member or refreshes an existing row for the same
	// applicant id. The row id and the original approval timestamp are
	// stable across upserts; display names refresh and the row is
	// reactivated. Reports whether a new row was created.
	Upsert(ctx context.Context, m *Member) (created bool, err error)
	GetByApplicantID(ctx context.Context, applicantID int64) (*Member, error)
	ListActive(ctx context.Context) ([]*Member, error)

	// Deactivate soft-deletes a member, used when a broadcast delivery
	// fails because the member blocked the bot.
	Deactivate(ctx context.Context, applicantID int64) error
	TouchContacted(ctx context.Context, applicantID int64) error
	Stats(ctx context.Context, recentSince time.Time) (*Stats, error)
}
