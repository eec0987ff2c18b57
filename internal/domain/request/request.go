package request

import (
	"database/sql"
	"strconv"
	"time"
)

// Status is the lifecycle state of a join request.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusDeclined Status = "declined"
	StatusExpired  Status = "expired"
)

// Request represents a single application to join the target group.
// Corresponds to the 'requests' table. At most one row exists per
// applicant; a new /start overwrites the previous one outright.
type Request struct {
	ID             int64
	ApplicantID    int64 // Telegram user id of the applicant
	Username       sql.NullString
	FirstName      sql.NullString
	LastName       sql.NullString
	Status         Status
	CreatedAt      time.Time
	ApprovedAt     sql.NullTime
	AdminMessageID sql.NullInt64 // moderator-channel message carrying the Approve/Reject buttons
	Explanation    sql.NullString
}

// DisplayName returns the best human-readable name for the applicant,
// falling back to the numeric id when no name fields are set.
func (r *Request) DisplayName() string {
	if r.FirstName.Valid && r.FirstName.String != "" {
		return r.FirstName.String
	}
	if r.Username.Valid && r.Username.String != "" {
		return r.Username.String
	}
	return strconv.FormatInt(r.ApplicantID, 10)
}
