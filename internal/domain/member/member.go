package member

import (
	"database/sql"
	"time"
)

// Member is an approved community member, eligible for broadcasts.
// Corresponds to the 'users' table. Logically derived from an approved
// join request but stored independently; also created directly via the
// /register command.
type Member struct {
	ID              int64
	ApplicantID     int64 // Telegram user id
	Username        sql.NullString
	FirstName       sql.NullString
	LastName        sql.NullString
	ApprovedAt      time.Time
	LastContactedAt sql.NullTime
	IsActive        bool
}

// Stats holds the aggregate counts reported by the /stats command.
type Stats struct {
	Total            int
	WithHandle       int
	Contacted        int
	RecentlyApproved int
}
