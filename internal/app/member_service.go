// internal/app/member_service.go
package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"join_request_bot/internal/domain/member"
	domainTelegram "join_request_bot/internal/domain/telegram"

	"github.com/sirupsen/logrus"
)

var (
	ErrNotAuthorized  = fmt.Errorf("sender is not a moderator")
	ErrEmptyBroadcast = fmt.Errorf("broadcast text is empty")
)

// BroadcastReport summarizes a finished broadcast run.
type BroadcastReport struct {
	Sent   int
	Failed int
	Total  int
}

// MemberService covers the member side of the bot: self-registration,
// moderator broadcasts and community stats.
type MemberService struct {
	members         member.Repository
	client          domainTelegram.Client
	log             *logrus.Entry
	adminChatID     int64
	statsRecentDays int
	now             func() time.Time
}

func NewMemberService(
	mr member.Repository,
	tc domainTelegram.Client,
	log *logrus.Entry,
	adminChatID int64,
	statsRecentDays int,
) *MemberService {
	return &MemberService{
		members:         mr,
		client:          tc,
		log:             log,
		adminChatID:     adminChatID,
		statsRecentDays: statsRecentDays,
		now:             time.Now,
	}
}

// Register signs the applicant up for announcements. Re-registering is
// harmless: details refresh, the row id stays put and created reports
// false.
func (s *MemberService) Register(ctx context.Context, a Applicant) (bool, error) {
	m := &member.Member{
		ApplicantID: a.ID,
		Username:    nullString(a.Username),
		FirstName:   nullString(a.FirstName),
		LastName:    nullString(a.LastName),
	}
	created, err := s.members.Upsert(ctx, m)
	if err != nil {
		return false, fmt.Errorf("failed to register member: %w", err)
	}
	s.log.WithFields(logrus.Fields{"applicant_id": a.ID, "created": created}).Info("Member registered")
	return created, nil
}

// Broadcast sends text to every active member. Members who blocked the
// bot are deactivated so the next run skips them.
func (s *MemberService) Broadcast(ctx context.Context, senderID int64, text string) (*BroadcastReport, error) {
	if !s.isModerator(senderID) {
		return nil, ErrNotAuthorized
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyBroadcast
	}

	members, err := s.members.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active members: %w", err)
	}

	report := &BroadcastReport{Total: len(members)}
	for _, m := range members {
		if _, err := s.client.SendMessage(m.ApplicantID, text, nil); err != nil {
			report.Failed++
			logCtx := s.log.WithError(err).WithField("applicant_id", m.ApplicantID)
			if domainTelegram.IsBlocked(err) {
				logCtx.Info("Member unreachable, deactivating")
				if err := s.members.Deactivate(ctx, m.ApplicantID); err != nil {
					logCtx.WithError(err).Error("Failed to deactivate member")
				}
			} else {
				logCtx.Warn("Failed to deliver broadcast message")
			}
			continue
		}
		report.Sent++
		if err := s.members.TouchContacted(ctx, m.ApplicantID); err != nil {
			s.log.WithError(err).WithField("applicant_id", m.ApplicantID).Warn("Failed to update contact timestamp")
		}
	}

	s.log.WithFields(logrus.Fields{"sent": report.Sent, "failed": report.Failed, "total": report.Total}).Info("Broadcast finished")
	return report, nil
}

// Stats computes the community counters for a moderator.
func (s *MemberService) Stats(ctx context.Context, senderID int64) (*member.Stats, error) {
	if !s.isModerator(senderID) {
		return nil, ErrNotAuthorized
	}
	recentSince := s.now().AddDate(0, 0, -s.statsRecentDays)
	stats, err := s.members.Stats(ctx, recentSince)
	if err != nil {
		return nil, fmt.Errorf("failed to compute member stats: %w", err)
	}
	return stats, nil
}

// RecentDays exposes the stats window for report rendering.
func (s *MemberService) RecentDays() int {
	return s.statsRecentDays
}

func (s *MemberService) isModerator(userID int64) bool {
	ok, err := s.client.IsChatAdmin(s.adminChatID, userID)
	if err != nil {
		s.log.WithError(err).WithField("user_id", userID).Warn("Failed to check moderator status")
		return false
	}
	return ok
}
