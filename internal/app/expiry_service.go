// internal/app/expiry_service.go
package app

import (
	"context"
	"time"

	"join_request_bot/internal/domain/request"
	domainTelegram "join_request_bot/internal/domain/telegram"
	"join_request_bot/internal/messages"

	"github.com/sirupsen/logrus"
)

// ExpiryService sweeps pending join requests that outlived the review
// window.
type ExpiryService struct {
	requests      request.Repository
	client        domainTelegram.Client
	log           *logrus.Entry
	adminChatID   int64
	targetGroupID int64
	window        time.Duration
	now           func() time.Time
}

func NewExpiryService(
	rr request.Repository,
	tc domainTelegram.Client,
	log *logrus.Entry,
	adminChatID int64,
	targetGroupID int64,
	window time.Duration,
) *ExpiryService {
	return &ExpiryService{
		requests:      rr,
		client:        tc,
		log:           log,
		adminChatID:   adminChatID,
		targetGroupID: targetGroupID,
		window:        window,
		now:           time.Now,
	}
}

// SweepExpired expires every pending request created at or before the
// cutoff. Each request is processed independently so one failure never
// blocks the rest of the sweep.
func (s *ExpiryService) SweepExpired(ctx context.Context) error {
	cutoff := s.now().Add(-s.window)
	pending, err := s.requests.ListPendingOlderThan(ctx, cutoff)
	if err != nil {
		s.log.WithError(err).Error("Failed to list expired join requests")
		return err
	}
	if len(pending) == 0 {
		s.log.Debug("No expired join requests")
		return nil
	}

	s.log.WithField("count", len(pending)).Info("Sweeping expired join requests")
	for _, req := range pending {
		s.expireOne(ctx, req)
	}
	return nil
}

func (s *ExpiryService) expireOne(ctx context.Context, req *request.Request) {
	logCtx := s.log.WithFields(logrus.Fields{"request_id": req.ID, "applicant_id": req.ApplicantID})

	if err := s.client.DeclineJoinRequest(s.targetGroupID, req.ApplicantID); err != nil && !domainTelegram.IsJoinRequestMissing(err) {
		logCtx.WithError(err).Warn("Failed to decline expired join request on Telegram")
	}

	if err := s.requests.MarkExpired(ctx, req.ID); err != nil {
		logCtx.WithError(err).Error("Failed to mark request expired")
		return
	}

	if req.AdminMessageID.Valid {
		if err := s.client.DeleteMessage(s.adminChatID, int(req.AdminMessageID.Int64)); err != nil {
			logCtx.WithError(err).Warn("Failed to delete moderator message for expired request")
		}
		if _, err := s.client.SendMessage(s.adminChatID, messages.AdminExpired(req.DisplayName()), nil); err != nil {
			logCtx.WithError(err).Warn("Failed to post expiry notice")
		}
	}

	if _, err := s.client.SendMessage(req.ApplicantID, messages.UserExpiredDM, nil); err != nil {
		logCtx.WithError(err).Warn("Failed to DM expiry notice")
	}

	logCtx.Info("Join request expired")
}
