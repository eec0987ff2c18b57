// internal/app/admin_service.go
package app

import (
	"context"
	"fmt"

	"join_request_bot/internal/domain/member"
	"join_request_bot/internal/domain/request"
	domainTelegram "join_request_bot/internal/domain/telegram"
	idb "join_request_bot/internal/infra/database"
	"join_request_bot/internal/messages"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// DecisionOutcome tells the handler what to show the moderator who
// pressed the button.
type DecisionOutcome int

const (
	DecisionDone DecisionOutcome = iota
	DecisionRequestNotFound
	DecisionAlreadyDecided
	DecisionFailed
)

// AdminService executes moderator decisions on join requests.
type AdminService struct {
	requests      request.Repository
	members       member.Repository
	client        domainTelegram.Client
	log           *logrus.Entry
	adminChatID   int64
	targetGroupID int64
}

func NewAdminService(
	rr request.Repository,
	mr member.Repository,
	tc domainTelegram.Client,
	log *logrus.Entry,
	adminChatID int64,
	targetGroupID int64,
) *AdminService {
	return &AdminService{
		requests:      rr,
		members:       mr,
		client:        tc,
		log:           log,
		adminChatID:   adminChatID,
		targetGroupID: targetGroupID,
	}
}

// IsModerator reports whether the user administers the moderator channel.
func (s *AdminService) IsModerator(userID int64) bool {
	ok, err := s.client.IsChatAdmin(s.adminChatID, userID)
	if err != nil {
		s.log.WithError(err).WithField("user_id", userID).Warn("Failed to check moderator status")
		return false
	}
	return ok
}

// Approve grants the join request. The happy path approves the pending
// Telegram join request directly; when Telegram no longer has one (the
// applicant withdrew it or it aged out) the service falls back to a
// single-use invite link DM. A failed link creation leaves the row
// pending so a moderator can retry.
func (s *AdminService) Approve(ctx context.Context, requestID int64, pressedMessageID int) DecisionOutcome {
	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		if err == idb.ErrRequestNotFound {
			s.markStaleMessage(requestID, pressedMessageID)
			return DecisionRequestNotFound
		}
		s.log.WithError(err).WithField("request_id", requestID).Error("Failed to load join request")
		return DecisionFailed
	}
	if req.Status != request.StatusPending {
		return DecisionAlreadyDecided
	}

	logCtx := s.log.WithFields(logrus.Fields{"request_id": req.ID, "applicant_id": req.ApplicantID})

	err = s.client.ApproveJoinRequest(s.targetGroupID, req.ApplicantID)
	if err == nil {
		return s.finishApproval(ctx, req, pressedMessageID, "")
	}

	if domainTelegram.IsJoinRequestMissing(err) {
		logCtx.Info("No pending join request on Telegram, falling back to invite link")
		link, linkErr := s.client.CreateInviteLink(s.targetGroupID, fmt.Sprintf("Approval for %s", req.DisplayName()))
		if linkErr != nil {
			logCtx.WithError(linkErr).Error("Failed to create invite link")
			s.notifyAdmins(messages.AdminInviteLinkFailed(req.ApplicantID, linkErr))
			return DecisionFailed
		}
		return s.finishApproval(ctx, req, pressedMessageID, link)
	}

	logCtx.WithError(err).Error("Failed to approve join request on Telegram")
	s.notifyAdmins(messages.AdminApproveFailed(req.ApplicantID, err))
	return DecisionFailed
}

// finishApproval runs the shared tail of both approval paths: win the
// status transition, record the member, clean up the moderator message
// and notify both sides. A non-empty inviteLink means the link path, and
// there the DM is the actual grant, so its failure is surfaced to the
// moderators instead of swallowed.
func (s *AdminService) finishApproval(ctx context.Context, req *request.Request, pressedMessageID int, inviteLink string) DecisionOutcome {
	logCtx := s.log.WithFields(logrus.Fields{"request_id": req.ID, "applicant_id": req.ApplicantID})

	ok, err := s.requests.MarkApproved(ctx, req.ID, pressedMessageID)
	if err != nil {
		logCtx.WithError(err).Error("Failed to mark request approved")
		return DecisionFailed
	}
	if !ok {
		return DecisionAlreadyDecided
	}

	m := &member.Member{
		ApplicantID: req.ApplicantID,
		Username:    req.Username,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
	}
	if _, err := s.members.Upsert(ctx, m); err != nil {
		logCtx.WithError(err).Error("Failed to record approved member")
	}

	if err := s.client.DeleteMessage(s.adminChatID, pressedMessageID); err != nil {
		logCtx.WithError(err).Warn("Failed to delete moderator message")
	}

	if inviteLink == "" {
		s.notifyAdmins(messages.AdminApprovedAdded(req.DisplayName()))
		if err := s.sendDM(req.ApplicantID, messages.UserApprovedDM); err != nil {
			logCtx.WithError(err).Warn("Failed to DM approval notice")
		}
		return DecisionDone
	}

	s.notifyAdmins(messages.AdminApprovedLinkSent(req.DisplayName()))
	if err := s.sendDM(req.ApplicantID, messages.UserApprovedWithLink(inviteLink)); err != nil {
		logCtx.WithError(err).Error("Failed to DM invite link")
		s.notifyAdmins(messages.AdminInviteLinkFailed(req.ApplicantID, err))
	}
	return DecisionDone
}

// Decline rejects the join request. A join request already gone from
// Telegram's side is fine, the row is declined regardless.
func (s *AdminService) Decline(ctx context.Context, requestID int64, pressedMessageID int) DecisionOutcome {
	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		if err == idb.ErrRequestNotFound {
			s.markStaleMessage(requestID, pressedMessageID)
			return DecisionRequestNotFound
		}
		s.log.WithError(err).WithField("request_id", requestID).Error("Failed to load join request")
		return DecisionFailed
	}
	if req.Status != request.StatusPending {
		return DecisionAlreadyDecided
	}

	logCtx := s.log.WithFields(logrus.Fields{"request_id": req.ID, "applicant_id": req.ApplicantID})

	if err := s.client.DeclineJoinRequest(s.targetGroupID, req.ApplicantID); err != nil && !domainTelegram.IsJoinRequestMissing(err) {
		logCtx.WithError(err).Error("Failed to decline join request on Telegram")
		s.notifyAdmins(messages.AdminDeclineFailed(req.ApplicantID, err))
		return DecisionFailed
	}

	ok, err := s.requests.MarkDeclined(ctx, req.ID, pressedMessageID)
	if err != nil {
		logCtx.WithError(err).Error("Failed to mark request declined")
		return DecisionFailed
	}
	if !ok {
		return DecisionAlreadyDecided
	}

	if err := s.client.DeleteMessage(s.adminChatID, pressedMessageID); err != nil {
		logCtx.WithError(err).Warn("Failed to delete moderator message")
	}

	s.notifyAdmins(messages.AdminDeclined(req.DisplayName()))
	if err := s.sendDM(req.ApplicantID, messages.UserDeclinedDM); err != nil {
		logCtx.WithError(err).Warn("Failed to DM decline notice")
	}
	return DecisionDone
}

// markStaleMessage rewrites a moderator message whose request row no
// longer exists, so the dead buttons disappear.
func (s *AdminService) markStaleMessage(requestID int64, pressedMessageID int) {
	if err := s.client.EditMessage(s.adminChatID, pressedMessageID, messages.RequestNotFound, nil); err != nil {
		s.log.WithError(err).WithField("request_id", requestID).Warn("Failed to mark stale moderator message")
	}
}

func (s *AdminService) notifyAdmins(text string) {
	_, err := s.client.SendMessage(s.adminChatID, text, &telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
	if err != nil {
		s.log.WithError(err).Warn("Failed to post moderator notice")
	}
}

func (s *AdminService) sendDM(applicantID int64, text string) error {
	_, err := s.client.SendMessage(applicantID, text, nil)
	return err
}
