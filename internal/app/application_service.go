// internal/app/application_service.go
package app

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"join_request_bot/internal/domain/category"
	"join_request_bot/internal/domain/request"
	domainTelegram "join_request_bot/internal/domain/telegram"
	idb "join_request_bot/internal/infra/database"
	"join_request_bot/internal/messages"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// ErrNoActiveSession means the applicant pressed Complete (or similar)
// without a live conversation, e.g. after a process restart.
var ErrNoActiveSession = fmt.Errorf("no active application session")

// State names the conversation engine's explicit states.
type State int

const (
	WaitingForExplanation State = iota
	WaitingForAnswer
)

// BeginOutcome is the result of the entry command.
type BeginOutcome int

const (
	BeginStarted BeginOutcome = iota
	BeginAlreadyPending
)

// Applicant carries the identity fields handlers extract from an update.
type Applicant struct {
	ID        int64
	Username  string
	FirstName string
	LastName  string
}

// session is the transient per-applicant conversation state. It is never
// persisted; a restart drops it and the applicant resumes from /start,
// with the pending row superseded by the next Upsert.
type session struct {
	RequestID   int64
	State       State
	CategoryKey string
	Answer      string
}

// ApplicationService drives a single applicant through the intake
// conversation and submits the finished application to the moderator
// channel.
type ApplicationService struct {
	requests    request.Repository
	catalog     category.Catalog
	client      domainTelegram.Client
	log         *logrus.Entry
	adminChatID int64
	loc         *time.Location
	now         func() time.Time

	mu       sync.Mutex
	sessions map[int64]*session
}

func NewApplicationService(
	rr request.Repository,
	catalog category.Catalog,
	tc domainTelegram.Client,
	log *logrus.Entry,
	adminChatID int64,
	loc *time.Location,
) *ApplicationService {
	return &ApplicationService{
		requests:    rr,
		catalog:     catalog,
		client:      tc,
		log:         log,
		adminChatID: adminChatID,
		loc:         loc,
		now:         time.Now,
		sessions:    make(map[int64]*session),
	}
}

// Begin handles the entry command. An applicant with a pending request
// gets BeginAlreadyPending and no row is written; otherwise a fresh
// pending row replaces any decided one and a new session starts.
func (s *ApplicationService) Begin(ctx context.Context, a Applicant) (BeginOutcome, error) {
	existing, err := s.requests.GetByApplicantID(ctx, a.ID)
	if err == nil && existing.Status == request.StatusPending {
		return BeginAlreadyPending, nil
	}
	if err != nil && err != idb.ErrRequestNotFound {
		return 0, fmt.Errorf("failed to check existing request: %w", err)
	}

	req := &request.Request{
		ApplicantID: a.ID,
		Username:    nullString(a.Username),
		FirstName:   nullString(a.FirstName),
		LastName:    nullString(a.LastName),
	}
	if err := s.requests.Upsert(ctx, req); err != nil {
		return 0, fmt.Errorf("failed to create join request: %w", err)
	}

	s.mu.Lock()
	s.sessions[a.ID] = &session{RequestID: req.ID, State: WaitingForExplanation}
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{"applicant_id": a.ID, "request_id": req.ID}).Info("Application started")
	return BeginStarted, nil
}

// SelectCategory records a category button press. Reports false when the
// applicant has no live session.
func (s *ApplicationService) SelectCategory(applicantID int64, key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[applicantID]
	if !ok {
		return false
	}
	sess.CategoryKey = key
	sess.Answer = ""
	sess.State = WaitingForAnswer
	return true
}

// RecordAnswer captures free text in either state. Text typed at the entry
// menu is treated as the "other" category with the raw text as the answer.
func (s *ApplicationService) RecordAnswer(applicantID int64, text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[applicantID]
	if !ok {
		return false
	}
	if sess.State == WaitingForExplanation {
		sess.CategoryKey = category.KeyOther
	}
	sess.Answer = text
	sess.State = WaitingForAnswer
	return true
}

// Back discards the in-progress category and answer.
func (s *ApplicationService) Back(applicantID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[applicantID]
	if !ok {
		return false
	}
	sess.CategoryKey = ""
	sess.Answer = ""
	sess.State = WaitingForExplanation
	return true
}

// Complete renders the explanation from the captured category and answer,
// persists it and hands the application off to the moderator channel. A
// Complete press with no answer captured yet (a stale button after Back)
// is rejected and the session stays live. The session ends only once the
// explanation is persisted, so a failed persist can be retried from the
// same button. Submission failure is swallowed: the applicant still sees
// the submitted-confirmation.
func (s *ApplicationService) Complete(ctx context.Context, a Applicant) (string, error) {
	s.mu.Lock()
	sess, ok := s.sessions[a.ID]
	var snapshot session
	if ok {
		snapshot = *sess
	}
	s.mu.Unlock()
	if !ok || snapshot.State != WaitingForAnswer {
		return "", ErrNoActiveSession
	}

	explanation := s.catalog.Explanation(snapshot.CategoryKey, snapshot.Answer)
	if err := s.requests.SetExplanation(ctx, snapshot.RequestID, explanation); err != nil {
		return "", fmt.Errorf("failed to persist explanation: %w", err)
	}

	s.mu.Lock()
	delete(s.sessions, a.ID)
	s.mu.Unlock()

	s.submitToModerators(ctx, a, snapshot.RequestID, explanation)
	return explanation, nil
}

// Cancel aborts the conversation. Only the in-memory session is dropped;
// the pending row stays until the next /start overwrites it.
func (s *ApplicationService) Cancel(applicantID int64) {
	s.mu.Lock()
	delete(s.sessions, applicantID)
	s.mu.Unlock()
}

// InSession reports whether the applicant has a live conversation.
func (s *ApplicationService) InSession(applicantID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[applicantID]
	return ok
}

func (s *ApplicationService) submitToModerators(ctx context.Context, a Applicant, requestID int64, explanation string) {
	logCtx := s.log.WithFields(logrus.Fields{"applicant_id": a.ID, "request_id": requestID})

	text := messages.AdminApplicationText(
		a.FirstName,
		a.Username,
		a.ID,
		s.now().In(s.loc).Format("2006-01-02 15:04:05"),
		explanation,
	)
	markup := &telebot.ReplyMarkup{InlineKeyboard: [][]telebot.InlineButton{{
		{Text: messages.ApproveButton, Data: domainTelegram.ApproveData(requestID)},
		{Text: messages.RejectButton, Data: domainTelegram.DeclineData(requestID)},
	}}}

	messageID, err := s.client.SendMessage(s.adminChatID, text, &telebot.SendOptions{
		ReplyMarkup: markup,
		ParseMode:   telebot.ModeMarkdown,
	})
	if err != nil {
		logCtx.WithError(err).Error("Failed to submit application to moderator channel")
		return
	}
	if err := s.requests.SetAdminMessageID(ctx, requestID, messageID); err != nil {
		logCtx.WithError(err).Error("Failed to store moderator message id")
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
