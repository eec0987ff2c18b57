package app

import (
	"context"
	"time"

	"join_request_bot/internal/domain/member"
	"join_request_bot/internal/domain/request"
	idb "join_request_bot/internal/infra/database"

	"gopkg.in/telebot.v3"
)

// fakeRequestRepo mirrors the Postgres repository's semantics in memory:
// one row per applicant, overwrite-on-upsert, status guard on decisions.
type fakeRequestRepo struct {
	byID              map[int64]*request.Request
	nextID            int64
	upsertErr         error
	setExplanationErr error
	now               time.Time
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{byID: make(map[int64]*request.Request), now: time.Now()}
}

func (f *fakeRequestRepo) Upsert(_ context.Context, req *request.Request) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	for _, existing := range f.byID {
		if existing.ApplicantID == req.ApplicantID {
			existing.Username = req.Username
			existing.FirstName = req.FirstName
			existing.LastName = req.LastName
			existing.Status = request.StatusPending
			existing.CreatedAt = f.now
			existing.ApprovedAt.Valid = false
			existing.AdminMessageID.Valid = false
			existing.Explanation.Valid = false
			*req = *existing
			return nil
		}
	}
	f.nextID++
	req.ID = f.nextID
	req.Status = request.StatusPending
	req.CreatedAt = f.now
	stored := *req
	f.byID[req.ID] = &stored
	return nil
}

func (f *fakeRequestRepo) GetByApplicantID(_ context.Context, applicantID int64) (*request.Request, error) {
	for _, req := range f.byID {
		if req.ApplicantID == applicantID {
			cp := *req
			return &cp, nil
		}
	}
	return nil, idb.ErrRequestNotFound
}

func (f *fakeRequestRepo) GetByID(_ context.Context, id int64) (*request.Request, error) {
	req, ok := f.byID[id]
	if !ok {
		return nil, idb.ErrRequestNotFound
	}
	cp := *req
	return &cp, nil
}

func (f *fakeRequestRepo) SetExplanation(_ context.Context, id int64, explanation string) error {
	if f.setExplanationErr != nil {
		return f.setExplanationErr
	}
	req, ok := f.byID[id]
	if !ok {
		return idb.ErrRequestNotFound
	}
	req.Explanation.String = explanation
	req.Explanation.Valid = true
	return nil
}

func (f *fakeRequestRepo) SetAdminMessageID(_ context.Context, id int64, messageID int) error {
	req, ok := f.byID[id]
	if !ok {
		return idb.ErrRequestNotFound
	}
	req.AdminMessageID.Int64 = int64(messageID)
	req.AdminMessageID.Valid = true
	return nil
}

func (f *fakeRequestRepo) MarkApproved(_ context.Context, id int64, adminMessageID int) (bool, error) {
	req, ok := f.byID[id]
	if !ok || req.Status != request.StatusPending {
		return false, nil
	}
	req.Status = request.StatusApproved
	req.ApprovedAt.Time = f.now
	req.ApprovedAt.Valid = true
	req.AdminMessageID.Int64 = int64(adminMessageID)
	req.AdminMessageID.Valid = true
	return true, nil
}

func (f *fakeRequestRepo) MarkDeclined(_ context.Context, id int64, adminMessageID int) (bool, error) {
	req, ok := f.byID[id]
	if !ok || req.Status != request.StatusPending {
		return false, nil
	}
	req.Status = request.StatusDeclined
	req.AdminMessageID.Int64 = int64(adminMessageID)
	req.AdminMessageID.Valid = true
	return true, nil
}

func (f *fakeRequestRepo) MarkExpired(_ context.Context, id int64) error {
	req, ok := f.byID[id]
	if !ok {
		return nil
	}
	if req.Status == request.StatusPending {
		req.Status = request.StatusExpired
	}
	return nil
}

func (f *fakeRequestRepo) ListPendingOlderThan(_ context.Context, cutoff time.Time) ([]*request.Request, error) {
	var out []*request.Request
	for _, req := range f.byID {
		if req.Status == request.StatusPending && !req.CreatedAt.After(cutoff) {
			cp := *req
			out = append(out, &cp)
		}
	}
	return out, nil
}

// fakeMemberRepo is the in-memory counterpart of the members table.
type fakeMemberRepo struct {
	byApplicant map[int64]*member.Member
	order       []int64
	nextID      int64
	stats       *member.Stats
	statsSince  time.Time
}

func newFakeMemberRepo() *fakeMemberRepo {
	return &fakeMemberRepo{byApplicant: make(map[int64]*member.Member)}
}

func (f *fakeMemberRepo) Upsert(_ context.Context, m *member.Member) (bool, error) {
	if existing, ok := f.byApplicant[m.ApplicantID]; ok {
		existing.Username = m.Username
		existing.FirstName = m.FirstName
		existing.LastName = m.LastName
		existing.IsActive = true
		*m = *existing
		return false, nil
	}
	f.nextID++
	m.ID = f.nextID
	m.ApprovedAt = time.Now()
	m.IsActive = true
	stored := *m
	f.byApplicant[m.ApplicantID] = &stored
	f.order = append(f.order, m.ApplicantID)
	return true, nil
}

func (f *fakeMemberRepo) GetByApplicantID(_ context.Context, applicantID int64) (*member.Member, error) {
	m, ok := f.byApplicant[applicantID]
	if !ok {
		return nil, idb.ErrMemberNotFound
	}
	cp := *m
	return &cp, nil
}

func (f *fakeMemberRepo) ListActive(_ context.Context) ([]*member.Member, error) {
	var out []*member.Member
	for _, id := range f.order {
		if m := f.byApplicant[id]; m.IsActive {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeMemberRepo) Deactivate(_ context.Context, applicantID int64) error {
	m, ok := f.byApplicant[applicantID]
	if !ok {
		return idb.ErrMemberNotFound
	}
	m.IsActive = false
	return nil
}

func (f *fakeMemberRepo) TouchContacted(_ context.Context, applicantID int64) error {
	m, ok := f.byApplicant[applicantID]
	if !ok {
		return idb.ErrMemberNotFound
	}
	m.LastContactedAt.Time = time.Now()
	m.LastContactedAt.Valid = true
	return nil
}

func (f *fakeMemberRepo) Stats(_ context.Context, recentSince time.Time) (*member.Stats, error) {
	f.statsSince = recentSince
	if f.stats != nil {
		return f.stats, nil
	}
	return &member.Stats{}, nil
}

// fakeClient records outbound Telegram calls and lets tests script
// failures per chat.
type sentMessage struct {
	chatID  int64
	text    string
	options *telebot.SendOptions
}

type deletedMessage struct {
	chatID    int64
	messageID int
}

type editedMessage struct {
	chatID    int64
	messageID int
	text      string
}

type fakeClient struct {
	sent     []sentMessage
	deleted  []deletedMessage
	edited   []editedMessage
	nextID   int
	sendErrs map[int64]error

	approveErr error
	declineErr error
	approved   []int64
	declined   []int64

	inviteLink string
	inviteErr  error

	admins map[int64]bool
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		sendErrs:   make(map[int64]error),
		admins:     make(map[int64]bool),
		inviteLink: "https://t.me/+testlink",
	}
}

func (f *fakeClient) SendMessage(chatID int64, text string, options *telebot.SendOptions) (int, error) {
	if err := f.sendErrs[chatID]; err != nil {
		return 0, err
	}
	f.nextID++
	f.sent = append(f.sent, sentMessage{chatID: chatID, text: text, options: options})
	return f.nextID, nil
}

func (f *fakeClient) EditMessage(chatID int64, messageID int, text string, options *telebot.SendOptions) error {
	f.edited = append(f.edited, editedMessage{chatID: chatID, messageID: messageID, text: text})
	return nil
}

func (f *fakeClient) DeleteMessage(chatID int64, messageID int) error {
	f.deleted = append(f.deleted, deletedMessage{chatID: chatID, messageID: messageID})
	return nil
}

func (f *fakeClient) ApproveJoinRequest(groupID, applicantID int64) error {
	if f.approveErr != nil {
		return f.approveErr
	}
	f.approved = append(f.approved, applicantID)
	return nil
}

func (f *fakeClient) DeclineJoinRequest(groupID, applicantID int64) error {
	if f.declineErr != nil {
		return f.declineErr
	}
	f.declined = append(f.declined, applicantID)
	return nil
}

func (f *fakeClient) CreateInviteLink(groupID int64, name string) (string, error) {
	if f.inviteErr != nil {
		return "", f.inviteErr
	}
	return f.inviteLink, nil
}

func (f *fakeClient) IsChatAdmin(chatID, userID int64) (bool, error) {
	return f.admins[userID], nil
}

// sentTo filters recorded sends by chat id.
func (f *fakeClient) sentTo(chatID int64) []sentMessage {
	var out []sentMessage
	for _, m := range f.sent {
		if m.chatID == chatID {
			out = append(out, m)
		}
	}
	return out
}
