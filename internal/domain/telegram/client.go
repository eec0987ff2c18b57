package telegram

import (
	"errors"
	"strings"

	"gopkg.in/telebot.v3"
)

// Client is the outbound messaging capability used by the application
// services. It decouples the application logic from the specific bot
// library.
type Client interface {
	// SendMessage sends text to a chat and returns the new message's id.
	SendMessage(chatID int64, text string, options *telebot.SendOptions) (int, error)
	EditMessage(chatID int64, messageID int, text string, options *telebot.SendOptions) error
	DeleteMessage(chatID int64, messageID int) error

	// ApproveJoinRequest approves the applicant's pending platform-level
	// join request on the group.
	ApproveJoinRequest(groupID, applicantID int64) error
	DeclineJoinRequest(groupID, applicantID int64) error

	// CreateInviteLink creates a single-use, one-member invitation link
	// for the group and returns its URL.
	CreateInviteLink(groupID int64, name string) (string, error)

	// IsChatAdmin reports whether the user is a creator or administrator
	// of the chat. This is a live permission lookup, not a stored role.
	IsChatAdmin(chatID, userID int64) (bool, error)
}

// IsJoinRequestMissing reports whether err is Telegram's "no pending join
// request" condition. It is a branch signal, not a failure: the applicant
// reached the bot via a deep link instead of a platform-level join request,
// so approval has to fall back to an invite link.
func IsJoinRequestMissing(err error) bool {
	if err == nil {
		return false
	}
	desc := strings.ToUpper(err.Error())
	return strings.Contains(desc, "HIDE_REQUESTER_MISSING") ||
		strings.Contains(desc, "CHAT_JOIN_REQUEST_NOT_FOUND")
}

// IsBlocked reports whether err means the recipient blocked the bot or the
// bot is otherwise forbidden from messaging them. During a broadcast this
// triggers deactivation of the member.
func IsBlocked(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, telebot.ErrBlockedByUser) ||
		errors.Is(err, telebot.ErrUserIsDeactivated) ||
		errors.Is(err, telebot.ErrNotStartedByUser) {
		return true
	}
	return strings.Contains(err.Error(), "Forbidden")
}
