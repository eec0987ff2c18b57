// internal/infra/telegram/client.go
package telegram

import (
	"strconv"

	"gopkg.in/telebot.v3"
)

// TelebotAdapter implements the domain Client interface on top of
// gopkg.in/telebot.v3.
type TelebotAdapter struct {
	bot *telebot.Bot
}

func NewTelebotAdapter(b *telebot.Bot) *TelebotAdapter {
	return &TelebotAdapter{bot: b}
}

// SendMessage sends a text message and returns the new message id.
func (tba *TelebotAdapter) SendMessage(chatID int64, text string, options *telebot.SendOptions) (int, error) {
	if options == nil {
		options = &telebot.SendOptions{}
	}
	msg, err := tba.bot.Send(&telebot.Chat{ID: chatID}, text, options)
	if err != nil {
		return 0, err
	}
	return msg.ID, nil
}

func (tba *TelebotAdapter) EditMessage(chatID int64, messageID int, text string, options *telebot.SendOptions) error {
	stored := &telebot.StoredMessage{ChatID: chatID, MessageID: strconv.Itoa(messageID)}
	if options == nil {
		options = &telebot.SendOptions{}
	}
	_, err := tba.bot.Edit(stored, text, options)
	return err
}

func (tba *TelebotAdapter) DeleteMessage(chatID int64, messageID int) error {
	stored := &telebot.StoredMessage{ChatID: chatID, MessageID: strconv.Itoa(messageID)}
	return tba.bot.Delete(stored)
}

func (tba *TelebotAdapter) ApproveJoinRequest(groupID, applicantID int64) error {
	return tba.bot.ApproveJoinRequest(&telebot.Chat{ID: groupID}, &telebot.User{ID: applicantID})
}

func (tba *TelebotAdapter) DeclineJoinRequest(groupID, applicantID int64) error {
	return tba.bot.DeclineJoinRequest(&telebot.Chat{ID: groupID}, &telebot.User{ID: applicantID})
}

// CreateInviteLink creates a named single-use invite link for the group.
func (tba *TelebotAdapter) CreateInviteLink(groupID int64, name string) (string, error) {
	link, err := tba.bot.CreateInviteLink(&telebot.Chat{ID: groupID}, &telebot.ChatInviteLink{
		Name:        name,
		MemberLimit: 1,
	})
	if err != nil {
		return "", err
	}
	return link.InviteLink, nil
}

// IsChatAdmin reports whether the user is a creator or administrator of
// the chat.
func (tba *TelebotAdapter) IsChatAdmin(chatID, userID int64) (bool, error) {
	m, err := tba.bot.ChatMemberOf(&telebot.Chat{ID: chatID}, &telebot.User{ID: userID})
	if err != nil {
		return false, err
	}
	return m.Role == telebot.Creator || m.Role == telebot.Administrator, nil
}
