// Package messages is the catalog of every user- and admin-facing text.
package messages

import "fmt"

// Bot command menu descriptions.
const (
	CommandStartDesc    = "Start the application process"
	CommandCancelDesc   = "Cancel the application in progress"
	CommandRegisterDesc = "Sign up for community announcements"
	CommandHelpDesc     = "Show available commands"
)

// Applicant flow.
const (
	Welcome = "👋 Welcome to our `Almaty Meetups`!\n\n" +
		"We are a local community of foreigners and locals based in Almaty, Kazakhstan.\n\n" +
		"Our purpose is to meet and connect with travelers and people living in Almaty. We frequently organize gatherings and events to meet new people and make new friends.\n\n" +
		"To join our group, please tell us how you found out about us:"

	PendingRequest = "⏳ You already have a pending request. Please wait for admin approval."

	Cancelled = "❌ Application cancelled. You can start again anytime with /start"

	Submitted = "✅ Your application has been submitted! We'll review it and get back to you soon."

	UserApprovedDM = "🎉 Congratulations! Your application has been approved. Welcome to our community!"

	UserDeclinedDM = "❌ Unfortunately, your application has been declined. Thank you for your interest in our community."

	UserExpiredDM = "⌛ Your join request expired because it was not reviewed in time. You can apply again anytime with /start"
)

// Button labels.
const (
	BackButton     = "⬅️ Back"
	CompleteButton = "✅ Complete Application"
	ApproveButton  = "✅ Approve"
	RejectButton   = "❌ Reject"
)

// Error and fallback notices.
const (
	RequestNotFound  = "❌ Request not found."
	AlreadyProcessed = "This request has already been processed."
	UnknownAction    = "This action is not available right now."
	TryAgainLater    = "Sorry, there was a temporary issue. Please try again in a moment."
	NotAuthorized    = "🚫 You are not allowed to use this command."
	BroadcastUsage   = "Usage: /broadcast <message>"
)

// Registration flow.
const (
	RegisterWelcome = "✅ You're registered! You'll now receive community announcements."
	RegisterAlready = "👍 You're already registered. Your details have been updated."
)

// Help texts.
const (
	AdminHelp = "🛠 **Moderator commands**\n\n" +
		"`/broadcast <message>` — send a message to every active member.\n" +
		"`/stats` — show community statistics.\n" +
		"`/help` — show this message.\n\n" +
		"Join requests arrive in this channel with Approve/Reject buttons."

	UserHelp = "`/start` — begin the application to join the group.\n" +
		"`/cancel` — abort an application in progress.\n" +
		"`/register` — sign up for community announcements.\n" +
		"`/help` — show this message."
)

// AdminPanel greets a moderator who sends /start instead of applying.
func AdminPanel(firstName string) string {
	return fmt.Sprintf("👋 Hi %s! You're a moderator of this community.\n\n%s", firstName, AdminHelp)
}

func UserApprovedWithLink(inviteLink string) string {
	return "🎉 You have been approved!\n\n" +
		"Tap this one-time invite link to join the group:\n" +
		inviteLink + "\n\n" +
		"Note: This link works once and expires after first use."
}

func CompletePrompt(answer string) string {
	return "✅ Thank you for your answer!\n\n" +
		fmt.Sprintf("Your response: %s\n\n", answer) +
		"Click the button below to complete your application:"
}

// AdminApplicationText is the moderator-channel submission. The name links
// to the applicant via a tg://user deep link so moderators can inspect the
// profile before deciding.
func AdminApplicationText(firstName, username string, userID int64, when, explanation string) string {
	handle := ""
	if username != "" {
		handle = fmt.Sprintf(" (@%s)", username)
	}
	return fmt.Sprintf(
		"📝 **New Join Request**\n\n👤 **User:** [%s%s](tg://user?id=%d)\n📅 **Date:** %s\n\n💬 **User's Answer:**\n%s",
		firstName, handle, userID, when, explanation,
	)
}

func AdminApprovedAdded(name string) string {
	return fmt.Sprintf("✅ **%s** has been **approved** and added to the group!", name)
}

func AdminApprovedLinkSent(name string) string {
	return fmt.Sprintf("✅ **%s** approved. Single-use invite link has been sent to the user.", name)
}

func AdminDeclined(name string) string {
	return fmt.Sprintf("❌ **%s** has been **declined**.", name)
}

func AdminExpired(name string) string {
	return fmt.Sprintf("⌛ Request from **%s** expired without a decision.", name)
}

func AdminInviteLinkFailed(userID int64, err error) string {
	return fmt.Sprintf("❌ Failed to send invite link to user %d: %v", userID, err)
}

func AdminApproveFailed(userID int64, err error) string {
	return fmt.Sprintf("❌ Failed to approve user %d: %v", userID, err)
}

func AdminDeclineFailed(userID int64, err error) string {
	return fmt.Sprintf("❌ Failed to decline user %d: %v", userID, err)
}

func BroadcastSummary(sent, failed, total int) string {
	return fmt.Sprintf("📣 Broadcast finished: %d sent, %d failed, %d total.", sent, failed, total)
}

func StatsReport(total, withHandle, contacted, recent, recentDays int) string {
	return fmt.Sprintf(
		"📊 **Community stats**\n\n👥 Total members: %d\n🔖 With username: %d\n📬 Contacted at least once: %d\n🆕 Approved in last %d days: %d",
		total, withHandle, contacted, recentDays, recent,
	)
}
