package telegram

import (
	"fmt"
	"strconv"
	"strings"
)

// Callback payloads are string-encoded as "<kind>_<argument>" to stay
// wire-compatible with earlier revisions of the bot: option_<key>, back,
// complete, approve_<id>, decline_<id>. They are parsed once at the
// boundary into an Action and dispatched from there.

// ActionKind tags a parsed callback payload.
type ActionKind int

const (
	ActionUnknown ActionKind = iota
	ActionSelectCategory
	ActionBack
	ActionComplete
	ActionApprove
	ActionDecline
)

// Action is a decoded button press.
type Action struct {
	Kind        ActionKind
	CategoryKey string // set for ActionSelectCategory
	RequestID   int64  // set for ActionApprove and ActionDecline
}

const (
	optionPrefix  = "option_"
	approvePrefix = "approve_"
	declinePrefix = "decline_"

	DataBack     = "back"
	DataComplete = "complete"
)

func CategoryData(key string) string {
	return optionPrefix + key
}

func ApproveData(requestID int64) string {
	return fmt.Sprintf("%s%d", approvePrefix, requestID)
}

func DeclineData(requestID int64) string {
	return fmt.Sprintf("%s%d", declinePrefix, requestID)
}

// ParseAction decodes a raw callback payload. Anything it cannot decode,
// including a malformed request id, comes back as ActionUnknown.
func ParseAction(data string) Action {
	data = strings.TrimPrefix(data, "\f")
	switch {
	case data == DataBack:
		return Action{Kind: ActionBack}
	case data == DataComplete:
		return Action{Kind: ActionComplete}
	case strings.HasPrefix(data, optionPrefix):
		return Action{Kind: ActionSelectCategory, CategoryKey: strings.TrimPrefix(data, optionPrefix)}
	case strings.HasPrefix(data, approvePrefix):
		if id, err := strconv.ParseInt(strings.TrimPrefix(data, approvePrefix), 10, 64); err == nil {
			return Action{Kind: ActionApprove, RequestID: id}
		}
	case strings.HasPrefix(data, declinePrefix):
		if id, err := strconv.ParseInt(strings.TrimPrefix(data, declinePrefix), 10, 64); err == nil {
			return Action{Kind: ActionDecline, RequestID: id}
		}
	}
	return Action{Kind: ActionUnknown}
}
