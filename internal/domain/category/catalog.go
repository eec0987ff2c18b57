// Package category holds the data-driven catalog of reason-for-joining
// options. Adding a category here is enough to surface a new button in the
// entry menu; the conversation engine never switches on concrete keys.
package category

import "fmt"

// KeyOther is the category applied when the applicant types free text at
// the entry menu instead of picking a button.
const KeyOther = "other"

// FallbackPrompt is shown when a callback carries a category key the
// catalog does not know.
const FallbackPrompt = "Please provide more details:"

// Category describes one option: the button label shown in the entry menu,
// the follow-up question, and the explanation template with a single %s
// slot for the applicant's answer.
type Category struct {
	Key      string
	Label    string
	Prompt   string
	Template string
}

// Catalog is an ordered set of categories. Order is preserved so menus
// render deterministically.
type Catalog struct {
	ordered []Category
	byKey   map[string]Category
}

func NewCatalog(categories ...Category) Catalog {
	byKey := make(map[string]Category, len(categories))
	for _, c := range categories {
		byKey[c.Key] = c
	}
	return Catalog{ordered: categories, byKey: byKey}
}

// Default returns the catalog used by the Almaty Meetups deployment.
func Default() Catalog {
	return NewCatalog(
		Category{
			Key:      "couchsurfing",
			Label:    "🏠 Couchsurfing",
			Prompt:   "What's your Couchsurfing profile link or username?",
			Template: "Found through Couchsurfing. Account: %s",
		},
		Category{
			Key:      "invited",
			Label:    "👥 Someone invited me",
			Prompt:   "What is the Telegram username of the person who invited you to the group?",
			Template: "Invited by: %s",
		},
		Category{
			Key:      KeyOther,
			Label:    "🔍 Other",
			Prompt:   "How did you find out about the group? Please provide more details and a link if possible.",
			Template: "Other: %s",
		},
	)
}

// All returns the categories in insertion order.
func (c Catalog) All() []Category {
	out := make([]Category, len(c.ordered))
	copy(out, c.ordered)
	return out
}

func (c Catalog) Get(key string) (Category, bool) {
	cat, ok := c.byKey[key]
	return cat, ok
}

// Explanation renders the final explanation string for a category/answer
// pair. Unrecognized keys fall back to a format naming the raw key so the
// moderators still see what the applicant submitted.
func (c Catalog) Explanation(key, answer string) string {
	if cat, ok := c.byKey[key]; ok {
		return fmt.Sprintf(cat.Template, answer)
	}
	return fmt.Sprintf("Unknown option '%s': %s", key, answer)
}
