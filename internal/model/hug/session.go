package hug

import "time"

// DefaultRecipient is substituted whenever a recipient name is absent.
const DefaultRecipient = "someone special"

// Prompt is one AI-generated writing prompt shown during reflection.
type Prompt struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Icon string `json:"icon"`
}

// Ingredient ties a user-authored story fragment to the prompt that
// elicited it. IDs are assigned by the session store and never reused
// within a session.
type Ingredient struct {
	ID      string `json:"id"`
	Prompt  string `json:"prompt"`
	Content string `json:"content"`
}

// Session is the persistent record of one in-progress Soul Hug.
type Session struct {
	SessionID          string       `json:"sessionId"`
	RecipientName      string       `json:"recipientName"`
	Anchor             string       `json:"anchor"`
	Occasion           string       `json:"occasion,omitempty"`
	Tone               string       `json:"tone,omitempty"`
	AIGeneratedPrompts []Prompt     `json:"aiGeneratedPrompts"`
	Descriptors        []string     `json:"descriptors"`
	Ingredients        []Ingredient `json:"ingredients"`
	FinalMessage       string       `json:"finalMessage"`
	CreatedAt          time.Time    `json:"createdAt"`
	UpdatedAt          time.Time    `json:"updatedAt"`
}

// Recipient returns the recipient name, falling back to the default.
func (s Session) Recipient() string {
	if s.RecipientName == "" {
		return DefaultRecipient
	}
	return s.RecipientName
}

// HasIngredient reports whether the session contains the given ingredient id.
func (s Session) HasIngredient(id string) bool {
	for _, ing := range s.Ingredients {
		if ing.ID == id {
			return true
		}
	}
	return false
}

// Patch describes a partial session update. Nil fields are left untouched;
// non-nil fields replace the stored value wholesale. Ingredient entries
// carrying an empty ID are treated as new and receive the session's next
// monotonic id during the merge.
type Patch struct {
	RecipientName      *string       `json:"recipientName,omitempty"`
	Anchor             *string       `json:"anchor,omitempty"`
	Occasion           *string       `json:"occasion,omitempty"`
	Tone               *string       `json:"tone,omitempty"`
	AIGeneratedPrompts *[]Prompt     `json:"aiGeneratedPrompts,omitempty"`
	Descriptors        *[]string     `json:"descriptors,omitempty"`
	Ingredients        *[]Ingredient `json:"ingredients,omitempty"`
	FinalMessage       *string       `json:"finalMessage,omitempty"`
}

// IsEmpty reports whether the patch carries no changes.
func (p Patch) IsEmpty() bool {
	return p.RecipientName == nil && p.Anchor == nil && p.Occasion == nil &&
		p.Tone == nil && p.AIGeneratedPrompts == nil && p.Descriptors == nil &&
		p.Ingredients == nil && p.FinalMessage == nil
}
