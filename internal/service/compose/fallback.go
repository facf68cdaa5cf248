package compose

import (
	"fmt"
	"strings"

	"github.com/soullift/soul-hug/backend/internal/model/hug"
)

// PromptCount is the fixed size of every generated prompt set.
const PromptCount = 9

// blockedTerms never appear in a prompt shown to the writer; upstream
// output containing one is replaced with the fallback at the same index.
var blockedTerms = []string{"smell", "scent", "odor", "fragrance", "aroma"}

// fallbackPromptTexts is the deterministic prompt set used when the
// upstream model is unavailable or returns a malformed prompt. Every entry
// honors the same 5-6 word constraint enforced on model output.
var fallbackPromptTexts = [PromptCount]string{
	"When they showed incredible strength",
	"That time they proved their worth",
	"How they make others feel better",
	"Their gift they don't recognize yet",
	"When they chose kindness over ease",
	"The way they brighten everyone's day",
	"What people say in their absence",
	"That time you both couldn't stop",
	"What you hope for their future",
}

func fallbackPrompts() []hug.Prompt {
	prompts := make([]hug.Prompt, PromptCount)
	for i, text := range fallbackPromptTexts {
		prompts[i] = hug.Prompt{ID: fmt.Sprintf("%d", i+1), Text: text}
	}
	return prompts
}

// sanitizePromptText strips punctuation and emoji, leaving words and spaces.
func sanitizePromptText(text string) string {
	var b strings.Builder
	for _, r := range text {
		switch {
		case r == ' ', r == '_':
			b.WriteRune(r)
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '\'':
			// Keep contractions: "doesn't", "couldn't".
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// validPromptText reports whether a sanitized prompt honors the 5-6 word
// constraint and is free of blocked terms.
func validPromptText(text string) bool {
	words := strings.Fields(text)
	if len(words) < 5 || len(words) > 6 {
		return false
	}
	lower := strings.ToLower(text)
	for _, term := range blockedTerms {
		if strings.Contains(lower, term) {
			return false
		}
	}
	return true
}

// fallbackWeave composes the degraded weave message: every ingredient's
// content in input order, wrapped in a fixed template.
func fallbackWeave(req WeaveRequest) string {
	contents := make([]string, 0, len(req.Ingredients))
	for _, ing := range req.Ingredients {
		contents = append(contents, ing.Content)
	}

	return fmt.Sprintf(`Dear %s,

I wanted to take a moment to share something with you.

%s

These thoughts have been on my mind, and I felt it was important to express them. I hope this message conveys how much you mean to me and helps you feel %s.

With love and appreciation.`, req.recipient(), strings.Join(contents, "\n\n"), req.Anchor)
}

// fallbackStitch lightly reformats the original message: trimmed non-empty
// lines rejoined as paragraphs.
func fallbackStitch(current string) string {
	lines := strings.Split(current, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			kept = append(kept, trimmed)
		}
	}
	return strings.Join(kept, "\n\n")
}
