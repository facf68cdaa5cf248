package compose

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	einocompose "github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/soullift/soul-hug/backend/internal/model/hug"
)

var (
	ErrAnchorRequired  = errors.New("anchor is required")
	ErrNoIngredients   = errors.New("at least one ingredient is required")
	ErrMessageRequired = errors.New("current message is required")
)

// PromptRequest asks for a personalized prompt set.
type PromptRequest struct {
	RecipientName string `json:"recipientName"`
	Anchor        string `json:"anchor"`
	Occasion      string `json:"occasion,omitempty"`
	Tone          string `json:"tone,omitempty"`
}

// WeaveRequest asks for a first draft woven from the collected ingredients.
type WeaveRequest struct {
	RecipientName string           `json:"recipientName"`
	Anchor        string           `json:"anchor"`
	Ingredients   []hug.Ingredient `json:"ingredients"`
	Occasion      string           `json:"occasion,omitempty"`
	Tone          string           `json:"tone,omitempty"`
}

func (r WeaveRequest) recipient() string {
	if strings.TrimSpace(r.RecipientName) == "" {
		return hug.DefaultRecipient
	}
	return r.RecipientName
}

// StitchRequest asks for a refinement of an existing draft.
type StitchRequest struct {
	CurrentMessage string `json:"currentMessage"`
	RecipientName  string `json:"recipientName"`
	Anchor         string `json:"anchor"`
	Improvements   string `json:"improvements,omitempty"`
}

// PromptResult carries the generated prompt set. Degraded marks results
// that came from the deterministic fallback rather than the model.
type PromptResult struct {
	Prompts  []hug.Prompt
	Degraded bool
	Reason   string
}

// MessageResult carries a woven or stitched message, with the same
// degradation marker as PromptResult.
type MessageResult struct {
	Message  string
	Degraded bool
	Reason   string
}

// runner matches the eino runnable the chains compile to; tests substitute
// their own implementation.
type runner interface {
	Invoke(ctx context.Context, input map[string]any, opts ...einocompose.Option) (*schema.Message, error)
}

// Service performs the three AI transforms of the authoring flow. A nil
// chat model yields a service that always answers from the deterministic
// fallbacks, so the wizard keeps moving during an upstream outage.
type Service struct {
	prompts runner
	weave   runner
	stitch  runner
}

// NewService compiles one chain per operation. chatModel may be nil.
func NewService(ctx context.Context, chatModel model.ChatModel) (*Service, error) {
	svc := &Service{}
	if chatModel == nil {
		return svc, nil
	}

	var err error
	if svc.prompts, err = compileChain(ctx, chatModel, promptsSystemPrompt, promptsUserPrompt); err != nil {
		return nil, fmt.Errorf("failed to compile prompts chain: %w", err)
	}
	if svc.weave, err = compileChain(ctx, chatModel, weaveSystemPrompt, weaveUserPrompt); err != nil {
		return nil, fmt.Errorf("failed to compile weave chain: %w", err)
	}
	if svc.stitch, err = compileChain(ctx, chatModel, stitchSystemPrompt, stitchUserPrompt); err != nil {
		return nil, fmt.Errorf("failed to compile stitch chain: %w", err)
	}
	return svc, nil
}

func compileChain(ctx context.Context, chatModel model.ChatModel, system, user string) (runner, error) {
	template := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(system),
		schema.UserMessage(user),
	)

	chain := einocompose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(template)
	chain.AppendChatModel(chatModel)
	return chain.Compile(ctx)
}

// Enabled reports whether a chat model backs the service.
func (s *Service) Enabled() bool {
	return s != nil && s.prompts != nil
}

// GeneratePrompts returns exactly PromptCount prompts of 5-6 words each,
// free of blocked terms. Malformed upstream prompts are corrected per index;
// a failed upstream call yields the full fallback set.
func (s *Service) GeneratePrompts(ctx context.Context, req PromptRequest) (PromptResult, error) {
	if strings.TrimSpace(req.Anchor) == "" {
		return PromptResult{}, ErrAnchorRequired
	}

	recipient := req.RecipientName
	if strings.TrimSpace(recipient) == "" {
		recipient = hug.DefaultRecipient
	}

	if s.prompts == nil {
		return PromptResult{Prompts: fallbackPrompts(), Degraded: true, Reason: "model unavailable"}, nil
	}

	input := map[string]any{
		"recipient": recipient,
		"anchor":    req.Anchor,
		"context":   promptContextClause(req.Occasion, req.Tone),
	}

	msg, err := s.prompts.Invoke(ctx, input)
	if err != nil || msg == nil || strings.TrimSpace(msg.Content) == "" {
		log.Printf("[compose] prompt generation failed, using fallback set: %v", err)
		return PromptResult{Prompts: fallbackPrompts(), Degraded: true, Reason: "upstream failure"}, nil
	}

	raw, err := parsePromptPayload(msg.Content)
	if err != nil {
		log.Printf("[compose] prompt payload unparseable, using fallback set: %v", err)
		return PromptResult{Prompts: fallbackPrompts(), Degraded: true, Reason: "malformed payload"}, nil
	}

	prompts := make([]hug.Prompt, PromptCount)
	replaced := 0
	for i := 0; i < PromptCount; i++ {
		id := fmt.Sprintf("%d", i+1)
		text := ""
		if i < len(raw) {
			if raw[i].ID != "" {
				id = raw[i].ID
			}
			text = sanitizePromptText(raw[i].Text)
		}
		if !validPromptText(text) {
			text = fallbackPromptTexts[i]
			replaced++
		}
		prompts[i] = hug.Prompt{ID: id, Text: text}
	}

	result := PromptResult{Prompts: prompts}
	if replaced > 0 {
		result.Degraded = true
		result.Reason = fmt.Sprintf("%d prompts replaced", replaced)
	}
	return result, nil
}

// Weave composes the ingredients into a first draft. The model is
// instructed to incorporate every ingredient; when it is unreachable the
// deterministic template keeps the writer moving.
func (s *Service) Weave(ctx context.Context, req WeaveRequest) (MessageResult, error) {
	if strings.TrimSpace(req.Anchor) == "" {
		return MessageResult{}, ErrAnchorRequired
	}
	if len(req.Ingredients) == 0 {
		return MessageResult{}, ErrNoIngredients
	}

	if s.weave == nil {
		return MessageResult{Message: fallbackWeave(req), Degraded: true, Reason: "model unavailable"}, nil
	}

	input := map[string]any{
		"recipient":   req.recipient(),
		"anchor":      req.Anchor,
		"count":       len(req.Ingredients),
		"ingredients": formatIngredients(req.Ingredients),
		"tone":        toneClause(req.Tone),
		"occasion":    occasionClause(req.Occasion),
	}

	msg, err := s.weave.Invoke(ctx, input)
	if err != nil || msg == nil || strings.TrimSpace(msg.Content) == "" {
		log.Printf("[compose] weave failed, using fallback template: %v", err)
		return MessageResult{Message: fallbackWeave(req), Degraded: true, Reason: "upstream failure"}, nil
	}

	return MessageResult{Message: strings.TrimSpace(msg.Content)}, nil
}

// Stitch refines an existing draft while preserving its voice. An upstream
// failure returns a light reformatting of the input instead of an error.
func (s *Service) Stitch(ctx context.Context, req StitchRequest) (MessageResult, error) {
	if strings.TrimSpace(req.CurrentMessage) == "" {
		return MessageResult{}, ErrMessageRequired
	}
	if strings.TrimSpace(req.Anchor) == "" {
		return MessageResult{}, ErrAnchorRequired
	}

	if s.stitch == nil {
		return MessageResult{Message: fallbackStitch(req.CurrentMessage), Degraded: true, Reason: "model unavailable"}, nil
	}

	recipient := req.RecipientName
	if strings.TrimSpace(recipient) == "" {
		recipient = hug.DefaultRecipient
	}
	focus := req.Improvements
	if strings.TrimSpace(focus) == "" {
		focus = "overall flow and impact"
	}

	input := map[string]any{
		"recipient": recipient,
		"anchor":    req.Anchor,
		"message":   req.CurrentMessage,
		"focus":     focus,
	}

	msg, err := s.stitch.Invoke(ctx, input)
	if err != nil || msg == nil || strings.TrimSpace(msg.Content) == "" {
		log.Printf("[compose] stitch failed, reformatting original: %v", err)
		return MessageResult{Message: fallbackStitch(req.CurrentMessage), Degraded: true, Reason: "upstream failure"}, nil
	}

	return MessageResult{Message: strings.TrimSpace(msg.Content)}, nil
}

type promptPayloadEntry struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Icon string `json:"icon"`
}

// parsePromptPayload extracts the JSON object from the model output, which
// may be wrapped in prose or code fences.
func parsePromptPayload(content string) ([]promptPayloadEntry, error) {
	trimmed := strings.TrimSpace(content)
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, fmt.Errorf("missing json object")
	}

	var payload struct {
		Prompts []promptPayloadEntry `json:"prompts"`
	}
	if err := json.Unmarshal([]byte(trimmed[start:end+1]), &payload); err != nil {
		return nil, err
	}
	return payload.Prompts, nil
}

func formatIngredients(ingredients []hug.Ingredient) string {
	var b strings.Builder
	for i, ing := range ingredients {
		fmt.Fprintf(&b, "INGREDIENT %d:\nPrompt: %q\nStory: %s\n---\n", i+1, ing.Prompt, ing.Content)
	}
	return b.String()
}

func promptContextClause(occasion, tone string) string {
	var parts []string
	if strings.TrimSpace(occasion) != "" {
		parts = append(parts, "for "+occasion)
	}
	if strings.TrimSpace(tone) != "" {
		parts = append(parts, "with a "+tone+" tone")
	}
	if len(parts) == 0 {
		return "for a heartfelt personal message"
	}
	return strings.Join(parts, " ")
}

func toneClause(tone string) string {
	if strings.TrimSpace(tone) == "" {
		return "a warm, sincere, personal tone"
	}
	return "a " + tone + " tone"
}

func occasionClause(occasion string) string {
	if strings.TrimSpace(occasion) == "" {
		return "a personal message"
	}
	return "a message for " + occasion
}
