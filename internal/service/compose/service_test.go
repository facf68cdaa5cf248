package compose

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	einocompose "github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/soullift/soul-hug/backend/internal/model/hug"
)

type fakeRunner struct {
	content string
	err     error
}

func (f fakeRunner) Invoke(_ context.Context, _ map[string]any, _ ...einocompose.Option) (*schema.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &schema.Message{Content: f.content}, nil
}

func TestGeneratePromptsRequiresAnchor(t *testing.T) {
	svc := &Service{}

	_, err := svc.GeneratePrompts(context.Background(), PromptRequest{RecipientName: "Sam"})
	if !errors.Is(err, ErrAnchorRequired) {
		t.Fatalf("expected ErrAnchorRequired, got %v", err)
	}
}

func TestGeneratePromptsWithoutModel(t *testing.T) {
	svc := &Service{}

	result, err := svc.GeneratePrompts(context.Background(), PromptRequest{Anchor: "appreciated"})
	if err != nil {
		t.Fatalf("GeneratePrompts err: %v", err)
	}
	if !result.Degraded {
		t.Fatal("expected degraded result without a model")
	}
	assertPromptSet(t, result.Prompts)
}

func TestGeneratePromptsUpstreamFailure(t *testing.T) {
	svc := &Service{prompts: fakeRunner{err: errors.New("upstream down")}}

	result, err := svc.GeneratePrompts(context.Background(), PromptRequest{Anchor: "appreciated"})
	if err != nil {
		t.Fatalf("GeneratePrompts err: %v", err)
	}
	if !result.Degraded {
		t.Fatal("expected degraded result on upstream failure")
	}
	assertPromptSet(t, result.Prompts)
}

func TestGeneratePromptsAcceptsValidPayload(t *testing.T) {
	var entries []string
	for i := 1; i <= PromptCount; i++ {
		entries = append(entries, fmt.Sprintf(`{"id":"%d","text":"Moment number %d they truly shined"}`, i, i))
	}
	payload := fmt.Sprintf(`Here you go: {"prompts":[%s]}`, strings.Join(entries, ","))
	svc := &Service{prompts: fakeRunner{content: payload}}

	result, err := svc.GeneratePrompts(context.Background(), PromptRequest{Anchor: "appreciated"})
	if err != nil {
		t.Fatalf("GeneratePrompts err: %v", err)
	}
	if result.Degraded {
		t.Fatalf("unexpected degraded result: %s", result.Reason)
	}
	assertPromptSet(t, result.Prompts)
	if result.Prompts[0].Text != "Moment number 1 they truly shined" {
		t.Fatalf("model prompt was not kept: %q", result.Prompts[0].Text)
	}
}

func TestGeneratePromptsReplacesInvalidEntries(t *testing.T) {
	// Entry 1 is too short, entry 2 carries a blocked term, entry 3 is fine.
	payload := `{"prompts":[
		{"id":"1","text":"Too short"},
		{"id":"2","text":"The scent of their morning coffee"},
		{"id":"3","text":"When they chose you over everything"}
	]}`
	svc := &Service{prompts: fakeRunner{content: payload}}

	result, err := svc.GeneratePrompts(context.Background(), PromptRequest{Anchor: "appreciated"})
	if err != nil {
		t.Fatalf("GeneratePrompts err: %v", err)
	}
	if !result.Degraded {
		t.Fatal("expected degraded result when entries are replaced")
	}
	assertPromptSet(t, result.Prompts)

	if result.Prompts[0].Text != fallbackPromptTexts[0] {
		t.Fatalf("short prompt not replaced: %q", result.Prompts[0].Text)
	}
	if result.Prompts[1].Text != fallbackPromptTexts[1] {
		t.Fatalf("blocked prompt not replaced: %q", result.Prompts[1].Text)
	}
	if result.Prompts[2].Text != "When they chose you over everything" {
		t.Fatalf("valid prompt was replaced: %q", result.Prompts[2].Text)
	}
}

func TestGeneratePromptsStripsPunctuation(t *testing.T) {
	payload := `{"prompts":[{"id":"1","text":"When they couldn't stop laughing, together!"}]}`
	svc := &Service{prompts: fakeRunner{content: payload}}

	result, err := svc.GeneratePrompts(context.Background(), PromptRequest{Anchor: "appreciated"})
	if err != nil {
		t.Fatalf("GeneratePrompts err: %v", err)
	}
	if result.Prompts[0].Text != "When they couldn't stop laughing together" {
		t.Fatalf("unexpected sanitized text: %q", result.Prompts[0].Text)
	}
}

func TestWeaveValidation(t *testing.T) {
	svc := &Service{}
	ctx := context.Background()

	if _, err := svc.Weave(ctx, WeaveRequest{Ingredients: []hug.Ingredient{{Content: "x"}}}); !errors.Is(err, ErrAnchorRequired) {
		t.Fatalf("expected ErrAnchorRequired, got %v", err)
	}
	if _, err := svc.Weave(ctx, WeaveRequest{Anchor: "appreciated"}); !errors.Is(err, ErrNoIngredients) {
		t.Fatalf("expected ErrNoIngredients, got %v", err)
	}
}

func TestWeaveFallbackContainsEveryIngredient(t *testing.T) {
	svc := &Service{}

	req := WeaveRequest{
		RecipientName: "Sam",
		Anchor:        "appreciated",
		Ingredients: []hug.Ingredient{
			{ID: "1", Prompt: "p1", Content: "Sam helped me move"},
			{ID: "2", Prompt: "p2", Content: "Sam always listens"},
		},
	}

	result, err := svc.Weave(context.Background(), req)
	if err != nil {
		t.Fatalf("Weave err: %v", err)
	}
	if !result.Degraded {
		t.Fatal("expected degraded result without a model")
	}
	if !strings.HasPrefix(result.Message, "Dear Sam,") {
		t.Fatalf("expected greeting, got %q", result.Message)
	}
	first := strings.Index(result.Message, "Sam helped me move")
	second := strings.Index(result.Message, "Sam always listens")
	if first == -1 || second == -1 {
		t.Fatalf("fallback dropped an ingredient: %q", result.Message)
	}
	if first > second {
		t.Fatal("ingredients out of input order")
	}
	if !strings.Contains(result.Message, "helps you feel appreciated") {
		t.Fatalf("anchor missing from fallback: %q", result.Message)
	}
}

func TestWeaveDefaultRecipient(t *testing.T) {
	svc := &Service{}

	result, err := svc.Weave(context.Background(), WeaveRequest{
		Anchor:      "seen",
		Ingredients: []hug.Ingredient{{Content: "a story"}},
	})
	if err != nil {
		t.Fatalf("Weave err: %v", err)
	}
	if !strings.HasPrefix(result.Message, "Dear "+hug.DefaultRecipient+",") {
		t.Fatalf("expected default recipient, got %q", result.Message)
	}
}

func TestWeaveUsesModelOutput(t *testing.T) {
	svc := &Service{weave: fakeRunner{content: "  A woven letter.  "}}

	result, err := svc.Weave(context.Background(), WeaveRequest{
		Anchor:      "appreciated",
		Ingredients: []hug.Ingredient{{Content: "a story"}},
	})
	if err != nil {
		t.Fatalf("Weave err: %v", err)
	}
	if result.Degraded {
		t.Fatal("unexpected degraded result")
	}
	if result.Message != "A woven letter." {
		t.Fatalf("unexpected message: %q", result.Message)
	}
}

func TestStitchValidation(t *testing.T) {
	svc := &Service{}
	ctx := context.Background()

	if _, err := svc.Stitch(ctx, StitchRequest{Anchor: "seen"}); !errors.Is(err, ErrMessageRequired) {
		t.Fatalf("expected ErrMessageRequired, got %v", err)
	}
	if _, err := svc.Stitch(ctx, StitchRequest{CurrentMessage: "draft"}); !errors.Is(err, ErrAnchorRequired) {
		t.Fatalf("expected ErrAnchorRequired, got %v", err)
	}
}

func TestStitchFallbackReflows(t *testing.T) {
	svc := &Service{}

	result, err := svc.Stitch(context.Background(), StitchRequest{
		CurrentMessage: "  first line \n\n\n second line \n",
		Anchor:         "seen",
	})
	if err != nil {
		t.Fatalf("Stitch err: %v", err)
	}
	if !result.Degraded {
		t.Fatal("expected degraded result without a model")
	}
	if result.Message != "first line\n\nsecond line" {
		t.Fatalf("unexpected reflow: %q", result.Message)
	}
}

func TestStitchUpstreamFailureKeepsContent(t *testing.T) {
	svc := &Service{stitch: fakeRunner{err: errors.New("timeout")}}

	result, err := svc.Stitch(context.Background(), StitchRequest{
		CurrentMessage: "my draft",
		Anchor:         "seen",
	})
	if err != nil {
		t.Fatalf("Stitch err: %v", err)
	}
	if !result.Degraded {
		t.Fatal("expected degraded result")
	}
	if result.Message != "my draft" {
		t.Fatalf("fallback altered content: %q", result.Message)
	}
}

// assertPromptSet checks the invariants every result honors regardless of
// whether it came from the model or the fallback set.
func assertPromptSet(t *testing.T, prompts []hug.Prompt) {
	t.Helper()
	if len(prompts) != PromptCount {
		t.Fatalf("expected %d prompts, got %d", PromptCount, len(prompts))
	}
	for i, p := range prompts {
		words := len(strings.Fields(p.Text))
		if words < 5 || words > 6 {
			t.Fatalf("prompt %d has %d words: %q", i, words, p.Text)
		}
		lower := strings.ToLower(p.Text)
		for _, term := range blockedTerms {
			if strings.Contains(lower, term) {
				t.Fatalf("prompt %d contains blocked term %q: %q", i, term, p.Text)
			}
		}
		if p.ID == "" {
			t.Fatalf("prompt %d has no id", i)
		}
	}
}
