package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/soullift/soul-hug/backend/internal/model/hug"
	"github.com/soullift/soul-hug/backend/internal/service/compose"
)

var (
	ErrAnchorRequired      = errors.New("anchor is required before continuing")
	ErrIngredientsRequired = errors.New("at least one ingredient is required before continuing")
	ErrMessageRequired     = errors.New("a message is required before continuing")
	ErrWrongStage          = errors.New("operation not available in this stage")
)

// SessionAPI is the controller's port to the session mutation API. The
// remote session is the source of truth; every mutation response replaces
// the local view.
type SessionAPI interface {
	Create(ctx context.Context, seed hug.Session) (hug.Session, error)
	Get(ctx context.Context, id string) (hug.Session, error)
	Patch(ctx context.Context, id string, patch hug.Patch) (hug.Session, error)
}

// ComposeAPI is the controller's port to the prompt and compose services.
type ComposeAPI interface {
	GeneratePrompts(ctx context.Context, req compose.PromptRequest) (compose.PromptResult, error)
	Weave(ctx context.Context, req compose.WeaveRequest) (compose.MessageResult, error)
	Stitch(ctx context.Context, req compose.StitchRequest) (compose.MessageResult, error)
}

// AnchorData is the intention stage's submission payload.
type AnchorData struct {
	RecipientName string
	Anchor        string
	Occasion      string
	Tone          string
}

// Controller drives the four-stage authoring wizard. It holds the current
// session view and a local draft of the final message; the draft is
// authoritative while dirty, the remote value everywhere else.
type Controller struct {
	mu       sync.Mutex
	sessions SessionAPI
	composer ComposeAPI

	stage        Stage
	session      hug.Session
	draft        string
	draftDirty   bool
	lastDegraded bool
}

// NewController wires the controller to its two remote ports.
func NewController(sessions SessionAPI, composer ComposeAPI) *Controller {
	return &Controller{
		sessions: sessions,
		composer: composer,
		stage:    StageIntention,
	}
}

// Start loads the session with the given id, creating it when absent. A
// blank id provisions a fresh session.
func (c *Controller) Start(ctx context.Context, sessionID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var (
		session hug.Session
		err     error
	)
	if sessionID != "" {
		session, err = c.sessions.Get(ctx, sessionID)
	}
	if sessionID == "" || err != nil {
		session, err = c.sessions.Create(ctx, hug.Session{SessionID: sessionID})
		if err != nil {
			return fmt.Errorf("failed to start session: %w", err)
		}
	}

	c.stage = StageIntention
	c.reconcile(session)
	return nil
}

// Stage returns the current wizard stage.
func (c *Controller) Stage() Stage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stage
}

// Session returns the current session view.
func (c *Controller) Session() hug.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// Draft returns the local final-message buffer.
func (c *Controller) Draft() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentMessage()
}

// LastDegraded reports whether the most recent compose call answered from
// its deterministic fallback.
func (c *Controller) LastDegraded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastDegraded
}

// SubmitIntention stores the anchor data and regenerates the prompt set,
// advancing to reflection only when both remote calls succeed. On any
// failure the stage is left unchanged and the error surfaced.
func (c *Controller) SubmitIntention(ctx context.Context, data AnchorData) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if strings.TrimSpace(data.Anchor) == "" {
		return ErrAnchorRequired
	}

	updated, err := c.sessions.Patch(ctx, c.session.SessionID, hug.Patch{
		RecipientName: &data.RecipientName,
		Anchor:        &data.Anchor,
		Occasion:      &data.Occasion,
		Tone:          &data.Tone,
	})
	if err != nil {
		return fmt.Errorf("failed to store anchor: %w", err)
	}

	result, err := c.composer.GeneratePrompts(ctx, compose.PromptRequest{
		RecipientName: data.RecipientName,
		Anchor:        data.Anchor,
		Occasion:      data.Occasion,
		Tone:          data.Tone,
	})
	if err != nil {
		return fmt.Errorf("failed to generate prompts: %w", err)
	}

	// Prompts replace the previous set wholesale on every (re)submission.
	updated, err = c.sessions.Patch(ctx, c.session.SessionID, hug.Patch{
		AIGeneratedPrompts: &result.Prompts,
	})
	if err != nil {
		return fmt.Errorf("failed to store prompts: %w", err)
	}

	c.lastDegraded = result.Degraded
	c.reconcile(updated)
	c.stage = StageReflection
	return nil
}

// Continue advances reflection to expression; a pure local guard.
func (c *Controller) Continue() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stage != StageReflection {
		return ErrWrongStage
	}
	if len(c.session.Ingredients) == 0 {
		return ErrIngredientsRequired
	}
	c.stage = StageExpression
	return nil
}

// ContinueToAudio flushes any in-flight edit and advances to the audio
// stage, requiring a non-empty final message.
func (c *Controller) ContinueToAudio(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stage != StageExpression {
		return ErrWrongStage
	}
	if err := c.flushDraft(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(c.session.FinalMessage) == "" {
		return ErrMessageRequired
	}
	c.stage = StageAudio
	return nil
}

// Back steps to the previous stage without touching any data.
func (c *Controller) Back() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stage = c.stage.Previous()
}

// StartOver discards all local and remote progress and provisions a fresh
// session. Destructive; the caller-facing layer must confirm first.
func (c *Controller) StartOver(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	session, err := c.sessions.Create(ctx, hug.Session{})
	if err != nil {
		return fmt.Errorf("failed to start over: %w", err)
	}

	c.stage = StageIntention
	c.draft = ""
	c.draftDirty = false
	c.lastDegraded = false
	c.session = session
	return nil
}

// AddIngredient appends a story fragment through the mutation API and
// returns the stored entry with its assigned id. Available during
// reflection and expression.
func (c *Controller) AddIngredient(ctx context.Context, prompt, content string) (hug.Ingredient, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stage != StageReflection && c.stage != StageExpression {
		return hug.Ingredient{}, ErrWrongStage
	}
	if strings.TrimSpace(content) == "" {
		return hug.Ingredient{}, ErrMessageRequired
	}

	known := make(map[string]bool, len(c.session.Ingredients))
	for _, ing := range c.session.Ingredients {
		known[ing.ID] = true
	}

	next := append(append([]hug.Ingredient(nil), c.session.Ingredients...),
		hug.Ingredient{Prompt: prompt, Content: strings.TrimSpace(content)})

	updated, err := c.sessions.Patch(ctx, c.session.SessionID, hug.Patch{Ingredients: &next})
	if err != nil {
		return hug.Ingredient{}, fmt.Errorf("failed to add ingredient: %w", err)
	}
	c.reconcile(updated)

	for _, ing := range updated.Ingredients {
		if !known[ing.ID] {
			return ing, nil
		}
	}
	return hug.Ingredient{}, fmt.Errorf("ingredient missing from updated session")
}

// RemoveIngredient deletes an ingredient by id; other entries keep their
// ids and order.
func (c *Controller) RemoveIngredient(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stage != StageReflection && c.stage != StageExpression {
		return ErrWrongStage
	}

	next := make([]hug.Ingredient, 0, len(c.session.Ingredients))
	for _, ing := range c.session.Ingredients {
		if ing.ID != id {
			next = append(next, ing)
		}
	}

	updated, err := c.sessions.Patch(ctx, c.session.SessionID, hug.Patch{Ingredients: &next})
	if err != nil {
		return fmt.Errorf("failed to remove ingredient: %w", err)
	}
	c.reconcile(updated)
	return nil
}

// ToggleDescriptor flips membership of a descriptor tag.
func (c *Controller) ToggleDescriptor(ctx context.Context, descriptor string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := make([]string, 0, len(c.session.Descriptors)+1)
	found := false
	for _, d := range c.session.Descriptors {
		if d == descriptor {
			found = true
			continue
		}
		next = append(next, d)
	}
	if !found {
		next = append(next, descriptor)
	}

	updated, err := c.sessions.Patch(ctx, c.session.SessionID, hug.Patch{Descriptors: &next})
	if err != nil {
		return fmt.Errorf("failed to update descriptors: %w", err)
	}
	c.reconcile(updated)
	return nil
}

// EditMessage updates the local draft buffer. The draft stays authoritative
// until flushed or replaced by a weave/stitch result.
func (c *Controller) EditMessage(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = text
	c.draftDirty = true
}

// FlushMessage writes a dirty draft through the mutation API.
func (c *Controller) FlushMessage(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.flushDraft(ctx)
}

// Weave asks the compose service for a first draft from the collected
// ingredients, replacing finalMessage wholesale on success. On failure the
// message is left untouched and the error surfaced.
func (c *Controller) Weave(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.session.Ingredients) == 0 {
		return ErrIngredientsRequired
	}

	result, err := c.composer.Weave(ctx, compose.WeaveRequest{
		RecipientName: c.session.RecipientName,
		Anchor:        c.session.Anchor,
		Ingredients:   c.session.Ingredients,
		Occasion:      c.session.Occasion,
		Tone:          c.session.Tone,
	})
	if err != nil {
		return fmt.Errorf("weave failed: %w", err)
	}

	return c.applyComposedMessage(ctx, result)
}

// Stitch refines the current message (draft if dirty, stored otherwise).
func (c *Controller) Stitch(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	current := c.currentMessage()
	if strings.TrimSpace(current) == "" {
		return ErrMessageRequired
	}

	result, err := c.composer.Stitch(ctx, compose.StitchRequest{
		CurrentMessage: current,
		RecipientName:  c.session.RecipientName,
		Anchor:         c.session.Anchor,
	})
	if err != nil {
		return fmt.Errorf("stitch failed: %w", err)
	}

	return c.applyComposedMessage(ctx, result)
}

// applyComposedMessage stores a weave/stitch result via an explicit update;
// compose output is never silently merged.
func (c *Controller) applyComposedMessage(ctx context.Context, result compose.MessageResult) error {
	updated, err := c.sessions.Patch(ctx, c.session.SessionID, hug.Patch{FinalMessage: &result.Message})
	if err != nil {
		return fmt.Errorf("failed to store message: %w", err)
	}

	c.lastDegraded = result.Degraded
	c.session = updated
	// A completed compose is the one external event allowed to overwrite
	// a dirty draft.
	c.draft = updated.FinalMessage
	c.draftDirty = false
	return nil
}

func (c *Controller) flushDraft(ctx context.Context) error {
	if !c.draftDirty {
		return nil
	}
	updated, err := c.sessions.Patch(ctx, c.session.SessionID, hug.Patch{FinalMessage: &c.draft})
	if err != nil {
		return fmt.Errorf("failed to store message: %w", err)
	}
	c.draftDirty = false
	c.reconcile(updated)
	return nil
}

func (c *Controller) currentMessage() string {
	if c.draftDirty {
		return c.draft
	}
	return c.session.FinalMessage
}

// reconcile replaces the local session view with the mutation response.
// The dirty draft survives; everything else is remote truth.
func (c *Controller) reconcile(updated hug.Session) {
	c.session = updated
	if !c.draftDirty {
		c.draft = updated.FinalMessage
	}
}
