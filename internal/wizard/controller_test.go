package wizard_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/soullift/soul-hug/backend/internal/model/hug"
	"github.com/soullift/soul-hug/backend/internal/service/compose"
	"github.com/soullift/soul-hug/backend/internal/service/hugsession"
	"github.com/soullift/soul-hug/backend/internal/wizard"
)

// failingComposer simulates a compose backend that errors instead of
// degrading, so stage-abort behavior can be exercised.
type failingComposer struct{}

func (failingComposer) GeneratePrompts(context.Context, compose.PromptRequest) (compose.PromptResult, error) {
	return compose.PromptResult{}, errors.New("compose down")
}

func (failingComposer) Weave(context.Context, compose.WeaveRequest) (compose.MessageResult, error) {
	return compose.MessageResult{}, errors.New("compose down")
}

func (failingComposer) Stitch(context.Context, compose.StitchRequest) (compose.MessageResult, error) {
	return compose.MessageResult{}, errors.New("compose down")
}

func setupController(t *testing.T) *wizard.Controller {
	t.Helper()
	sessions := hugsession.NewService(0)
	composer, err := compose.NewService(context.Background(), nil)
	if err != nil {
		t.Fatalf("compose.NewService err: %v", err)
	}
	return wizard.NewController(sessions, composer)
}

func startIntention(t *testing.T, ctrl *wizard.Controller) {
	t.Helper()
	if err := ctrl.Start(context.Background(), ""); err != nil {
		t.Fatalf("Start err: %v", err)
	}
	if err := ctrl.SubmitIntention(context.Background(), wizard.AnchorData{
		RecipientName: "Sam",
		Anchor:        "appreciated",
		Tone:          "warm",
	}); err != nil {
		t.Fatalf("SubmitIntention err: %v", err)
	}
}

func TestStartProvisionsSession(t *testing.T) {
	ctrl := setupController(t)

	if err := ctrl.Start(context.Background(), ""); err != nil {
		t.Fatalf("Start err: %v", err)
	}
	if ctrl.Stage() != wizard.StageIntention {
		t.Fatalf("expected intention stage, got %s", ctrl.Stage())
	}
	if ctrl.Session().SessionID == "" {
		t.Fatal("expected a provisioned session id")
	}
}

func TestSubmitIntentionAdvancesAndStoresPrompts(t *testing.T) {
	ctrl := setupController(t)
	startIntention(t, ctrl)

	if ctrl.Stage() != wizard.StageReflection {
		t.Fatalf("expected reflection stage, got %s", ctrl.Stage())
	}
	session := ctrl.Session()
	if session.RecipientName != "Sam" || session.Anchor != "appreciated" {
		t.Fatalf("anchor data not stored: %+v", session)
	}
	if len(session.AIGeneratedPrompts) != compose.PromptCount {
		t.Fatalf("expected %d prompts, got %d", compose.PromptCount, len(session.AIGeneratedPrompts))
	}
	if !ctrl.LastDegraded() {
		t.Fatal("fallback prompts should be marked degraded")
	}
}

func TestSubmitIntentionRequiresAnchor(t *testing.T) {
	ctrl := setupController(t)
	if err := ctrl.Start(context.Background(), ""); err != nil {
		t.Fatalf("Start err: %v", err)
	}

	err := ctrl.SubmitIntention(context.Background(), wizard.AnchorData{RecipientName: "Sam"})
	if !errors.Is(err, wizard.ErrAnchorRequired) {
		t.Fatalf("expected ErrAnchorRequired, got %v", err)
	}
	if ctrl.Stage() != wizard.StageIntention {
		t.Fatalf("failed submission must not advance, got %s", ctrl.Stage())
	}
}

func TestSubmitIntentionAbortsOnComposeFailure(t *testing.T) {
	sessions := hugsession.NewService(0)
	ctrl := wizard.NewController(sessions, failingComposer{})

	if err := ctrl.Start(context.Background(), ""); err != nil {
		t.Fatalf("Start err: %v", err)
	}
	err := ctrl.SubmitIntention(context.Background(), wizard.AnchorData{
		RecipientName: "Sam",
		Anchor:        "appreciated",
	})
	if err == nil {
		t.Fatal("expected error from failing composer")
	}
	if ctrl.Stage() != wizard.StageIntention {
		t.Fatalf("compose failure must leave the stage unchanged, got %s", ctrl.Stage())
	}
}

func TestContinueRequiresIngredient(t *testing.T) {
	ctrl := setupController(t)
	startIntention(t, ctrl)

	if err := ctrl.Continue(); !errors.Is(err, wizard.ErrIngredientsRequired) {
		t.Fatalf("expected ErrIngredientsRequired, got %v", err)
	}

	if _, err := ctrl.AddIngredient(context.Background(), "a prompt", "Sam helped me move"); err != nil {
		t.Fatalf("AddIngredient err: %v", err)
	}
	if err := ctrl.Continue(); err != nil {
		t.Fatalf("Continue err: %v", err)
	}
	if ctrl.Stage() != wizard.StageExpression {
		t.Fatalf("expected expression stage, got %s", ctrl.Stage())
	}
}

func TestAddAndRemoveIngredient(t *testing.T) {
	ctrl := setupController(t)
	startIntention(t, ctrl)

	first, err := ctrl.AddIngredient(context.Background(), "p1", "story one")
	if err != nil {
		t.Fatalf("AddIngredient err: %v", err)
	}
	if first.ID == "" {
		t.Fatal("expected an assigned ingredient id")
	}
	second, err := ctrl.AddIngredient(context.Background(), "p2", "story two")
	if err != nil {
		t.Fatalf("AddIngredient err: %v", err)
	}
	if second.ID == first.ID {
		t.Fatal("ingredient ids must be unique")
	}

	if err := ctrl.RemoveIngredient(context.Background(), first.ID); err != nil {
		t.Fatalf("RemoveIngredient err: %v", err)
	}
	session := ctrl.Session()
	if len(session.Ingredients) != 1 || session.Ingredients[0].ID != second.ID {
		t.Fatalf("unexpected ingredients after removal: %+v", session.Ingredients)
	}

	// A later addition must not reuse the removed id.
	third, err := ctrl.AddIngredient(context.Background(), "p3", "story three")
	if err != nil {
		t.Fatalf("AddIngredient err: %v", err)
	}
	if third.ID == first.ID {
		t.Fatalf("removed id %s was reissued", first.ID)
	}
}

func TestAddIngredientStageGuard(t *testing.T) {
	ctrl := setupController(t)
	if err := ctrl.Start(context.Background(), ""); err != nil {
		t.Fatalf("Start err: %v", err)
	}

	if _, err := ctrl.AddIngredient(context.Background(), "p1", "story"); !errors.Is(err, wizard.ErrWrongStage) {
		t.Fatalf("expected ErrWrongStage, got %v", err)
	}
}

func TestWeaveIncludesIngredientsAndReplacesDraft(t *testing.T) {
	ctrl := setupController(t)
	startIntention(t, ctrl)

	if _, err := ctrl.AddIngredient(context.Background(), "p1", "Sam helped me move"); err != nil {
		t.Fatalf("AddIngredient err: %v", err)
	}
	if err := ctrl.Continue(); err != nil {
		t.Fatalf("Continue err: %v", err)
	}

	// An unsaved local edit is overwritten by a completed weave.
	ctrl.EditMessage("half-typed thought")

	if err := ctrl.Weave(context.Background()); err != nil {
		t.Fatalf("Weave err: %v", err)
	}
	draft := ctrl.Draft()
	if !strings.Contains(draft, "Sam helped me move") {
		t.Fatalf("woven message must contain the ingredient: %q", draft)
	}
	if strings.Contains(draft, "half-typed thought") {
		t.Fatal("weave must replace the dirty draft wholesale")
	}
	if ctrl.Session().FinalMessage != draft {
		t.Fatal("woven message must be stored remotely")
	}
}

func TestStitchUsesDirtyDraft(t *testing.T) {
	ctrl := setupController(t)
	startIntention(t, ctrl)

	if _, err := ctrl.AddIngredient(context.Background(), "p1", "a story"); err != nil {
		t.Fatalf("AddIngredient err: %v", err)
	}
	if err := ctrl.Continue(); err != nil {
		t.Fatalf("Continue err: %v", err)
	}

	ctrl.EditMessage("my own words\n\nin two paragraphs")
	if err := ctrl.Stitch(context.Background()); err != nil {
		t.Fatalf("Stitch err: %v", err)
	}
	if !strings.Contains(ctrl.Draft(), "my own words") {
		t.Fatalf("stitch should refine the dirty draft: %q", ctrl.Draft())
	}
	if ctrl.Session().FinalMessage != ctrl.Draft() {
		t.Fatal("stitched message must be stored remotely")
	}
}

func TestContinueToAudioFlushesDraft(t *testing.T) {
	ctrl := setupController(t)
	startIntention(t, ctrl)

	if _, err := ctrl.AddIngredient(context.Background(), "p1", "a story"); err != nil {
		t.Fatalf("AddIngredient err: %v", err)
	}
	if err := ctrl.Continue(); err != nil {
		t.Fatalf("Continue err: %v", err)
	}

	if err := ctrl.ContinueToAudio(context.Background()); !errors.Is(err, wizard.ErrMessageRequired) {
		t.Fatalf("expected ErrMessageRequired, got %v", err)
	}

	ctrl.EditMessage("Dear Sam, thank you.")
	if err := ctrl.ContinueToAudio(context.Background()); err != nil {
		t.Fatalf("ContinueToAudio err: %v", err)
	}
	if ctrl.Stage() != wizard.StageAudio {
		t.Fatalf("expected audio stage, got %s", ctrl.Stage())
	}
	if ctrl.Session().FinalMessage != "Dear Sam, thank you." {
		t.Fatal("advancing must flush the dirty draft")
	}
}

func TestBackNavigation(t *testing.T) {
	ctrl := setupController(t)
	startIntention(t, ctrl)

	ctrl.Back()
	if ctrl.Stage() != wizard.StageIntention {
		t.Fatalf("expected intention stage, got %s", ctrl.Stage())
	}
	// Back at the first stage stays put.
	ctrl.Back()
	if ctrl.Stage() != wizard.StageIntention {
		t.Fatalf("expected intention stage, got %s", ctrl.Stage())
	}

	// Data survives navigation.
	if ctrl.Session().Anchor != "appreciated" {
		t.Fatal("back navigation must not touch session data")
	}
}

func TestStartOverProvisionsFreshSession(t *testing.T) {
	ctrl := setupController(t)
	startIntention(t, ctrl)
	oldID := ctrl.Session().SessionID

	if err := ctrl.StartOver(context.Background()); err != nil {
		t.Fatalf("StartOver err: %v", err)
	}
	if ctrl.Stage() != wizard.StageIntention {
		t.Fatalf("expected intention stage, got %s", ctrl.Stage())
	}
	fresh := ctrl.Session()
	if fresh.SessionID == oldID {
		t.Fatal("start over must provision a new session")
	}
	if fresh.Anchor != "" || len(fresh.AIGeneratedPrompts) != 0 {
		t.Fatalf("fresh session carries stale data: %+v", fresh)
	}
	if ctrl.Draft() != "" {
		t.Fatal("draft must be cleared")
	}
}

func TestToggleDescriptor(t *testing.T) {
	ctrl := setupController(t)
	startIntention(t, ctrl)

	if err := ctrl.ToggleDescriptor(context.Background(), "kind"); err != nil {
		t.Fatalf("ToggleDescriptor err: %v", err)
	}
	if got := ctrl.Session().Descriptors; len(got) != 1 || got[0] != "kind" {
		t.Fatalf("descriptor not added: %v", got)
	}
	if err := ctrl.ToggleDescriptor(context.Background(), "kind"); err != nil {
		t.Fatalf("ToggleDescriptor err: %v", err)
	}
	if got := ctrl.Session().Descriptors; len(got) != 0 {
		t.Fatalf("descriptor not removed: %v", got)
	}
}

func TestDirtyDraftSurvivesOtherMutations(t *testing.T) {
	ctrl := setupController(t)
	startIntention(t, ctrl)

	ctrl.EditMessage("work in progress")
	if err := ctrl.ToggleDescriptor(context.Background(), "kind"); err != nil {
		t.Fatalf("ToggleDescriptor err: %v", err)
	}

	if ctrl.Draft() != "work in progress" {
		t.Fatalf("unrelated mutation clobbered the draft: %q", ctrl.Draft())
	}
	if err := ctrl.FlushMessage(context.Background()); err != nil {
		t.Fatalf("FlushMessage err: %v", err)
	}
	if ctrl.Session().FinalMessage != "work in progress" {
		t.Fatal("flush must store the draft remotely")
	}
}

func TestStartResumesExistingSession(t *testing.T) {
	sessions := hugsession.NewService(0)
	composer, err := compose.NewService(context.Background(), nil)
	if err != nil {
		t.Fatalf("compose.NewService err: %v", err)
	}

	seed := hug.Session{SessionID: "resume-me", RecipientName: "Sam", FinalMessage: "saved draft"}
	if _, err := sessions.Create(context.Background(), seed); err != nil {
		t.Fatalf("seed err: %v", err)
	}

	ctrl := wizard.NewController(sessions, composer)
	if err := ctrl.Start(context.Background(), "resume-me"); err != nil {
		t.Fatalf("Start err: %v", err)
	}
	if ctrl.Session().RecipientName != "Sam" {
		t.Fatalf("existing session not loaded: %+v", ctrl.Session())
	}
	if ctrl.Draft() != "saved draft" {
		t.Fatalf("draft not seeded from the stored message: %q", ctrl.Draft())
	}
}
