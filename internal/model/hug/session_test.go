package hug

import "testing"

func TestRecipientFallback(t *testing.T) {
	s := Session{RecipientName: "Sam"}
	if s.Recipient() != "Sam" {
		t.Fatalf("expected Sam, got %s", s.Recipient())
	}
	if (Session{}).Recipient() != DefaultRecipient {
		t.Fatal("expected default recipient for blank name")
	}
}

func TestHasIngredient(t *testing.T) {
	s := Session{Ingredients: []Ingredient{{ID: "1"}, {ID: "2"}}}
	if !s.HasIngredient("2") {
		t.Fatal("expected ingredient 2 to be present")
	}
	if s.HasIngredient("3") {
		t.Fatal("ingredient 3 should be absent")
	}
}

func TestPatchIsEmpty(t *testing.T) {
	if !(Patch{}).IsEmpty() {
		t.Fatal("zero patch should be empty")
	}
	anchor := "seen"
	if (Patch{Anchor: &anchor}).IsEmpty() {
		t.Fatal("patch with a field should not be empty")
	}
}
