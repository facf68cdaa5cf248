package audio

import (
	"bytes"
	"errors"
	"testing"
)

func TestCoverSelectionIsExclusive(t *testing.T) {
	var picker CoverPicker

	if picker.Chosen() {
		t.Fatal("fresh picker should have no choice")
	}
	if _, err := picker.Cover(); !errors.Is(err, ErrNoCoverChosen) {
		t.Fatalf("expected ErrNoCoverChosen, got %v", err)
	}

	if err := picker.SelectCatalog("sunset-heart"); err != nil {
		t.Fatalf("SelectCatalog err: %v", err)
	}
	cover, err := picker.Cover()
	if err != nil {
		t.Fatalf("Cover err: %v", err)
	}
	if cover.CatalogID != "sunset-heart" || cover.URL == "" {
		t.Fatalf("unexpected catalog cover: %+v", cover)
	}

	// Uploading replaces the catalog pick.
	if err := picker.Upload("me.jpg", []byte{1, 2, 3}); err != nil {
		t.Fatalf("Upload err: %v", err)
	}
	cover, err = picker.Cover()
	if err != nil {
		t.Fatalf("Cover err: %v", err)
	}
	if cover.CatalogID != "" || !bytes.Equal(cover.Uploaded, []byte{1, 2, 3}) || cover.Filename != "me.jpg" {
		t.Fatalf("expected uploaded cover, got %+v", cover)
	}

	// And selecting a catalog cover drops the upload again.
	if err := picker.SelectCatalog("golden-light"); err != nil {
		t.Fatalf("SelectCatalog err: %v", err)
	}
	cover, err = picker.Cover()
	if err != nil {
		t.Fatalf("Cover err: %v", err)
	}
	if cover.CatalogID != "golden-light" || cover.Uploaded != nil {
		t.Fatalf("upload should be cleared, got %+v", cover)
	}
}

func TestSelectCatalogUnknownID(t *testing.T) {
	var picker CoverPicker
	if err := picker.SelectCatalog("no-such-cover"); !errors.Is(err, ErrCoverNotFound) {
		t.Fatalf("expected ErrCoverNotFound, got %v", err)
	}
}

func TestUploadLimits(t *testing.T) {
	var picker CoverPicker

	if err := picker.Upload("empty.jpg", nil); !errors.Is(err, ErrEmptyCoverFile) {
		t.Fatalf("expected ErrEmptyCoverFile, got %v", err)
	}
	if err := picker.Upload("big.jpg", make([]byte, MaxCoverUploadBytes+1)); !errors.Is(err, ErrCoverTooLarge) {
		t.Fatalf("expected ErrCoverTooLarge, got %v", err)
	}
	if err := picker.Upload("exact.jpg", make([]byte, MaxCoverUploadBytes)); err != nil {
		t.Fatalf("upload at the limit should pass: %v", err)
	}
}

func TestCoverCatalogIsCopied(t *testing.T) {
	first := CoverCatalog()
	first[0].Name = "mutated"
	if CoverCatalog()[0].Name == "mutated" {
		t.Fatal("catalog mutation leaked")
	}
}
