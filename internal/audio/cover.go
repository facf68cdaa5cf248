package audio

import "errors"

// MaxCoverUploadBytes bounds uploaded cover images.
const MaxCoverUploadBytes = 5 * 1024 * 1024

var (
	ErrCoverNotFound  = errors.New("cover image not found")
	ErrCoverTooLarge  = errors.New("cover image exceeds 5MB limit")
	ErrNoCoverChosen  = errors.New("no cover image chosen")
	ErrEmptyCoverFile = errors.New("cover upload is empty")
)

// CoverImage is one catalog cover option.
type CoverImage struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

var coverCatalog = []CoverImage{
	{ID: "sunset-heart", Name: "Sunset Heart", URL: "https://images.unsplash.com/photo-1518837695005-2083093ee35b?w=400&h=400&fit=crop"},
	{ID: "gentle-flowers", Name: "Gentle Flowers", URL: "https://images.unsplash.com/photo-1490750967868-88aa4486c946?w=400&h=400&fit=crop"},
	{ID: "warm-embrace", Name: "Warm Embrace", URL: "https://images.unsplash.com/photo-1529333166437-7750a6dd5a70?w=400&h=400&fit=crop"},
	{ID: "peaceful-nature", Name: "Peaceful Nature", URL: "https://images.unsplash.com/photo-1506905925346-21bda4d32df4?w=400&h=400&fit=crop"},
	{ID: "golden-light", Name: "Golden Light", URL: "https://images.unsplash.com/photo-1447752875215-b2761acb3c5d?w=400&h=400&fit=crop"},
	{ID: "soft-pastels", Name: "Soft Pastels", URL: "https://images.unsplash.com/photo-1557804506-669a67965ba0?w=400&h=400&fit=crop"},
}

// CoverCatalog returns the fixed cover options.
func CoverCatalog() []CoverImage {
	return append([]CoverImage(nil), coverCatalog...)
}

// Cover is the resolved cover choice packaged into the final artifact.
type Cover struct {
	CatalogID string
	URL       string
	Uploaded  []byte
	Filename  string
}

// CoverPicker holds the mutually exclusive catalog-or-upload choice:
// selecting one clears the other.
type CoverPicker struct {
	catalogID string
	uploaded  []byte
	filename  string
}

// SelectCatalog picks a predefined cover and clears any upload.
func (c *CoverPicker) SelectCatalog(id string) error {
	for _, img := range coverCatalog {
		if img.ID == id {
			c.catalogID = id
			c.uploaded = nil
			c.filename = ""
			return nil
		}
	}
	return ErrCoverNotFound
}

// Upload stores a custom image and clears any catalog selection.
func (c *CoverPicker) Upload(filename string, data []byte) error {
	if len(data) == 0 {
		return ErrEmptyCoverFile
	}
	if len(data) > MaxCoverUploadBytes {
		return ErrCoverTooLarge
	}
	c.uploaded = append([]byte(nil), data...)
	c.filename = filename
	c.catalogID = ""
	return nil
}

// Chosen reports whether either source has been picked.
func (c *CoverPicker) Chosen() bool {
	return c.catalogID != "" || len(c.uploaded) > 0
}

// Cover resolves the current choice.
func (c *CoverPicker) Cover() (Cover, error) {
	if c.catalogID != "" {
		for _, img := range coverCatalog {
			if img.ID == c.catalogID {
				return Cover{CatalogID: img.ID, URL: img.URL}, nil
			}
		}
	}
	if len(c.uploaded) > 0 {
		return Cover{Uploaded: c.uploaded, Filename: c.filename}, nil
	}
	return Cover{}, ErrNoCoverChosen
}
