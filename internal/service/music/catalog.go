package music

// Tier gates access to premium tracks; whether a caller is premium is the
// caller's concern, not this package's.
type Tier string

const (
	TierFree    Tier = "free"
	TierPremium Tier = "premium"
)

// Track is one entry of the fixed background music catalog.
type Track struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category Tier   `json:"category"`
	Duration string `json:"duration"`
	Preview  string `json:"preview"`
}

// Accessible reports whether the caller's tier may use the track.
func (t Track) Accessible(tier Tier) bool {
	return t.Category == TierFree || tier == TierPremium
}

// Catalog returns the fixed track list.
func Catalog() []Track {
	return append([]Track(nil), catalog...)
}

// FindTrack looks up a catalog entry by id.
func FindTrack(id string) (Track, bool) {
	for _, t := range catalog {
		if t.ID == id {
			return t, true
		}
	}
	return Track{}, false
}

var catalog = []Track{
	{ID: "gentle-piano", Name: "Gentle Piano", Category: TierFree, Duration: "2:30", Preview: "/api/music/gentle-piano"},
	{ID: "soft-strings", Name: "Soft Strings", Category: TierFree, Duration: "3:15", Preview: "/api/music/soft-strings"},
	{ID: "peaceful-nature", Name: "Peaceful Nature", Category: TierFree, Duration: "2:45", Preview: "/api/music/peaceful-nature"},
	{ID: "warm-acoustic", Name: "Warm Acoustic", Category: TierPremium, Duration: "3:00", Preview: "/api/music/warm-acoustic"},
	{ID: "uplifting-orchestral", Name: "Uplifting Orchestral", Category: TierPremium, Duration: "3:30", Preview: "/api/music/uplifting-orchestral"},
	{ID: "ambient-meditation", Name: "Ambient Meditation", Category: TierPremium, Duration: "4:00", Preview: "/api/music/ambient-meditation"},
	{ID: "jazz-cafe", Name: "Jazz Cafe", Category: TierPremium, Duration: "2:50", Preview: "/api/music/jazz-cafe"},
	{ID: "classical-embrace", Name: "Classical Embrace", Category: TierPremium, Duration: "3:45", Preview: "/api/music/classical-embrace"},
	{ID: "folk-harmony", Name: "Folk Harmony", Category: TierPremium, Duration: "3:10", Preview: "/api/music/folk-harmony"},
	{ID: "cinematic-love", Name: "Cinematic Love", Category: TierPremium, Duration: "4:15", Preview: "/api/music/cinematic-love"},
}

// trackFrequencies maps track ids to the fundamental of their synthetic
// stand-in tone. Unknown ids fall back to A4.
var trackFrequencies = map[string]float64{
	"gentle-piano":         440, // A4
	"soft-strings":         523, // C5
	"peaceful-nature":      349, // F4
	"warm-acoustic":        392, // G4
	"uplifting-orchestral": 659, // E5
	"ambient-meditation":   293, // D4
	"jazz-cafe":            466, // Bb4
	"classical-embrace":    587, // D5
	"folk-harmony":         330, // E4
	"cinematic-love":       698, // F5
}

const defaultFrequency = 440.0

// TrackFrequency returns the synthesis fundamental for a track id.
func TrackFrequency(id string) float64 {
	if f, ok := trackFrequencies[id]; ok {
		return f
	}
	return defaultFrequency
}
