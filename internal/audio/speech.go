package audio

import (
	"errors"
	"math"
	"strings"
	"sync"
)

var (
	ErrSynthesisUnsupported = errors.New("speech synthesis unsupported: no voices available")
	ErrEmptyUtterance       = errors.New("utterance text is empty")
)

// ToneProfile maps a message tone to speaking rate and pitch multipliers.
type ToneProfile struct {
	Rate  float64
	Pitch float64
}

var toneProfiles = map[string]ToneProfile{
	"calm":      {Rate: 0.8, Pitch: 0.9},
	"uplifting": {Rate: 1.1, Pitch: 1.2},
	"warm":      {Rate: 0.9, Pitch: 1.0},
	"playful":   {Rate: 1.2, Pitch: 1.3},
	"gentle":    {Rate: 0.7, Pitch: 0.8},
	"confident": {Rate: 1.0, Pitch: 1.1},
}

// ProfileForTone resolves a tone name; unknown tones get neutral settings.
func ProfileForTone(tone string) ToneProfile {
	if p, ok := toneProfiles[strings.ToLower(strings.TrimSpace(tone))]; ok {
		return p
	}
	return ToneProfile{Rate: 1.0, Pitch: 1.0}
}

// Voice describes one synthesis voice offered by the host environment.
type Voice struct {
	Name string
}

var femaleVoiceKeywords = []string{"female", "woman", "zira", "susan", "samantha"}
var maleVoiceKeywords = []string{"male", "man", "david", "mark", "alex"}

// MatchVoice picks the first available voice whose name matches the
// requested gender keyword set. No match leaves the environment default.
func MatchVoice(voices []Voice, gender string) (Voice, bool) {
	var keywords []string
	switch strings.ToLower(strings.TrimSpace(gender)) {
	case "female":
		keywords = femaleVoiceKeywords
	case "male":
		keywords = maleVoiceKeywords
	default:
		return Voice{}, false
	}

	for _, v := range voices {
		name := strings.ToLower(v.Name)
		for _, kw := range keywords {
			if strings.Contains(name, kw) {
				return v, true
			}
		}
	}
	return Voice{}, false
}

// Utterance is one in-flight or finished synthesis run.
type Utterance struct {
	mu        sync.Mutex
	text      string
	voice     Voice
	profile   ToneProfile
	speaking  bool
	cancelled bool
	artifact  []byte
}

// IsSpeaking reports whether the utterance is still active.
func (u *Utterance) IsSpeaking() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.speaking
}

// Cancelled reports whether the utterance was cut off before finishing.
func (u *Utterance) Cancelled() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.cancelled
}

// Finish completes the utterance and makes its artifact available.
func (u *Utterance) Finish() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.speaking = false
}

// Audio returns the rendered artifact, nil while speaking or after a cancel.
func (u *Utterance) Audio() []byte {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.speaking || u.cancelled {
		return nil
	}
	return u.artifact
}

func (u *Utterance) cancel() {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.speaking {
		u.speaking = false
		u.cancelled = true
	}
}

// Synthesizer renders message text to a voice artifact. At most one
// utterance is active at a time; starting a new one cancels the old.
type Synthesizer struct {
	mu         sync.Mutex
	voices     []Voice
	sampleRate int
	active     *Utterance
}

// NewSynthesizer wraps the host environment's available voices.
func NewSynthesizer(voices []Voice) *Synthesizer {
	return &Synthesizer{
		voices:     append([]Voice(nil), voices...),
		sampleRate: DefaultSampleRate,
	}
}

// Speak starts synthesizing text with the given tone and voice gender
// preference, returning the utterance handle. Any in-flight utterance is
// cancelled first.
func (s *Synthesizer) Speak(text, tone, gender string) (*Utterance, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyUtterance
	}
	if len(s.voices) == 0 {
		return nil, ErrSynthesisUnsupported
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active != nil {
		s.active.cancel()
	}

	voice, _ := MatchVoice(s.voices, gender)
	profile := ProfileForTone(tone)
	u := &Utterance{
		text:     text,
		voice:    voice,
		profile:  profile,
		speaking: true,
		artifact: renderSpeech(text, profile, s.sampleRate),
	}
	s.active = u
	return u, nil
}

// Stop cancels the in-flight utterance; safe to call when nothing is active.
func (s *Synthesizer) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active != nil {
		s.active.cancel()
	}
}

// Speaking reports whether an utterance is currently active.
func (s *Synthesizer) Speaking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active != nil && s.active.IsSpeaking()
}

// renderSpeech deterministically renders each word as a short tone whose
// frequency follows the pitch multiplier and whose length follows the rate.
// A stand-in for platform synthesis, same spirit as the synthetic music
// tracks.
func renderSpeech(text string, profile ToneProfile, sampleRate int) []byte {
	const (
		baseFrequency    = 180.0
		baseWordDuration = 0.28
		gapDuration      = 0.08
		amplitude        = 0.25
	)

	words := strings.Fields(text)
	wordSamples := int(baseWordDuration / profile.Rate * float64(sampleRate))
	gapSamples := int(gapDuration / profile.Rate * float64(sampleRate))

	samples := make([]float64, 0, len(words)*(wordSamples+gapSamples))
	for wi, word := range words {
		// Vary pitch per word so the output is not a flat drone.
		variation := 1 + 0.08*math.Sin(float64(wi)+float64(len(word)))
		freq := baseFrequency * profile.Pitch * variation
		for i := 0; i < wordSamples; i++ {
			t := float64(i) / float64(sampleRate)
			fade := math.Min(1, math.Min(float64(i), float64(wordSamples-i))/float64(sampleRate)*200)
			samples = append(samples, math.Sin(2*math.Pi*freq*t)*amplitude*fade)
		}
		for i := 0; i < gapSamples; i++ {
			samples = append(samples, 0)
		}
	}

	return EncodeWAV(Clip{SampleRate: sampleRate, Samples: samples})
}
