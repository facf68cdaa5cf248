package audio

import (
	"context"
	"errors"
)

var (
	ErrNoVoiceArtifact = errors.New("no voice artifact: record or synthesize first")
	ErrPremiumTrack    = errors.New("premium track requires a premium tier")
)

// CaptureSource names which capture artifact currently feeds compilation.
type CaptureSource string

const (
	SourceRecording CaptureSource = "recording"
	SourceSynthesis CaptureSource = "synthesis"
)

// MusicFetcher resolves a track id into its audio bytes; over HTTP on the
// client, straight synthesis on the server.
type MusicFetcher func(ctx context.Context, trackID string) ([]byte, error)

// FinalHug is the compiled artifact: the (possibly mixed) voice audio plus
// the cover as a display asset. The cover is packaged, never re-encoded
// into the audio.
type FinalHug struct {
	Audio []byte
	Mixed bool
	Cover Cover
}

// Pipeline orchestrates the capture, track, mix, cover and compile steps.
// Artifacts are opaque byte handles; replacing a capture keeps the other
// source's artifact and releasing old handles is the host's business.
type Pipeline struct {
	recorded    []byte
	synthesized []byte
	source      CaptureSource

	trackID      string
	premiumTier  bool
	voiceGain    float64
	musicGain    float64
	fetchMusic   MusicFetcher
	CoverChoice  CoverPicker
	Previews     *PreviewManager
}

// NewPipeline creates a pipeline with the original's default gain levels.
func NewPipeline(fetch MusicFetcher) *Pipeline {
	return &Pipeline{
		voiceGain:  1.0,
		musicGain:  0.3,
		fetchMusic: fetch,
		Previews:   NewPreviewManager(),
	}
}

// SetPremiumTier supplies the caller's tier flag for premium track gating.
func (p *Pipeline) SetPremiumTier(premium bool) { p.premiumTier = premium }

// SetRecording stores a finished recording artifact and makes it current.
func (p *Pipeline) SetRecording(artifact []byte) {
	p.recorded = artifact
	p.source = SourceRecording
}

// SetSynthesized stores a synthesized voice artifact and makes it current.
func (p *Pipeline) SetSynthesized(artifact []byte) {
	p.synthesized = artifact
	p.source = SourceSynthesis
}

// SelectSource switches which capture artifact is current without touching
// either artifact.
func (p *Pipeline) SelectSource(src CaptureSource) {
	p.source = src
}

// Voice returns the current capture artifact, preferring the selected
// source and falling back to whichever exists.
func (p *Pipeline) Voice() []byte {
	switch p.source {
	case SourceSynthesis:
		if p.synthesized != nil {
			return p.synthesized
		}
		return p.recorded
	default:
		if p.recorded != nil {
			return p.recorded
		}
		return p.synthesized
	}
}

// SelectTrack picks zero-or-one background track. premium is the track's
// catalog category; the tier flag decides whether it is allowed.
func (p *Pipeline) SelectTrack(trackID string, premium bool) error {
	if premium && !p.premiumTier {
		return ErrPremiumTrack
	}
	p.trackID = trackID
	return nil
}

// ClearTrack removes the background track selection.
func (p *Pipeline) ClearTrack() { p.trackID = "" }

// TrackID returns the selected track id, empty for none.
func (p *Pipeline) TrackID() string { return p.trackID }

// SetGains adjusts the independent voice and music mix levels.
func (p *Pipeline) SetGains(voice, music float64) {
	p.voiceGain = voice
	p.musicGain = music
}

// Compile produces the final artifact. It requires a voice artifact and a
// chosen cover; a selected track is mixed in, and any mixing failure
// degrades to the unmixed voice rather than blocking.
func (p *Pipeline) Compile(ctx context.Context) (FinalHug, error) {
	voice := p.Voice()
	if voice == nil {
		return FinalHug{}, ErrNoVoiceArtifact
	}

	cover, err := p.CoverChoice.Cover()
	if err != nil {
		return FinalHug{}, err
	}

	final := voice
	mixed := false
	if p.trackID != "" && p.fetchMusic != nil {
		if music, err := p.fetchMusic(ctx, p.trackID); err == nil {
			final, mixed = Mix(voice, music, p.voiceGain, p.musicGain)
		}
	}

	return FinalHug{Audio: final, Mixed: mixed, Cover: cover}, nil
}
