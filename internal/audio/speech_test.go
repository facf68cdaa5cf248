package audio

import (
	"errors"
	"testing"
)

func TestProfileForTone(t *testing.T) {
	p := ProfileForTone("gentle")
	if p.Rate != 0.7 || p.Pitch != 0.8 {
		t.Fatalf("unexpected gentle profile: %+v", p)
	}
	p = ProfileForTone("  Uplifting ")
	if p.Rate != 1.1 || p.Pitch != 1.2 {
		t.Fatalf("tone lookup should be forgiving: %+v", p)
	}
	p = ProfileForTone("unknown")
	if p.Rate != 1.0 || p.Pitch != 1.0 {
		t.Fatalf("unknown tone should be neutral: %+v", p)
	}
}

func TestMatchVoice(t *testing.T) {
	voices := []Voice{
		{Name: "Microsoft David Desktop"},
		{Name: "Samantha"},
	}

	v, ok := MatchVoice(voices, "female")
	if !ok || v.Name != "Samantha" {
		t.Fatalf("expected Samantha, got %+v (%v)", v, ok)
	}
	v, ok = MatchVoice(voices, "male")
	if !ok || v.Name != "Microsoft David Desktop" {
		t.Fatalf("expected David, got %+v (%v)", v, ok)
	}
	if _, ok := MatchVoice(voices, "robot"); ok {
		t.Fatal("unknown gender must not match")
	}
	if _, ok := MatchVoice([]Voice{{Name: "Voice One"}}, "female"); ok {
		t.Fatal("no keyword match expected")
	}
}

func TestSpeakRequiresTextAndVoices(t *testing.T) {
	s := NewSynthesizer([]Voice{{Name: "Samantha"}})
	if _, err := s.Speak("   ", "warm", "female"); !errors.Is(err, ErrEmptyUtterance) {
		t.Fatalf("expected ErrEmptyUtterance, got %v", err)
	}

	empty := NewSynthesizer(nil)
	if _, err := empty.Speak("hello", "warm", "female"); !errors.Is(err, ErrSynthesisUnsupported) {
		t.Fatalf("expected ErrSynthesisUnsupported, got %v", err)
	}
}

func TestSpeakYieldsArtifactAfterFinish(t *testing.T) {
	s := NewSynthesizer([]Voice{{Name: "Samantha"}})

	u, err := s.Speak("hello warm world", "warm", "female")
	if err != nil {
		t.Fatalf("Speak err: %v", err)
	}
	if !u.IsSpeaking() || !s.Speaking() {
		t.Fatal("expected utterance to be speaking")
	}
	if u.Audio() != nil {
		t.Fatal("artifact must be withheld while speaking")
	}

	u.Finish()
	if s.Speaking() {
		t.Fatal("synthesizer still speaking after finish")
	}
	artifact := u.Audio()
	if artifact == nil {
		t.Fatal("expected artifact after finish")
	}
	clip, err := DecodeWAV(artifact)
	if err != nil {
		t.Fatalf("artifact not decodable: %v", err)
	}
	if clip.Duration() == 0 {
		t.Fatal("expected non-empty rendering")
	}
}

func TestSpeakCancelsPreviousUtterance(t *testing.T) {
	s := NewSynthesizer([]Voice{{Name: "Samantha"}})

	first, err := s.Speak("first message", "calm", "female")
	if err != nil {
		t.Fatalf("Speak err: %v", err)
	}
	second, err := s.Speak("second message", "calm", "female")
	if err != nil {
		t.Fatalf("Speak err: %v", err)
	}

	if first.IsSpeaking() {
		t.Fatal("first utterance must be cancelled")
	}
	if !first.Cancelled() {
		t.Fatal("first utterance should report cancellation")
	}
	if first.Audio() != nil {
		t.Fatal("cancelled utterance must not yield an artifact")
	}
	if !second.IsSpeaking() {
		t.Fatal("second utterance should be speaking")
	}
}

func TestStopIsIdempotent(t *testing.T) {
	s := NewSynthesizer([]Voice{{Name: "Samantha"}})
	s.Stop() // nothing active

	u, err := s.Speak("hello", "warm", "female")
	if err != nil {
		t.Fatalf("Speak err: %v", err)
	}
	s.Stop()
	s.Stop()
	if !u.Cancelled() {
		t.Fatal("expected cancellation")
	}
	if s.Speaking() {
		t.Fatal("synthesizer should be silent")
	}
}

func TestToneAffectsRenderedLength(t *testing.T) {
	s := NewSynthesizer([]Voice{{Name: "Samantha"}})

	slow, _ := s.Speak("one two three", "gentle", "female")
	slow.Finish()
	slowClip, err := DecodeWAV(slow.Audio())
	if err != nil {
		t.Fatalf("decode err: %v", err)
	}

	fast, _ := s.Speak("one two three", "playful", "female")
	fast.Finish()
	fastClip, err := DecodeWAV(fast.Audio())
	if err != nil {
		t.Fatalf("decode err: %v", err)
	}

	if slowClip.Duration() <= fastClip.Duration() {
		t.Fatalf("gentle should render slower than playful: %.2fs vs %.2fs",
			slowClip.Duration(), fastClip.Duration())
	}
}
