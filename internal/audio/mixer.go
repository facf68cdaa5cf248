package audio

import "log"

// Mix renders an offline mix of a voice artifact over a music track at
// independent gain levels, re-encoded as a single WAV artifact. Decode or
// mix failure of any kind falls back to returning the voice artifact
// unchanged; music must never block final compilation. The mixed return
// value reports which path was taken.
func Mix(voice, music []byte, voiceGain, musicGain float64) (out []byte, mixed bool) {
	voiceClip, err := DecodeWAV(voice)
	if err != nil {
		log.Printf("[audio] voice decode failed, returning voice unmixed: %v", err)
		return voice, false
	}

	musicClip, err := DecodeWAV(music)
	if err != nil {
		log.Printf("[audio] music decode failed, returning voice unmixed: %v", err)
		return voice, false
	}

	if musicClip.SampleRate != voiceClip.SampleRate {
		log.Printf("[audio] sample rate mismatch (%d vs %d), returning voice unmixed",
			voiceClip.SampleRate, musicClip.SampleRate)
		return voice, false
	}

	length := len(voiceClip.Samples)
	if len(musicClip.Samples) > length {
		length = len(musicClip.Samples)
	}

	samples := make([]float64, length)
	for i := range samples {
		var v, m float64
		if i < len(voiceClip.Samples) {
			v = voiceClip.Samples[i] * voiceGain
		}
		if i < len(musicClip.Samples) {
			m = musicClip.Samples[i] * musicGain
		}
		samples[i] = clamp(v + m)
	}

	return EncodeWAV(Clip{SampleRate: voiceClip.SampleRate, Samples: samples}), true
}

func clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
