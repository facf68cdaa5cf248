package music

import (
	"math"

	"github.com/soullift/soul-hug/backend/internal/audio"
)

const (
	synthSampleRate = audio.DefaultSampleRate
	synthDuration   = 30 // seconds
	synthAmplitude  = 0.1
)

// RenderTrack deterministically synthesizes the stand-in audio for a track:
// a fundamental with fifth and octave harmonics under a slow decay
// envelope. Unknown ids render at the default frequency rather than
// erroring.
func RenderTrack(trackID string) []byte {
	frequency := TrackFrequency(trackID)
	samples := make([]float64, synthSampleRate*synthDuration)

	for i := range samples {
		t := float64(i) / synthSampleRate
		fundamental := math.Sin(2 * math.Pi * frequency * t)
		fifth := math.Sin(2*math.Pi*frequency*1.5*t) * 0.5
		octave := math.Sin(2*math.Pi*frequency*2*t) * 0.25
		envelope := math.Exp(-t*0.1)*0.5 + 0.5
		samples[i] = (fundamental + fifth + octave) * synthAmplitude * envelope
	}

	return audio.EncodeWAV(audio.Clip{SampleRate: synthSampleRate, Samples: samples})
}
