package audio

import (
	"encoding/binary"
	"fmt"
	"math"
)

// DefaultSampleRate matches the rate the original pipeline renders at.
const DefaultSampleRate = 44100

// Clip holds decoded mono PCM in the [-1, 1] range.
type Clip struct {
	SampleRate int
	Samples    []float64
}

// Duration returns the clip length in seconds.
func (c Clip) Duration() float64 {
	if c.SampleRate <= 0 {
		return 0
	}
	return float64(len(c.Samples)) / float64(c.SampleRate)
}

// EncodeWAV renders the clip as a 16-bit mono PCM WAV blob.
func EncodeWAV(clip Clip) []byte {
	n := len(clip.Samples)
	out := make([]byte, 44+n*2)

	copy(out[0:4], "RIFF")
	binary.LittleEndian.PutUint32(out[4:8], uint32(36+n*2))
	copy(out[8:12], "WAVE")
	copy(out[12:16], "fmt ")
	binary.LittleEndian.PutUint32(out[16:20], 16)
	binary.LittleEndian.PutUint16(out[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(out[22:24], 1) // mono
	binary.LittleEndian.PutUint32(out[24:28], uint32(clip.SampleRate))
	binary.LittleEndian.PutUint32(out[28:32], uint32(clip.SampleRate*2))
	binary.LittleEndian.PutUint16(out[32:34], 2)  // block align
	binary.LittleEndian.PutUint16(out[34:36], 16) // bits per sample
	copy(out[36:40], "data")
	binary.LittleEndian.PutUint32(out[40:44], uint32(n*2))

	for i, s := range clip.Samples {
		v := math.Max(-1, math.Min(1, s))
		binary.LittleEndian.PutUint16(out[44+i*2:], uint16(int16(math.Round(v*32767))))
	}
	return out
}

// DecodeWAV parses a 16-bit PCM WAV blob into a mono clip, downmixing
// stereo input. Anything else is a decode error.
func DecodeWAV(data []byte) (Clip, error) {
	if len(data) < 44 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return Clip{}, fmt.Errorf("not a RIFF/WAVE stream")
	}

	var (
		sampleRate int
		channels   int
		bits       int
		pcm        []byte
		haveFmt    bool
	)

	// Walk the chunk list; fmt and data may be separated by others.
	offset := 12
	for offset+8 <= len(data) {
		id := string(data[offset : offset+4])
		size := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		body := offset + 8
		if body+size > len(data) {
			size = len(data) - body
		}

		switch id {
		case "fmt ":
			if size < 16 {
				return Clip{}, fmt.Errorf("truncated fmt chunk")
			}
			format := int(binary.LittleEndian.Uint16(data[body : body+2]))
			channels = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			sampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			bits = int(binary.LittleEndian.Uint16(data[body+14 : body+16]))
			if format != 1 {
				return Clip{}, fmt.Errorf("unsupported audio format %d", format)
			}
			haveFmt = true
		case "data":
			pcm = data[body : body+size]
		}

		offset = body + size
		if size%2 == 1 {
			offset++ // chunks are word aligned
		}
	}

	if !haveFmt || pcm == nil {
		return Clip{}, fmt.Errorf("missing fmt or data chunk")
	}
	if bits != 16 {
		return Clip{}, fmt.Errorf("unsupported bit depth %d", bits)
	}
	if channels != 1 && channels != 2 {
		return Clip{}, fmt.Errorf("unsupported channel count %d", channels)
	}
	if sampleRate <= 0 {
		return Clip{}, fmt.Errorf("invalid sample rate %d", sampleRate)
	}

	frameBytes := channels * 2
	frames := len(pcm) / frameBytes
	samples := make([]float64, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for ch := 0; ch < channels; ch++ {
			raw := int16(binary.LittleEndian.Uint16(pcm[i*frameBytes+ch*2:]))
			sum += float64(raw) / 32767
		}
		samples[i] = sum / float64(channels)
	}

	return Clip{SampleRate: sampleRate, Samples: samples}, nil
}
