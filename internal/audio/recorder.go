package audio

import (
	"encoding/binary"
	"errors"
	"sync"
)

var (
	ErrRecorderActive   = errors.New("recorder already started")
	ErrRecorderInactive = errors.New("recorder is not recording")
)

// RecorderState tracks the capture lifecycle.
type RecorderState int

const (
	RecorderIdle RecorderState = iota
	RecorderRecording
	RecorderPaused
	RecorderStopped
)

// Recorder accumulates pushed PCM frames into a voice artifact. It mirrors
// the start/pause/resume/stop contract of a device recorder; frames arriving
// while paused or stopped are dropped.
type Recorder struct {
	mu         sync.Mutex
	state      RecorderState
	sampleRate int
	samples    []float64
	artifact   []byte
}

// NewRecorder creates an idle recorder at the given sample rate.
func NewRecorder(sampleRate int) *Recorder {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	return &Recorder{sampleRate: sampleRate}
}

// Start begins a capture. Restarting a stopped recorder discards the
// previous take.
func (r *Recorder) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == RecorderRecording || r.state == RecorderPaused {
		return ErrRecorderActive
	}
	r.state = RecorderRecording
	r.samples = r.samples[:0]
	r.artifact = nil
	return nil
}

// Pause suspends capture; safe to call repeatedly.
func (r *Recorder) Pause() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch r.state {
	case RecorderRecording:
		r.state = RecorderPaused
		return nil
	case RecorderPaused:
		return nil
	default:
		return ErrRecorderInactive
	}
}

// Resume continues a paused capture.
func (r *Recorder) Resume() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch r.state {
	case RecorderPaused:
		r.state = RecorderRecording
		return nil
	case RecorderRecording:
		return nil
	default:
		return ErrRecorderInactive
	}
}

// AppendPCM16 feeds little-endian 16-bit mono frames. Frames outside an
// active recording interval are silently dropped.
func (r *Recorder) AppendPCM16(data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != RecorderRecording {
		return
	}
	for i := 0; i+1 < len(data); i += 2 {
		raw := int16(binary.LittleEndian.Uint16(data[i:]))
		r.samples = append(r.samples, float64(raw)/32767)
	}
}

// Stop finalizes the capture and returns the WAV artifact. Stopping an
// already stopped (or never started) recorder is safe and returns whatever
// artifact exists.
func (r *Recorder) Stop() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == RecorderRecording || r.state == RecorderPaused {
		r.state = RecorderStopped
		r.artifact = EncodeWAV(Clip{SampleRate: r.sampleRate, Samples: r.samples})
	}
	return r.artifact
}

// State returns the current lifecycle state.
func (r *Recorder) State() RecorderState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Duration reports the captured length in seconds so far.
func (r *Recorder) Duration() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return float64(len(r.samples)) / float64(r.sampleRate)
}
