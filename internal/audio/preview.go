package audio

import "sync"

// Preview is the handle returned by starting a playback preview. The caller
// holds it and stops it explicitly; there is no global stop state.
type Preview struct {
	mu      sync.Mutex
	kind    string
	trackID string
	onStop  func()
	stopped bool
}

// Kind is "track" or "mix".
func (p *Preview) Kind() string { return p.kind }

// TrackID identifies the previewed track, empty for a pure voice mix.
func (p *Preview) TrackID() string { return p.trackID }

// Active reports whether the preview is still playing.
func (p *Preview) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.stopped
}

// Stop halts playback. Safe to call repeatedly or on an already-ended
// preview.
func (p *Preview) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	onStop := p.onStop
	p.mu.Unlock()
	if onStop != nil {
		onStop()
	}
}

// PreviewManager enforces preview exclusivity: starting any preview stops
// all others first.
type PreviewManager struct {
	mu     sync.Mutex
	active *Preview
}

// NewPreviewManager creates an empty manager.
func NewPreviewManager() *PreviewManager {
	return &PreviewManager{}
}

// StartTrack begins a background-track preview. onStop is invoked once when
// the preview ends, whether by Stop or by being superseded.
func (m *PreviewManager) StartTrack(trackID string, onStop func()) *Preview {
	return m.start(&Preview{kind: "track", trackID: trackID, onStop: onStop})
}

// StartMix begins a voice-with-music mix preview.
func (m *PreviewManager) StartMix(trackID string, onStop func()) *Preview {
	return m.start(&Preview{kind: "mix", trackID: trackID, onStop: onStop})
}

func (m *PreviewManager) start(p *Preview) *Preview {
	m.mu.Lock()
	prev := m.active
	m.active = p
	m.mu.Unlock()
	if prev != nil {
		prev.Stop()
	}
	return p
}

// StopAll stops whatever preview is playing; idempotent.
func (m *PreviewManager) StopAll() {
	m.mu.Lock()
	prev := m.active
	m.active = nil
	m.mu.Unlock()
	if prev != nil {
		prev.Stop()
	}
}

// Active returns the currently playing preview, nil when silent.
func (m *PreviewManager) Active() *Preview {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active != nil && !m.active.Active() {
		return nil
	}
	return m.active
}
