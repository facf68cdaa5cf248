package record

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/soullift/soul-hug/backend/internal/audio"
	"github.com/soullift/soul-hug/backend/internal/service/hugsession"
)

// Handler ingests a device recording over a websocket: JSON control frames
// drive the recorder lifecycle, binary frames carry 16-bit PCM audio, and
// stop answers with the finished WAV artifact.
type Handler struct {
	sessions *hugsession.Service
	upgrader websocket.Upgrader
}

// New creates the recording ingest handler.
func New(sessions *hugsession.Service) *Handler {
	return &Handler{
		sessions: sessions,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes mounts the websocket route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/record/{sessionID}", h.handleRecord)
}

type controlMessage struct {
	Type       string `json:"type"`
	SampleRate int    `json:"sampleRate,omitempty"`
}

type statusMessage struct {
	Type      string  `json:"type"`
	Duration  float64 `json:"duration,omitempty"`
	Size      int     `json:"size,omitempty"`
	Error     string  `json:"error,omitempty"`
	Timestamp int64   `json:"timestamp"`
}

func (h *Handler) handleRecord(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		http.Error(w, "sessionID is required", http.StatusBadRequest)
		return
	}
	if _, err := h.sessions.Get(r.Context(), sessionID); err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[record] upgrade failed for session=%s: %v", sessionID, err)
		return
	}
	defer conn.Close()

	var recorder *audio.Recorder

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[record] session=%s connection error: %v", sessionID, err)
			}
			return
		}

		switch msgType {
		case websocket.BinaryMessage:
			if recorder != nil {
				recorder.AppendPCM16(data)
			}
		case websocket.TextMessage:
			var ctrl controlMessage
			if err := json.Unmarshal(data, &ctrl); err != nil {
				h.sendStatus(conn, statusMessage{Type: "error", Error: "invalid control message"})
				continue
			}
			if done := h.handleControl(conn, sessionID, &recorder, ctrl); done {
				return
			}
		}
	}
}

// handleControl applies one lifecycle command; returns true once the
// artifact has been delivered.
func (h *Handler) handleControl(conn *websocket.Conn, sessionID string, recorder **audio.Recorder, ctrl controlMessage) bool {
	switch ctrl.Type {
	case "start":
		rec := audio.NewRecorder(ctrl.SampleRate)
		if err := rec.Start(); err != nil {
			h.sendStatus(conn, statusMessage{Type: "error", Error: err.Error()})
			return false
		}
		*recorder = rec
		h.sendStatus(conn, statusMessage{Type: "recording"})
	case "pause":
		if *recorder != nil {
			if err := (*recorder).Pause(); err != nil {
				h.sendStatus(conn, statusMessage{Type: "error", Error: err.Error()})
				return false
			}
			h.sendStatus(conn, statusMessage{Type: "paused", Duration: (*recorder).Duration()})
		}
	case "resume":
		if *recorder != nil {
			if err := (*recorder).Resume(); err != nil {
				h.sendStatus(conn, statusMessage{Type: "error", Error: err.Error()})
				return false
			}
			h.sendStatus(conn, statusMessage{Type: "recording", Duration: (*recorder).Duration()})
		}
	case "stop":
		if *recorder == nil {
			h.sendStatus(conn, statusMessage{Type: "error", Error: "recorder not started"})
			return false
		}
		artifact := (*recorder).Stop()
		h.sendStatus(conn, statusMessage{Type: "artifact", Size: len(artifact), Duration: (*recorder).Duration()})
		if err := conn.WriteMessage(websocket.BinaryMessage, artifact); err != nil {
			log.Printf("[record] session=%s failed to deliver artifact: %v", sessionID, err)
		}
		return true
	default:
		h.sendStatus(conn, statusMessage{Type: "error", Error: "unknown control type"})
	}
	return false
}

func (h *Handler) sendStatus(conn *websocket.Conn, msg statusMessage) {
	msg.Timestamp = time.Now().UnixMilli()
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("[record] failed to send status: %v", err)
	}
}
