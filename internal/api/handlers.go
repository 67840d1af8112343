package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"wallbreaker/internal/game"
	"wallbreaker/internal/view"
)

// MaxNetBody caps an inbound network message.
const MaxNetBody = 64 << 10

// Handler methods for routerHandlers
// These are used by both the standalone router (for testing) and the full Server.

func (h *routerHandlers) handleGetState(w http.ResponseWriter, r *http.Request) {
	snapshot := h.engine.GetSnapshot()
	if snapshot == nil {
		writeError(w, "No state yet", http.StatusServiceUnavailable)
		return
	}
	withGrid := r.URL.Query().Get("grid") != "0"
	writeJSON(w, NewStateResponse(snapshot, withGrid))
}

func (h *routerHandlers) handleGetStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.engine.Stats())
}

func (h *routerHandlers) handleGetFrame(w http.ResponseWriter, r *http.Request) {
	// Rendering can outlive the pool slot, so draw from a private copy
	snapshot := h.engine.GetSnapshot().Clone()
	if snapshot == nil {
		writeError(w, "No state yet", http.StatusServiceUnavailable)
		return
	}

	scale := 2
	if s := r.URL.Query().Get("scale"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 || v > view.MaxScale {
			writeError(w, "scale must be 1-"+strconv.Itoa(view.MaxScale), http.StatusBadRequest)
			return
		}
		scale = v
	}

	// Encode into a buffer so a render error can still be reported as JSON
	start := time.Now()
	var buf bytes.Buffer
	if err := view.EncodePNG(&buf, snapshot, scale); err != nil {
		log.Printf("⚠️ Frame render failed: %v", err)
		writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	RecordRender(time.Since(start))

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}

func (h *routerHandlers) handleInput(w http.ResponseWriter, r *http.Request) {
	var in game.InputState
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}
	h.engine.SetInput(in)
	writeJSON(w, map[string]bool{"success": true})
}

func (h *routerHandlers) handleAim(w http.ResponseWriter, r *http.Request) {
	var target game.Vec
	if err := json.NewDecoder(r.Body).Decode(&target); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}
	h.engine.SetAim(target)
	writeJSON(w, map[string]bool{"success": true})
}

func (h *routerHandlers) handleRestart(w http.ResponseWriter, r *http.Request) {
	log.Println("🔄 Restart requested via API")
	h.engine.Restart()
	writeJSON(w, map[string]bool{"success": true})
}

func (h *routerHandlers) handleNet(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, MaxNetBody+1))
	if err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if len(body) > MaxNetBody {
		writeError(w, "Message too large", http.StatusRequestEntityTooLarge)
		return
	}

	msg, err := game.DecodeNetMessage(body)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !h.engine.QueueNet(msg) {
		writeError(w, "Net queue full", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, map[string]interface{}{"success": true, "kind": msg.Kind.String()})
}

// Helper functions (package-level for reuse)

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
