package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/csg33k/employee-directory/internal/directory"
	"github.com/csg33k/employee-directory/internal/live"
	"github.com/csg33k/employee-directory/internal/logger"
	"github.com/csg33k/employee-directory/internal/templates"
)

// SnapshotEvent is the SSE event name the results region swaps on.
const SnapshotEvent = "snapshot"

// session resolves {sid}. An unknown or expired session asks htmx to reload
// the page, which opens a fresh one.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*live.Session, bool) {
	s, ok := h.sessions.Get(r.PathValue("sid"))
	if !ok {
		w.Header().Set("HX-Refresh", "true")
		http.Error(w, "session expired", http.StatusNotFound)
		return nil, false
	}
	return s, true
}

func (h *Handler) liveSearch(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	s.Input(clampSearch(r.FormValue("search")))
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) liveNext(w http.ResponseWriter, r *http.Request) {
	if s, ok := h.session(w, r); ok {
		s.NextPage()
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *Handler) livePrev(w http.ResponseWriter, r *http.Request) {
	if s, ok := h.session(w, r); ok {
		s.PreviousPage()
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *Handler) liveClear(w http.ResponseWriter, r *http.Request) {
	if s, ok := h.session(w, r); ok {
		s.Clear()
		w.WriteHeader(http.StatusNoContent)
	}
}

// liveEvents streams the session's results fragment as server-sent events
// until the client goes away.
func (h *Handler) liveEvents(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	rc := http.NewResponseController(w)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	detach := s.Attach(time.Now())
	defer func() { detach(time.Now()) }()

	send := func(snap directory.Snapshot) error {
		html, err := templates.RenderString(ctx, templates.Results(templates.PageData{SessionID: s.ID, Snapshot: snap}))
		if err != nil {
			return err
		}
		if err := writeEvent(w, SnapshotEvent, html); err != nil {
			return err
		}
		return rc.Flush()
	}

	// anything buffered is at most as new as the current snapshot
	select {
	case <-s.Updates():
	default:
	}
	if err := send(s.Snapshot()); err != nil {
		logger.WarnLog(ctx, "event stream for session %s failed: %v", s.ID, err)
		return
	}

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case snap := <-s.Updates():
			if err := send(snap); err != nil {
				logger.DebugLog(ctx, "event stream for session %s closed: %v", s.ID, err)
				return
			}
		case <-heartbeat.C:
			if _, err := io.WriteString(w, ": ping\n\n"); err != nil {
				return
			}
			if err := rc.Flush(); err != nil {
				return
			}
		}
	}
}

// writeEvent writes one server-sent event. Every line of data gets its own
// data field.
func writeEvent(w io.Writer, event, data string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "event: %s\n", event)
	for _, line := range strings.Split(strings.ReplaceAll(data, "\r\n", "\n"), "\n") {
		b.WriteString("data: ")
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	_, err := io.WriteString(w, b.String())
	return err
}
