package inspect

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quotely/signal/internal/errors"
	"github.com/quotely/signal/pkg/reactive"
)

// SignalInfo is one entry of the /signals listing.
type SignalInfo struct {
	Name        string `json:"name"`
	Subscribers int    `json:"subscribers"`
}

// PropertyInfo describes a non-data accessor member.
type PropertyInfo struct {
	Signal string `json:"signal"`
	Key    string `json:"key"`
	Kind   string `json:"kind"`
	Type   string `json:"type"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleList(w http.ResponseWriter, _ *http.Request) {
	entries := s.registry.All()
	out := make([]SignalInfo, 0, len(entries))
	for _, e := range entries {
		out = append(out, SignalInfo{Name: e.Name(), Subscribers: e.Subscribers()})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.lookup(w, r)
	if !ok {
		return
	}
	s.writeSnapshot(w, entry)
}

func (s *Server) handleAssign(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.lookup(w, r)
	if !ok {
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, errors.Newf(errors.CategoryServer, "read body: %v", err))
		return
	}
	if err := entry.AssignJSON(reactive.KeyValue, body); err != nil {
		status := http.StatusInternalServerError
		if stderrors.Is(err, reactive.ErrTypeMismatch) {
			status = http.StatusBadRequest
		}
		writeError(w, status, errors.FromError(err, "S004"))
		return
	}
	s.logger.Debug("signal assigned", "signal", entry.Name(), "bytes", len(body))
	s.writeSnapshot(w, entry)
}

func (s *Server) handleProperty(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.lookup(w, r)
	if !ok {
		return
	}
	key := chi.URLParam(r, "key")

	v, ok := entry.Property(key)
	if !ok {
		writeError(w, http.StatusNotFound, errors.Newf(errors.CategorySignal, "signal %q has no property %q", entry.Name(), key))
		return
	}

	switch key {
	case reactive.KeyValue:
		s.writeSnapshot(w, entry)
	case reactive.KeySignalName:
		writeJSON(w, http.StatusOK, v)
	default:
		writeJSON(w, http.StatusOK, PropertyInfo{
			Signal: entry.Name(),
			Key:    key,
			Kind:   "method",
			Type:   fmt.Sprintf("%T", v),
		})
	}
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (reactive.Entry, bool) {
	entry, err := s.registry.Lookup(chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, http.StatusNotFound, errors.FromError(err, "S001"))
		return nil, false
	}
	return entry, true
}

func (s *Server) writeSnapshot(w http.ResponseWriter, entry reactive.Entry) {
	data, err := entry.Snapshot()
	if err != nil {
		writeError(w, http.StatusInternalServerError, errors.Newf(errors.CategorySignal, "encode %q: %v", entry.Name(), err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err *errors.SignalError) {
	writeJSON(w, status, map[string]any{"error": err})
}
