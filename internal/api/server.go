// Package api exposes the digest read and curation HTTP surface.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"NewsDigest/internal/domain"
	"NewsDigest/internal/ports"
)

// Server holds dependencies for the HTTP handlers.
type Server struct {
	store  ports.SnapshotStore
	logger *slog.Logger
	router chi.Router
}

// New wires up routes and returns a ready-to-use Server.
func New(store ports.SnapshotStore, logger *slog.Logger) *Server {
	srv := &Server{store: store, logger: logger, router: chi.NewRouter()}
	srv.routes()
	return srv
}

// ServeHTTP makes Server satisfy the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Get("/api/health", s.handleHealth)
	s.router.Get("/api/digest/latest", s.handleLatest)
	s.router.Get("/api/digest/items", s.handleListItems)
	s.router.Patch("/api/digest/items/{id}", s.handlePatchItem)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLatest(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.store.LoadLatest(r.Context())
	if errors.Is(err, ports.ErrNoSnapshot) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no digest found"})
		return
	}
	if err != nil {
		s.logger.Error("load latest snapshot", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "store unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.store.LoadLatest(r.Context())
	if errors.Is(err, ports.ErrNoSnapshot) {
		writeJSON(w, http.StatusOK, []domain.DigestItem{})
		return
	}
	if err != nil {
		s.logger.Error("load latest snapshot", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "store unavailable"})
		return
	}

	status := r.URL.Query().Get("status")
	topic := r.URL.Query().Get("topic")

	limit := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	items := make([]domain.DigestItem, 0, len(snapshot.Items))
	for _, item := range snapshot.Items {
		if status != "" && string(item.Status) != status {
			continue
		}
		if topic != "" && !hasTopic(item, topic) {
			continue
		}
		items = append(items, item)
		if limit > 0 && len(items) == limit {
			break
		}
	}

	writeJSON(w, http.StatusOK, items)
}

type patchItemRequest struct {
	Status domain.Status `json:"status"`
	Notes  *string       `json:"notes"`
}

// handlePatchItem is the curation-save pathway: the one place the latest
// snapshot is patched in place instead of being replaced by a run.
func (s *Server) handlePatchItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req patchItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	if !req.Status.Valid() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown status"})
		return
	}

	snapshot, err := s.store.LoadLatest(r.Context())
	if errors.Is(err, ports.ErrNoSnapshot) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no digest found"})
		return
	}
	if err != nil {
		s.logger.Error("load latest snapshot", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "store unavailable"})
		return
	}

	patched := false
	for i := range snapshot.Items {
		if snapshot.Items[i].ID != id {
			continue
		}
		snapshot.Items[i].Status = req.Status
		if req.Notes != nil {
			snapshot.Items[i].Notes = *req.Notes
		}
		patched = true
		break
	}
	if !patched {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "item not found"})
		return
	}

	if err := s.store.SaveLatest(r.Context(), snapshot); err != nil {
		s.logger.Error("save latest snapshot", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "store unavailable"})
		return
	}

	s.logger.Info("item curated", "id", id, "status", req.Status)
	writeJSON(w, http.StatusOK, map[string]string{"message": "item updated"})
}

func hasTopic(item domain.DigestItem, topic string) bool {
	for _, t := range item.Topics {
		if t == topic {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
