package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"git.home.luguber.info/inful/docengine/internal/content"
	"git.home.luguber.info/inful/docengine/internal/docs"
	"git.home.luguber.info/inful/docengine/internal/logfields"
	"git.home.luguber.info/inful/docengine/internal/metrics"
	"git.home.luguber.info/inful/docengine/internal/nav"
	"git.home.luguber.info/inful/docengine/internal/search"
)

const resolutionInterface = "http"

// DocumentResponse is the resolved document payload.
type DocumentResponse struct {
	Slug        string         `json:"slug"`
	Segments    []string       `json:"segments"`
	Title       string         `json:"title"`
	Metadata    map[string]any `json:"metadata"`
	Body        string         `json:"body"`
	Fingerprint string         `json:"fingerprint"`
}

// PathsResponse lists every document as slug segments.
type PathsResponse struct {
	Paths [][]string `json:"paths"`
}

// RebuildResponse describes a freshly swapped snapshot. Hash only changes
// when documents or their content change.
type RebuildResponse struct {
	ID        string    `json:"id"`
	Hash      string    `json:"hash"`
	Documents int       `json:"documents"`
	LoadedAt  time.Time `json:"loadedAt"`
}

// SearchResponse wraps search hits.
type SearchResponse struct {
	Query string       `json:"query"`
	Hits  []search.Hit `json:"hits"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"healthy"}`))
}

// snapshot loads the current index or writes a 500.
func (s *Server) snapshot(w http.ResponseWriter, r *http.Request) (*docs.Index, bool) {
	idx, err := s.content.GetOrLoad(r.Context())
	if err != nil {
		slog.Error("Failed to load content", logfields.Error(err))
		s.Error(w, http.StatusInternalServerError, "content unavailable")
		return nil, false
	}
	return idx, true
}

func (s *Server) handlePaths(w http.ResponseWriter, r *http.Request) {
	idx, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	if notModified(w, r, idx.Hash()) {
		return
	}
	s.Success(w, http.StatusOK, PathsResponse{Paths: docs.AllSlugs(idx)})
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	idx, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	doc, found := docs.ResolvePath(idx, chi.URLParam(r, "*"))
	if !found {
		s.recorder.IncResolution(resolutionInterface, metrics.ResultNotFound)
		s.Error(w, http.StatusNotFound, "document not found")
		return
	}
	s.recorder.IncResolution(resolutionInterface, metrics.ResultFound)

	if notModified(w, r, doc.Fingerprint) {
		return
	}

	meta := map[string]any(doc.Metadata)
	if meta == nil {
		meta = map[string]any{}
	}
	s.Success(w, http.StatusOK, DocumentResponse{
		Slug:        doc.Slug,
		Segments:    doc.Segments(),
		Title:       doc.Title,
		Metadata:    meta,
		Body:        doc.Body,
		Fingerprint: doc.Fingerprint,
	})
}

// notModified sets tag as the strong ETag and writes a 304 when the request
// already holds it.
func notModified(w http.ResponseWriter, r *http.Request, tag string) bool {
	etag := `"` + tag + `"`
	w.Header().Set("ETag", etag)
	if match := r.Header.Get("If-None-Match"); match != "" && etagMatches(match, etag) {
		w.WriteHeader(http.StatusNotModified)
		return true
	}
	return false
}

func etagMatches(header, etag string) bool {
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}
	return false
}

func (s *Server) handleNavigation(w http.ResponseWriter, r *http.Request) {
	idx, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	if notModified(w, r, idx.Hash()) {
		return
	}
	s.Success(w, http.StatusOK, nav.Build(idx))
}

func (s *Server) handlePager(w http.ResponseWriter, r *http.Request) {
	idx, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	doc, found := docs.ResolvePath(idx, chi.URLParam(r, "*"))
	if !found {
		s.Error(w, http.StatusNotFound, "document not found")
		return
	}
	s.Success(w, http.StatusOK, nav.Neighbors(nav.Build(idx), doc.Slug))
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.Error(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	if _, ok := s.snapshot(w, r); !ok {
		return
	}
	hits, err := s.search.Search(r.Context(), query, limit)
	switch {
	case errors.Is(err, search.ErrEmptyQuery):
		s.Error(w, http.StatusBadRequest, "query parameter q is required")
		return
	case errors.Is(err, search.ErrNotReady):
		s.Error(w, http.StatusServiceUnavailable, "search index not ready")
		return
	case err != nil:
		slog.Error("Search failed", logfields.Query(query), logfields.Error(err))
		s.Error(w, http.StatusInternalServerError, "search failed")
		return
	}
	s.Success(w, http.StatusOK, SearchResponse{Query: query, Hits: hits})
}

func (s *Server) handleRebuild(w http.ResponseWriter, r *http.Request) {
	idx, err := s.content.Rebuild(r.Context(), content.TriggerAPI)
	if err != nil {
		s.Error(w, http.StatusInternalServerError, "rebuild failed")
		return
	}
	s.Success(w, http.StatusOK, RebuildResponse{
		ID:        idx.ID(),
		Hash:      idx.Hash(),
		Documents: idx.Len(),
		LoadedAt:  idx.LoadedAt(),
	})
}
