package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/dgallion1/domrows/internal/convert"
	"github.com/dgallion1/domrows/internal/domrow"
	"github.com/dgallion1/domrows/internal/rowstore"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleListRowSets(w http.ResponseWriter, r *http.Request) {
	sets, err := s.store.List(r.Context())
	if err != nil {
		jsonError(w, "failed to list row sets: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"rowsets": sets})
}

func (s *Server) handleGetRowSet(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	rows, ok := s.loadRowSet(w, r, name)
	if !ok {
		return
	}
	out, contentType, err := convert.EncodeRows(rows, r.URL.Query().Get("format"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Row-Count", strconv.Itoa(len(rows)))
	w.Write(out)
}

func (s *Server) handleRowSetHTML(w http.ResponseWriter, r *http.Request) {
	mode, err := s.outputMode(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	rows, ok := s.loadRowSet(w, r, chi.URLParam(r, "name"))
	if !ok {
		return
	}
	out, err := s.conv.BuildRows(rows, mode)
	if err != nil {
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	writeHTML(w, out)
}

func (s *Server) handleDeleteRowSet(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := s.store.Delete(r.Context(), name); err != nil {
		if errors.Is(err, rowstore.ErrNotFound) {
			jsonError(w, err.Error(), http.StatusNotFound)
			return
		}
		jsonError(w, "failed to delete row set: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"deleted": name})
}

func (s *Server) loadRowSet(w http.ResponseWriter, r *http.Request, name string) ([]domrow.Row, bool) {
	rows, err := s.store.Load(r.Context(), name)
	if err != nil {
		if errors.Is(err, rowstore.ErrNotFound) {
			jsonError(w, err.Error(), http.StatusNotFound)
			return nil, false
		}
		jsonError(w, "failed to load row set: "+err.Error(), http.StatusInternalServerError)
		return nil, false
	}
	return rows, true
}
