package web

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/roster/internal/core"
	"github.com/JonMunkholm/roster/internal/session"
)

// maxActionBody caps JSON action bodies.
const maxActionBody = 64 << 10

// UpdateCellRequest is the body of POST /cells.
type UpdateCellRequest struct {
	ID    core.RecordID `json:"id"`
	Field string        `json:"field"`
	Value string        `json:"value"`
}

// SetPageRequest is the body of POST /page. Page is zero-based.
type SetPageRequest struct {
	Page int `json:"page"`
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxActionBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errInvalidBody, err)
	}
	return nil
}

func (s *Server) handleUpdateCell(w http.ResponseWriter, r *http.Request) {
	var req UpdateCellRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	field, ok := core.ParseField(req.Field)
	if !ok {
		s.respondError(w, r, fmt.Errorf("%w: %q", session.ErrUnknownField, req.Field))
		return
	}

	st, err := editorFromContext(r.Context()).UpdateCell(req.ID, field, req.Value)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondView(w, r, st, http.StatusOK)
}

func (s *Server) handleSetPage(w http.ResponseWriter, r *http.Request) {
	var req SetPageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	st, err := editorFromContext(r.Context()).SetPage(req.Page)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondView(w, r, st, http.StatusOK)
}

func (s *Server) handleToggleRow(w http.ResponseWriter, r *http.Request) {
	id := core.RecordID(chi.URLParam(r, "rowID"))
	st, err := editorFromContext(r.Context()).ToggleRow(id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondView(w, r, st, http.StatusOK)
}

func (s *Server) handleSelectPage(w http.ResponseWriter, r *http.Request) {
	s.respondView(w, r, editorFromContext(r.Context()).SelectPage(), http.StatusOK)
}

func (s *Server) handleDeselectAll(w http.ResponseWriter, r *http.Request) {
	s.respondView(w, r, editorFromContext(r.Context()).DeselectAll(), http.StatusOK)
}

// handleCommitRow adds one valid record to the commit sink.
func (s *Server) handleCommitRow(w http.ResponseWriter, r *http.Request) {
	ed := editorFromContext(r.Context())
	id := core.RecordID(chi.URLParam(r, "rowID"))
	if err := ed.Commit(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondView(w, r, ed.State(), http.StatusOK)
}

// handleCommitSelected adds every selected record and clears the selection.
func (s *Server) handleCommitSelected(w http.ResponseWriter, r *http.Request) {
	ed := editorFromContext(r.Context())
	n, err := ed.CommitSelected(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	view := newSessionView(chi.URLParam(r, "sessionID"), ed.State(), ed.Log())
	view.Committed = n
	writeJSON(w, http.StatusOK, view)
}
