package web

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/roster/internal/web/templates"
)

// parsePageParam reads the 1-based ?page= parameter as a zero-based page.
// It returns -1 when the parameter is absent or malformed.
func parsePageParam(r *http.Request) int {
	val := r.URL.Query().Get("page")
	if val == "" {
		return -1
	}
	p, err := strconv.Atoi(val)
	if err != nil || p < 1 {
		return -1
	}
	return p - 1
}

func (s *Server) handleLanding(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	templates.LandingPage(s.cfg.Editor.MaxFileSize).Render(r.Context(), w)
}

// handleCreateFromForm backs the landing page upload form and redirects to
// the new editor.
func (s *Server) handleCreateFromForm(w http.ResponseWriter, r *http.Request) {
	id, ed := s.sessions.Create()
	if _, err := s.loadInto(w, r, ed); err != nil {
		s.sessions.Delete(id)
		s.respondError(w, r, err)
		return
	}
	http.Redirect(w, r, "/editor/"+id, http.StatusSeeOther)
}

func (s *Server) editorParams(r *http.Request) (templates.EditorParams, error) {
	ed := editorFromContext(r.Context())
	st := ed.State()
	if page := parsePageParam(r); page >= 0 && page != st.CurrentPage {
		var err error
		if st, err = ed.SetPage(page); err != nil {
			return templates.EditorParams{}, err
		}
	}
	return templates.EditorParams{
		SessionID: chi.URLParam(r, "sessionID"),
		State:     st,
		Log:       ed.Log(),
	}, nil
}

func (s *Server) handleEditorPage(w http.ResponseWriter, r *http.Request) {
	params, err := s.editorParams(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	templates.EditorPage(params).Render(r.Context(), w)
}

// handleEditorTable renders the table fragment the editor page swaps in
// after each action.
func (s *Server) handleEditorTable(w http.ResponseWriter, r *http.Request) {
	params, err := s.editorParams(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	templates.EditorTable(params).Render(r.Context(), w)
}
