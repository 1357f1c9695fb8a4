package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/roster/internal/core"
	"github.com/JonMunkholm/roster/internal/ingest"
	"github.com/JonMunkholm/roster/internal/logging"
	"github.com/JonMunkholm/roster/internal/session"
)

// multipartMemory is how much of an upload ParseMultipartForm keeps in memory.
const multipartMemory = 8 << 20

var (
	errNoFile      = errors.New("no file provided")
	errInvalidBody = errors.New("invalid request body")
)

// RecordView is a record as sent to clients, with its selection state.
type RecordView struct {
	core.Record
	Selected bool `json:"selected"`
}

// SessionView is the editor state for one page.
type SessionView struct {
	SessionID       string          `json:"session_id"`
	Page            int             `json:"page"`
	TotalPages      int             `json:"total_pages"`
	PageSize        int             `json:"page_size"`
	Records         []RecordView    `json:"records"`
	SelectedIDs     []core.RecordID `json:"selected_ids"`
	PageAllSelected bool            `json:"page_all_selected"`
	Stats           core.Stats      `json:"stats"`
	Log             []string        `json:"log"`
	Committed       int             `json:"committed,omitempty"`
}

func recordViews(st core.State, records []core.Record) []RecordView {
	out := make([]RecordView, len(records))
	for i, r := range records {
		out[i] = RecordView{Record: r, Selected: st.IsSelected(r.ID)}
	}
	return out
}

func newSessionView(id string, st core.State, log []string) SessionView {
	return SessionView{
		SessionID:       id,
		Page:            st.CurrentPage,
		TotalPages:      st.TotalPages(),
		PageSize:        core.PageSize,
		Records:         recordViews(st, st.PageRecords()),
		SelectedIDs:     st.SelectedIDs(),
		PageAllSelected: st.PageAllSelected(),
		Stats:           st.Stats(),
		Log:             log,
	}
}

// respondView writes the session view for the editor in the request context.
func (s *Server) respondView(w http.ResponseWriter, r *http.Request, st core.State, status int) {
	ed := editorFromContext(r.Context())
	writeJSON(w, status, newSessionView(chi.URLParam(r, "sessionID"), st, ed.Log()))
}

// loadInto parses the uploaded "file" field and loads it into ed. Parsing and
// revalidation run while holding a load slot.
func (s *Server) loadInto(w http.ResponseWriter, r *http.Request, ed *session.Editor) (core.State, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Editor.MaxFileSize)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return core.State{}, fmt.Errorf("file too large: %w", err)
		}
		return core.State{}, fmt.Errorf("%w: %v", errInvalidBody, err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return core.State{}, errNoFile
	}
	defer file.Close()

	if err := s.loads.Acquire(r.Context()); err != nil {
		return core.State{}, err
	}
	defer s.loads.Release()

	records, err := s.parser.Parse(file)
	if err != nil {
		return core.State{}, fmt.Errorf("load %s: %w", header.Filename, err)
	}

	st := ed.Load(records)
	logging.FromContext(r.Context()).Info("dataset loaded",
		"file", header.Filename,
		"records", len(records),
		"invalid", st.Stats().Invalid,
	)
	return st, nil
}

// handleCreateSession creates a session from an uploaded CSV.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	id, ed := s.sessions.Create()
	st, err := s.loadInto(w, r, ed)
	if err != nil {
		s.sessions.Delete(id)
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newSessionView(id, st, ed.Log()))
}

// handleLoad replaces the dataset of an existing session.
func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	st, err := s.loadInto(w, r, editorFromContext(r.Context()))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondView(w, r, st, http.StatusOK)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	s.respondView(w, r, editorFromContext(r.Context()).State(), http.StatusOK)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	s.sessions.Delete(chi.URLParam(r, "sessionID"))
	w.WriteHeader(http.StatusNoContent)
}

// handleListRecords returns every record with its errors.
func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	st := editorFromContext(r.Context()).State()
	writeJSON(w, http.StatusOK, map[string]any{
		"records": recordViews(st, st.Records),
		"stats":   st.Stats(),
	})
}

// handleExport downloads the current records as CSV.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	st := editorFromContext(r.Context()).State()

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="roster-export.csv"`)
	if err := ingest.Export(w, st.Records); err != nil {
		logging.FromContext(r.Context()).Error("export failed", "error", err)
	}
}
