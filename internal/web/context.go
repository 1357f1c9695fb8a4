package web

import (
	"context"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/roster/internal/session"
)

type ctxKey int

const editorKey ctxKey = iota

// withEditor resolves the {sessionID} URL parameter and stores the editor in
// the request context. Unknown sessions end the request with 404.
func (s *Server) withEditor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ed, err := s.sessions.Get(chi.URLParam(r, "sessionID"))
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), editorKey, ed)))
	})
}

// editorFromContext returns the editor stored by withEditor.
func editorFromContext(ctx context.Context) *session.Editor {
	ed, _ := ctx.Value(editorKey).(*session.Editor)
	return ed
}

// clientIP returns the host part of RemoteAddr.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
