// Package templates renders the editor's HTML as templ components.
//
// The .templ files are the source of truth; run `templ generate` after
// editing them to refresh the _templ.go output.
package templates

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/JonMunkholm/roster/internal/core"
)

// EditorParams is the data behind the editor page and its table fragment.
type EditorParams struct {
	SessionID string
	State     core.State
	Log       []string
}

func columnList() string {
	labels := make([]string, len(core.Fields))
	for i, f := range core.Fields {
		labels[i] = f.Label()
	}
	return strings.Join(labels, ", ")
}

func megabytes(n int64) string {
	return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
}

func exportPath(sessionID string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + "/export"
}
