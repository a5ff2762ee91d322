package server

import (
	"net/http"

	"github.com/advistors/esu-bridge/graph"
	errs "github.com/advistors/esu-bridge/internal/errors"
	"github.com/advistors/esu-bridge/state"
)

const setupIncompletePage = `<!doctype html><html><body style="display:grid;place-items:center;height:100vh;font-family:system-ui">
<div>
<h1>Setup incomplete</h1>
<p>Missing FB_APP_ID / FB_LOGIN_BUSINESS_CONFIG_ID / ESU_REDIRECT_URI on the ESU server.</p>
</div>
</body></html>`

// ESUStartPageHandler is the page-based variant of the start endpoint: it is
// navigated to directly (no opener fetch) and redirects straight to Meta
// Business Login. It predates the signed-state endpoints and still emits the
// unsigned {"origin": ...} state, which is why Verify keeps its legacy path.
func (s *Server) ESUStartPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.dialogError(); errs.Is(err, errs.ErrMissingConfiguration) {
			w.Header().Set("Content-Type", contentTypeHTML)
			_, _ = w.Write([]byte(setupIncompletePage))
			return
		}

		opaque := state.EncodeLegacy(r.URL.Query().Get("origin"))
		url := s.dialog.DialogURL(opaque, graph.DialogOptions{
			Scopes:        graph.PageScopes,
			BusinessLogin: true,
		})
		http.Redirect(w, r, url, http.StatusFound)
	}
}
