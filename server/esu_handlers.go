package server

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/advistors/esu-bridge/graph"
	errs "github.com/advistors/esu-bridge/internal/errors"
	"github.com/advistors/esu-bridge/relay"
	"github.com/advistors/esu-bridge/state"
)

const (
	contentTypeHTML = "text/html; charset=utf-8"
	contentTypeJSON = "application/json; charset=utf-8"
)

// Error strings relayed to the opener window. These are part of the message
// contract with tenant frontends; do not rename.
const (
	errMissingCodeOrState = "missing_code_or_state"
	errBadState           = "bad_state"
	errNoWabaFound        = "no_waba_found_for_user"
)

const missingConfigError = "Missing FB_APP_ID / FB_LOGIN_BUSINESS_CONFIG_ID / ESU_REDIRECT_URI"

// signedDialogState builds and signs a fresh state token from the start/link
// query parameters.
func (s *Server) signedDialogState(r *http.Request) (string, error) {
	tenantID := r.URL.Query().Get("tenant")
	returnOrigin := r.URL.Query().Get("origin")
	return s.codec.Sign(state.NewToken(tenantID, returnOrigin))
}

// dialogError returns ErrMissingConfiguration when any value required to
// build a consent URL is absent.
func (s *Server) dialogError() error {
	if s.config.GetAppID() == "" || s.config.GetLoginConfigID() == "" || s.config.GetRedirectURI() == "" {
		return errs.Wrapf(errs.ErrMissingConfiguration, "FB_APP_ID / FB_LOGIN_BUSINESS_CONFIG_ID / ESU_REDIRECT_URI")
	}
	return nil
}

// ESUStartHandler signs a state token and redirects the browser straight to
// the Meta consent dialog.
func (s *Server) ESUStartHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.dialogError(); err != nil {
			log.Err(err).Msg("Consent dialog is not configured")
			writeJSONError(w, missingConfigError, http.StatusInternalServerError)
			return
		}

		opaque, err := s.signedDialogState(r)
		if err != nil {
			log.Err(err).Msg("Failed to sign state token")
			writeJSONError(w, "failed to sign state", http.StatusInternalServerError)
			return
		}

		http.Redirect(w, r, s.dialog.DialogURL(opaque, graph.DialogOptions{}), http.StatusFound)
	}
}

// ESULinkHandler returns the consent dialog URL as JSON for callers that open
// the popup themselves.
func (s *Server) ESULinkHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.dialogError(); err != nil {
			log.Err(err).Msg("Consent dialog is not configured")
			writeJSONError(w, missingConfigError, http.StatusInternalServerError)
			return
		}

		opaque, err := s.signedDialogState(r)
		if err != nil {
			log.Err(err).Msg("Failed to sign state token")
			writeJSONError(w, "failed to sign state", http.StatusInternalServerError)
			return
		}

		url := s.dialog.DialogURL(opaque, graph.DialogOptions{Scopes: graph.LinkScopes})
		writeJSON(w, map[string]string{"url": url})
	}
}

// ESUCallbackHandler receives the provider redirect and always answers with a
// relay page: the consumer is a popup expecting a postMessage, never a JSON
// error. Until the state verifies, results are broadcast to the wildcard
// origin; afterwards the decoded return origin targets every outcome.
func (s *Server) ESUCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		code := q.Get("code")
		opaque := q.Get("state")
		providerError := q.Get("error")

		// Error directly from the Meta UI; state not yet trusted
		if providerError != "" {
			s.sendRelayPage(w, relay.WildcardOrigin, relay.Failed(providerError))
			return
		}

		if code == "" || opaque == "" {
			s.sendRelayPage(w, relay.WildcardOrigin, relay.Failed(errMissingCodeOrState))
			return
		}

		token, err := s.codec.Verify(opaque)
		if err != nil {
			log.Err(err).Str("state", opaque).Msg("State verification failed")
			s.sendRelayPage(w, relay.WildcardOrigin, relay.Failed(errBadState))
			return
		}
		origin := token.ReturnOrigin

		data, err := s.signup.Connect(r.Context(), code, token)
		if err != nil {
			if errs.Is(err, errs.ErrNoAccountFound) {
				s.sendRelayPage(w, origin, relay.Failed(errNoWabaFound))
				return
			}
			s.sendRelayPage(w, origin, relay.Failed(err.Error()))
			return
		}

		s.sendRelayPage(w, origin, relay.Connected(*data))
	}
}

func (s *Server) sendRelayPage(w http.ResponseWriter, targetOrigin string, result relay.ConnectionResult) {
	page, err := relay.Page(targetOrigin, result, s.allowList)
	if err != nil {
		log.Err(err).Msg("Failed to render relay page")
		http.Error(w, "failed to render result page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentTypeHTML)
	_, _ = w.Write([]byte(page))
}

func writeJSON(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	_ = json.NewEncoder(w).Encode(body)
}

func writeJSONError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
