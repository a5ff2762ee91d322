package server

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// WebhookVerifyHandler answers Meta's subscription verification: echo the
// challenge when the verify token matches, 403 otherwise.
func (s *Server) WebhookVerifyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		expected := s.config.GetWebhookVerifyToken()
		if expected == "" || q.Get("hub.verify_token") != expected {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		challenge := q.Get("hub.challenge")
		if challenge == "" {
			challenge = "OK"
		}
		_, _ = w.Write([]byte(challenge))
	}
}

// WebhookReceiveHandler accepts webhook deliveries. Events are logged and
// acknowledged; there is no schema validation or event processing here.
func (s *Server) WebhookReceiveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			body = map[string]any{}
		}
		log.Info().Interface("body", body).Msg("WA webhook")

		writeJSON(w, map[string]bool{"ok": true})
	}
}
