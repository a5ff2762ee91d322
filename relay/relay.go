// Package relay delivers a connection result to the window that opened the
// signup popup. The callback page is one-shot: it posts the result to
// window.opener restricted to a resolved origin, then closes itself. No
// server-side session is involved.
package relay

import (
	"encoding/json"
	"fmt"

	"github.com/advistors/esu-bridge/internal/config"
	errs "github.com/advistors/esu-bridge/internal/errors"
)

// MessageType tags every result posted to the opener window.
const MessageType = "wa:connected"

// WildcardOrigin broadcasts to any origin. Used whenever the return origin is
// unknown or not trusted.
const WildcardOrigin = "*"

// ConnectionResult is the payload posted to the opener. Exactly one of Error
// or Data is set.
type ConnectionResult struct {
	Type  string          `json:"type"`
	Error string          `json:"error,omitempty"`
	Data  *ConnectionData `json:"data,omitempty"`
}

// ConnectionData carries the identifiers discovered for a completed signup.
type ConnectionData struct {
	TenantID      string `json:"tenant_id"`
	BusinessID    string `json:"business_id"`
	WabaID        string `json:"waba_id"`
	PhoneNumberID string `json:"phone_number_id"`
	DisplayName   string `json:"display_name"`
	Quality       string `json:"quality"`
	AccessToken   string `json:"access_token"`
}

// Connected builds a success result.
func Connected(data ConnectionData) ConnectionResult {
	return ConnectionResult{Type: MessageType, Data: &data}
}

// Failed builds an error result.
func Failed(message string) ConnectionResult {
	return ConnectionResult{Type: MessageType, Error: message}
}

// ResolveOrigin applies the postMessage origin policy: an empty allow list
// means "no restriction" and the requested origin passes through unchanged; a
// non-empty allow list downgrades any origin not on it to the wildcard. An
// empty or wildcard target is always the wildcard.
func ResolveOrigin(targetOrigin string, allowList config.AllowedOrigins) string {
	if targetOrigin == "" {
		return WildcardOrigin
	}
	if len(allowList) == 0 || allowList.IsAllowedOrigin(targetOrigin) {
		return targetOrigin
	}
	return WildcardOrigin
}

const pageTemplate = `<!doctype html><html><body>
<script>
  try {
    window.opener && window.opener.postMessage(%s, %s);
  } catch (e) {}
  window.close();
</script>
Done.
</body></html>`

// Page renders the self-contained relay document. Payload and origin are
// embedded as JSON literals, never by raw interpolation: encoding/json escapes
// <, > and &, so attacker-influenced fields (an upstream error body, say)
// cannot break out of the script. The document degrades to displaying "Done."
// when there is no opener, and swallows postMessage failures before closing.
func Page(targetOrigin string, payload ConnectionResult, allowList config.AllowedOrigins) (string, error) {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return "", errs.Wrapf(err, "serializing relay payload")
	}
	originJSON, err := json.Marshal(ResolveOrigin(targetOrigin, allowList))
	if err != nil {
		return "", errs.Wrapf(err, "serializing relay origin")
	}
	return fmt.Sprintf(pageTemplate, payloadJSON, originJSON), nil
}
