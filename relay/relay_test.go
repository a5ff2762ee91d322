package relay_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/advistors/esu-bridge/internal/config"
	"github.com/advistors/esu-bridge/relay"
)

func TestResolveOrigin(t *testing.T) {
	t.Run("empty allow list passes any origin through", func(t *testing.T) {
		require.Equal(t, "https://anything.test", relay.ResolveOrigin("https://anything.test", nil))
	})

	t.Run("listed origin passes through", func(t *testing.T) {
		allowList := config.AllowedOrigins{"https://a.test", "https://b.test"}
		require.Equal(t, "https://a.test", relay.ResolveOrigin("https://a.test", allowList))
	})

	t.Run("unlisted origin downgrades to wildcard", func(t *testing.T) {
		allowList := config.AllowedOrigins{"https://a.test"}
		require.Equal(t, relay.WildcardOrigin, relay.ResolveOrigin("https://evil.test", allowList))
	})

	t.Run("empty origin is the wildcard", func(t *testing.T) {
		require.Equal(t, relay.WildcardOrigin, relay.ResolveOrigin("", nil))
		require.Equal(t, relay.WildcardOrigin, relay.ResolveOrigin("", config.AllowedOrigins{"https://a.test"}))
	})
}

func TestPage(t *testing.T) {
	t.Run("success payload addressed to return origin", func(t *testing.T) {
		result := relay.Connected(relay.ConnectionData{
			TenantID:    "tenant-1",
			BusinessID:  "B1",
			WabaID:      "W1",
			AccessToken: "T",
		})

		page, err := relay.Page("https://tenant.example", result, nil)
		require.NoError(t, err)
		require.Contains(t, page, `"type":"wa:connected"`)
		require.Contains(t, page, `"waba_id":"W1"`)
		require.Contains(t, page, `"https://tenant.example"`)
		require.Contains(t, page, "window.opener")
		require.Contains(t, page, "window.close()")
		require.Contains(t, page, "Done.")
	})

	t.Run("error payload", func(t *testing.T) {
		page, err := relay.Page("*", relay.Failed("no_waba_found_for_user"), nil)
		require.NoError(t, err)
		require.Contains(t, page, `"error":"no_waba_found_for_user"`)
		require.NotContains(t, page, `"data"`)
	})

	t.Run("downgrades unlisted origin", func(t *testing.T) {
		allowList := config.AllowedOrigins{"https://a.test"}
		page, err := relay.Page("https://evil.test", relay.Failed("denied"), allowList)
		require.NoError(t, err)
		require.NotContains(t, page, "evil.test")
		require.Contains(t, page, `"*"`)
	})

	t.Run("escapes attacker influenced error text", func(t *testing.T) {
		hostile := `</script><script>alert(1)</script>`
		page, err := relay.Page("*", relay.Failed(hostile), nil)
		require.NoError(t, err)

		// The closing script tag of the template itself is the only one
		// in the document; the payload is embedded fully escaped.
		require.Equal(t, 1, strings.Count(page, "</script>"))
		require.Contains(t, page, `</script>`)
	})

	t.Run("escapes hostile origin", func(t *testing.T) {
		hostile := `");window.opener.postMessage(secret,"*`
		page, err := relay.Page(hostile, relay.Failed("x"), nil)
		require.NoError(t, err)
		require.Equal(t, 1, strings.Count(page, "</script>"))
		// The quotes stay escaped: the whole origin remains one string
		// literal inside the script.
		require.Contains(t, page, `"\");window.opener.postMessage(secret,\"*"`)
	})
}
