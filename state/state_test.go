package state_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	errs "github.com/advistors/esu-bridge/internal/errors"
	"github.com/advistors/esu-bridge/state"
)

const testSecret = "test-signing-secret"

func TestCodec_RoundTrip(t *testing.T) {
	codec := state.NewCodec(testSecret)

	token := state.Token{
		TenantID:     "tenant-1",
		ReturnOrigin: "https://tenant.example",
		Ts:           1700000000000,
		Nonce:        "8e1f2c44-1111-2222-3333-444455556666",
	}

	opaque, err := codec.Sign(token)
	require.NoError(t, err)

	decoded, err := codec.Verify(opaque)
	require.NoError(t, err)
	require.Equal(t, token, decoded)
}

func TestCodec_SignProducesURLSafeOutput(t *testing.T) {
	codec := state.NewCodec(testSecret)

	opaque, err := codec.Sign(state.NewToken("tenant-1", "https://tenant.example"))
	require.NoError(t, err)
	require.NotContains(t, opaque, "+")
	require.NotContains(t, opaque, "/")
	require.NotContains(t, opaque, "=")
}

func TestCodec_TamperDetection(t *testing.T) {
	codec := state.NewCodec(testSecret)

	opaque, err := codec.Sign(state.Token{
		TenantID:     "tenant-1",
		ReturnOrigin: "https://tenant.example",
		Ts:           1700000000000,
		Nonce:        "nonce-1",
	})
	require.NoError(t, err)

	decoded, err := base64.RawURLEncoding.DecodeString(opaque)
	require.NoError(t, err)

	var env struct {
		Raw string `json:"raw"`
		Sig string `json:"sig"`
	}
	require.NoError(t, json.Unmarshal(decoded, &env))

	reencode := func(raw, sig string) string {
		b, err := json.Marshal(map[string]string{"raw": raw, "sig": sig})
		require.NoError(t, err)
		return base64.RawURLEncoding.EncodeToString(b)
	}

	t.Run("modified payload", func(t *testing.T) {
		tampered := []byte(env.Raw)
		tampered[len(tampered)/2] ^= 1
		_, err := codec.Verify(reencode(string(tampered), env.Sig))
		require.ErrorIs(t, err, errs.ErrSignatureMismatch)
	})

	t.Run("modified signature", func(t *testing.T) {
		sig := []byte(env.Sig)
		if sig[0] == 'a' {
			sig[0] = 'b'
		} else {
			sig[0] = 'a'
		}
		_, err := codec.Verify(reencode(env.Raw, string(sig)))
		require.ErrorIs(t, err, errs.ErrSignatureMismatch)
	})

	t.Run("signed with different secret", func(t *testing.T) {
		other := state.NewCodec("another-secret")
		opaque, err := other.Sign(state.Token{TenantID: "tenant-1"})
		require.NoError(t, err)
		_, err = codec.Verify(opaque)
		require.ErrorIs(t, err, errs.ErrSignatureMismatch)
		require.ErrorIs(t, err, errs.ErrBadState)
	})
}

func TestCodec_LegacyAcceptance(t *testing.T) {
	codec := state.NewCodec(testSecret)

	encode := func(v any) string {
		b, err := json.Marshal(v)
		require.NoError(t, err)
		return base64.RawURLEncoding.EncodeToString(b)
	}

	t.Run("origin only", func(t *testing.T) {
		token, err := codec.Verify(encode(map[string]string{"origin": "https://x.test"}))
		require.NoError(t, err)
		require.Equal(t, "https://x.test", token.ReturnOrigin)
		require.Equal(t, state.DefaultTenantID, token.TenantID)
		require.Equal(t, state.LegacyNonce, token.Nonce)
		require.NotZero(t, token.Ts)
	})

	t.Run("snake case tenant", func(t *testing.T) {
		token, err := codec.Verify(encode(map[string]any{
			"tenant_id": "acme",
			"origin":    "https://acme.test",
			"ts":        1700000000000,
		}))
		require.NoError(t, err)
		require.Equal(t, "acme", token.TenantID)
		require.Equal(t, "https://acme.test", token.ReturnOrigin)
		require.Equal(t, int64(1700000000000), token.Ts)
	})

	t.Run("camel case fields win over fallbacks", func(t *testing.T) {
		token, err := codec.Verify(encode(map[string]any{
			"tenantId":     "camel",
			"tenant_id":    "snake",
			"returnOrigin": "https://camel.test",
			"origin":       "https://snake.test",
		}))
		require.NoError(t, err)
		require.Equal(t, "camel", token.TenantID)
		require.Equal(t, "https://camel.test", token.ReturnOrigin)
	})

	t.Run("non object JSON degrades to defaults", func(t *testing.T) {
		token, err := codec.Verify(encode(5))
		require.NoError(t, err)
		require.Equal(t, state.DefaultTenantID, token.TenantID)
		require.Empty(t, token.ReturnOrigin)
	})

	t.Run("page route state round trip", func(t *testing.T) {
		token, err := codec.Verify(state.EncodeLegacy("https://lms.example"))
		require.NoError(t, err)
		require.Equal(t, "https://lms.example", token.ReturnOrigin)
		require.Equal(t, state.DefaultTenantID, token.TenantID)
	})
}

func TestCodec_MalformedState(t *testing.T) {
	codec := state.NewCodec(testSecret)

	t.Run("not base64url", func(t *testing.T) {
		_, err := codec.Verify("!!!not-base64!!!")
		require.ErrorIs(t, err, errs.ErrBadState)
	})

	t.Run("base64 of invalid JSON", func(t *testing.T) {
		opaque := base64.RawURLEncoding.EncodeToString([]byte("{not json"))
		_, err := codec.Verify(opaque)
		require.ErrorIs(t, err, errs.ErrBadState)
	})

	t.Run("correctly signed non-token payload", func(t *testing.T) {
		// The signature verifies but the inner payload is not a token.
		raw := "[1,2,3]"
		mac := hmac.New(sha256.New, []byte(testSecret))
		mac.Write([]byte(raw))
		env := map[string]string{"raw": raw, "sig": hex.EncodeToString(mac.Sum(nil))}

		b, err := json.Marshal(env)
		require.NoError(t, err)
		_, err = codec.Verify(base64.RawURLEncoding.EncodeToString(b))
		require.ErrorIs(t, err, errs.ErrBadState)
		require.NotErrorIs(t, err, errs.ErrSignatureMismatch)
	})

	t.Run("padded base64 still accepted", func(t *testing.T) {
		raw, err := json.Marshal(map[string]string{"origin": "https://x.test"})
		require.NoError(t, err)
		opaque := base64.URLEncoding.EncodeToString(raw) // padded variant
		token, err := codec.Verify(opaque)
		require.NoError(t, err)
		require.Equal(t, "https://x.test", token.ReturnOrigin)
	})
}

func TestNewToken_Defaults(t *testing.T) {
	token := state.NewToken("", "")
	require.Equal(t, state.DefaultTenantID, token.TenantID)
	require.Empty(t, token.ReturnOrigin)
	require.NotZero(t, token.Ts)
	require.NotEmpty(t, token.Nonce)

	other := state.NewToken("", "")
	require.NotEqual(t, token.Nonce, other.Nonce)
}
