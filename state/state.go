// Package state produces and verifies the tamper-evident OAuth state parameter
// that carries tenant identity and a return origin across the redirect to the
// Meta consent dialog and back. The provider round-trips the value verbatim, so
// the HMAC signature is the only integrity guarantee; nothing is stored
// server-side.
package state

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	errs "github.com/advistors/esu-bridge/internal/errors"
)

// LegacyNonce is the nonce reported for tokens recovered from the unsigned
// legacy format.
const LegacyNonce = "legacy"

// DefaultTenantID is used when a state value carries no tenant binding.
const DefaultTenantID = "default"

// Token is the payload carried inside the state parameter. Ts and Nonce are
// recorded for uniqueness and debugging; neither is validated on the way back
// (no expiry window, no replay check).
type Token struct {
	TenantID     string `json:"tenantId"`
	ReturnOrigin string `json:"returnOrigin"`
	Ts           int64  `json:"ts"`
	Nonce        string `json:"nonce"`
}

// envelope is the signed wire shape: the serialized token plus a hex HMAC.
type envelope struct {
	Raw string `json:"raw"`
	Sig string `json:"sig"`
}

// NewToken builds a token for a fresh signup flow with a millisecond timestamp
// and a random nonce.
func NewToken(tenantID, returnOrigin string) Token {
	if tenantID == "" {
		tenantID = DefaultTenantID
	}
	return Token{
		TenantID:     tenantID,
		ReturnOrigin: returnOrigin,
		Ts:           time.Now().UnixMilli(),
		Nonce:        uuid.New().String(),
	}
}

// Codec signs and verifies state tokens with a process-wide secret.
type Codec struct {
	secret []byte
}

func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

// Sign serializes the token, signs it with HMAC-SHA256 and wraps the result as
// a base64url envelope. The output contains no characters that need URL
// escaping, so it survives the provider round trip unmodified.
func (c *Codec) Sign(token Token) (string, error) {
	raw, err := json.Marshal(token)
	if err != nil {
		return "", errs.Wrapf(err, "serializing state token")
	}

	env := envelope{
		Raw: string(raw),
		Sig: c.signature(string(raw)),
	}

	encoded, err := json.Marshal(env)
	if err != nil {
		return "", errs.Wrapf(err, "serializing state envelope")
	}
	return base64.RawURLEncoding.EncodeToString(encoded), nil
}

// Verify decodes an opaque state value back into a Token. Two wire shapes are
// accepted, checked in order:
//
//  1. Signed envelope {raw, sig}: the signature is recomputed and compared in
//     constant time; any mismatch fails with ErrSignatureMismatch.
//  2. Legacy unsigned JSON (e.g. {"origin": "..."}), kept alive so links
//     issued by the page-based start route keep working. This path accepts
//     unauthenticated data and MUST NOT be used to authorize anything
//     privileged; it only preserves the postMessage return origin.
//
// Every decode or parse failure collapses to ErrBadState; verification never
// fails open.
func (c *Codec) Verify(opaque string) (Token, error) {
	decoded, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(opaque, "="))
	if err != nil {
		return Token{}, errs.Wrapf(errs.ErrBadState, "state is not base64url")
	}

	var parsed any
	if err := json.Unmarshal(decoded, &parsed); err != nil {
		return Token{}, errs.Wrapf(errs.ErrBadState, "state is not JSON")
	}

	if obj, ok := parsed.(map[string]any); ok {
		raw, rawOK := obj["raw"].(string)
		sig, sigOK := obj["sig"].(string)
		if rawOK && sigOK {
			return c.verifySigned(raw, sig)
		}
		return legacyToken(obj), nil
	}

	// Valid JSON that is neither an envelope nor an object: treated as an
	// empty legacy payload, matching the historic behaviour.
	return legacyToken(nil), nil
}

func (c *Codec) verifySigned(raw, sig string) (Token, error) {
	expected := c.signature(raw)
	if !hmac.Equal([]byte(sig), []byte(expected)) {
		return Token{}, errs.ErrSignatureMismatch
	}

	var token Token
	if err := json.Unmarshal([]byte(raw), &token); err != nil {
		return Token{}, errs.Wrapf(errs.ErrBadState, "signed payload is not a state token")
	}
	return token, nil
}

func (c *Codec) signature(raw string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(raw))
	return hex.EncodeToString(mac.Sum(nil))
}

// legacyToken extracts a token from the unsigned legacy shape, falling back to
// defaults field by field.
func legacyToken(obj map[string]any) Token {
	token := Token{
		TenantID: DefaultTenantID,
		Ts:       time.Now().UnixMilli(),
		Nonce:    LegacyNonce,
	}
	if obj == nil {
		return token
	}

	if v, ok := obj["tenantId"].(string); ok && v != "" {
		token.TenantID = v
	} else if v, ok := obj["tenant_id"].(string); ok && v != "" {
		token.TenantID = v
	}

	if v, ok := obj["returnOrigin"].(string); ok && v != "" {
		token.ReturnOrigin = v
	} else if v, ok := obj["origin"].(string); ok && v != "" {
		token.ReturnOrigin = v
	}

	if v, ok := obj["ts"].(float64); ok {
		token.Ts = int64(v)
	}

	if v, ok := obj["nonce"].(string); ok && v != "" {
		token.Nonce = v
	}

	return token
}

// EncodeLegacy produces the unsigned {"origin": ...} state emitted by the
// page-based start route.
func EncodeLegacy(returnOrigin string) string {
	raw, _ := json.Marshal(map[string]string{"origin": returnOrigin})
	return base64.RawURLEncoding.EncodeToString(raw)
}
