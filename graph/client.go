// Package graph is a thin client for the slice of Meta's Graph API the
// embedded signup flow touches: the consent dialog URL, the code exchange and
// the business / phone-number listings. Responses are trusted as-is and errors
// are surfaced with the raw upstream body as the message.
package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/advistors/esu-bridge/internal/config"
	errs "github.com/advistors/esu-bridge/internal/errors"
)

// LinkScopes is the scope set requested by the JSON link endpoint.
var LinkScopes = []string{
	"business_management",
	"whatsapp_business_management",
	"whatsapp_business_messaging",
}

// PageScopes is the scope set requested by the page-based start route.
var PageScopes = []string{
	"public_profile",
	"business_management",
	"whatsapp_business_messaging",
}

// UpstreamError reports a non-2xx Graph API response. Its message is the raw
// response body so the failure text reaches the opener window unchanged.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return e.Body
}

func (e *UpstreamError) Is(target error) bool {
	return target == errs.ErrUpstreamCall
}

// Client calls the Graph API on behalf of the signup flow. All network calls
// take a context and run under a bounded timeout.
type Client struct {
	appID       string
	appSecret   string
	configID    string
	redirectURI string
	baseURL     string
	dialogURL   string

	http *http.Client
}

func NewClient(cfg config.MetaConfig) *Client {
	return &Client{
		appID:       cfg.GetAppID(),
		appSecret:   cfg.GetAppSecret(),
		configID:    cfg.GetLoginConfigID(),
		redirectURI: cfg.GetRedirectURI(),
		baseURL:     strings.TrimRight(cfg.GetGraphBaseURL(), "/"),
		dialogURL:   cfg.GetDialogURL(),
		http:        &http.Client{Timeout: 10 * time.Second},
	}
}

// DialogOptions tune the consent dialog URL per entry point.
type DialogOptions struct {
	Scopes        []string
	BusinessLogin bool
}

// DialogURL builds the Meta Business Login consent URL carrying the opaque
// state parameter.
func (c *Client) DialogURL(state string, opts DialogOptions) string {
	conf := &oauth2.Config{
		ClientID:    c.appID,
		RedirectURL: c.redirectURI,
		Scopes:      opts.Scopes,
		Endpoint:    oauth2.Endpoint{AuthURL: c.dialogURL},
	}

	authOpts := []oauth2.AuthCodeOption{
		oauth2.SetAuthURLParam("config_id", c.configID),
	}
	if opts.BusinessLogin {
		authOpts = append(authOpts, oauth2.SetAuthURLParam("business_login", "1"))
	}
	return conf.AuthCodeURL(state, authOpts...)
}

// ExchangeCode trades an authorization code for a user access token.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*TokenResponse, error) {
	q := url.Values{}
	q.Set("client_id", c.appID)
	q.Set("client_secret", c.appSecret)
	q.Set("redirect_uri", c.redirectURI)
	q.Set("code", code)

	var token TokenResponse
	if err := c.get(ctx, c.baseURL+"/oauth/access_token?"+q.Encode(), "", &token); err != nil {
		return nil, err
	}
	return &token, nil
}

// ListBusinesses returns the caller's businesses with the owned WABA edge
// expanded.
func (c *Client) ListBusinesses(ctx context.Context, accessToken string) ([]Business, error) {
	q := url.Values{}
	q.Set("fields", "id,name,owned_whatsapp_business_accounts{id,name}")

	var listing businessList
	if err := c.get(ctx, c.baseURL+"/me/businesses?"+q.Encode(), accessToken, &listing); err != nil {
		return nil, err
	}
	return listing.Data, nil
}

// ListPhoneNumbers returns the phone numbers registered under a WABA.
func (c *Client) ListPhoneNumbers(ctx context.Context, wabaID, accessToken string) ([]PhoneNumber, error) {
	q := url.Values{}
	q.Set("fields", "id,display_phone_number,verified_name,quality_rating,status")

	var listing phoneNumberList
	if err := c.get(ctx, c.baseURL+"/"+url.PathEscape(wabaID)+"/phone_numbers?"+q.Encode(), accessToken, &listing); err != nil {
		return nil, err
	}
	return listing.Data, nil
}

// get performs a GET against the Graph API, decoding a 2xx body into out and
// converting any other status into an UpstreamError carrying the raw body.
func (c *Client) get(ctx context.Context, rawURL, accessToken string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return errs.Wrapf(err, "building graph request")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errs.Wrapf(err, "reading graph response")
	}

	if resp.StatusCode/100 != 2 {
		return &UpstreamError{Status: resp.StatusCode, Body: string(body)}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding graph response: %w", err)
	}
	return nil
}
