package config

import "strings"

// MetaConfig exposes the Graph API application settings needed to drive the
// embedded signup flow. All values come from the environment; the default
// business/WABA ids are an optional fallback for review and test accounts that
// have no writable business relationship yet.
type MetaConfig interface {
	GetAppID() string
	GetAppSecret() string
	GetLoginConfigID() string
	GetRedirectURI() string
	GetDefaultBusinessID() string
	GetDefaultWabaID() string
	GetWebhookVerifyToken() string
	GetGraphBaseURL() string
	GetDialogURL() string
}

type Meta struct{}

var _ MetaConfig = Meta{}

func (Meta) GetAppID() string {
	return strings.TrimSpace(GetEnv("FB_APP_ID", ""))
}

func (Meta) GetAppSecret() string {
	return strings.TrimSpace(GetEnv("FB_APP_SECRET", ""))
}

func (Meta) GetLoginConfigID() string {
	return strings.TrimSpace(GetEnv("FB_LOGIN_BUSINESS_CONFIG_ID", ""))
}

func (Meta) GetRedirectURI() string {
	return strings.TrimSpace(GetEnv("ESU_REDIRECT_URI", ""))
}

func (Meta) GetDefaultBusinessID() string {
	return GetEnv("FB_DEFAULT_BUSINESS_ID", "")
}

func (Meta) GetDefaultWabaID() string {
	return GetEnv("FB_DEFAULT_WABA_ID", "")
}

func (Meta) GetWebhookVerifyToken() string {
	return GetEnv("WA_VERIFY_TOKEN", "")
}

func (Meta) GetGraphBaseURL() string {
	return GetEnv("GRAPH_BASE_URL", "https://graph.facebook.com/v20.0")
}

func (Meta) GetDialogURL() string {
	return GetEnv("FB_DIALOG_URL", "https://www.facebook.com/v20.0/dialog/oauth")
}
