package config

// DevStateSecret is the hardcoded development fallback for the state signing
// secret. Deployments must set ESU_STATE_SECRET; the server logs a loud warning
// at startup when the fallback is active (see cmd/server).
const DevStateSecret = "dev-secret"

type SecurityConfig interface {
	GetStateSecret() string
	// IsStateSecretDefaulted reports whether the dev fallback secret is in use
	IsStateSecretDefaulted() bool
}

type Security struct{}

var _ SecurityConfig = Security{}

func (Security) GetStateSecret() string {
	return GetEnv("ESU_STATE_SECRET", DevStateSecret)
}

func (s Security) IsStateSecretDefaulted() bool {
	return s.GetStateSecret() == DevStateSecret
}
