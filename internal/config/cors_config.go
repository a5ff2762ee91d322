package config

import "strings"

type Cors struct{}

var _ CorsConfig = Cors{}

// AllowedOrigins is the ordered list of origins a callback result may be
// posted to. An empty list means "no restriction": any origin supplied at
// start time passes through unchanged.
type AllowedOrigins []string

func (a AllowedOrigins) IsAllowedOrigin(origin string) bool {
	for _, o := range a {
		if o == origin {
			return true
		}
	}
	return false
}

func (a AllowedOrigins) String() string {
	return strings.Join(a, ", ")
}

// ParseAllowedOrigins splits a comma-separated origin list, trimming
// whitespace and dropping empty entries.
func ParseAllowedOrigins(raw string) AllowedOrigins {
	var origins AllowedOrigins
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

func (Cors) GetAllowedTenantOrigins() AllowedOrigins {
	return ParseAllowedOrigins(GetEnv("ALLOWED_TENANT_ORIGINS", ""))
}
