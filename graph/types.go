package graph

// TokenResponse is the body returned by the access-token exchange.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
	ExpiresIn   int64  `json:"expires_in,omitempty"`
}

// Business is one entry of the /me/businesses listing, with the owned WABA
// edge expanded.
type Business struct {
	ID                            string    `json:"id"`
	Name                          string    `json:"name"`
	OwnedWhatsAppBusinessAccounts *WabaList `json:"owned_whatsapp_business_accounts,omitempty"`
}

// OwnedWabas returns the expanded owned-account entries, tolerating an absent
// edge.
func (b Business) OwnedWabas() []Waba {
	if b.OwnedWhatsAppBusinessAccounts == nil {
		return nil
	}
	return b.OwnedWhatsAppBusinessAccounts.Data
}

type WabaList struct {
	Data []Waba `json:"data"`
}

// Waba is a WhatsApp Business Account as reported by the Graph API.
type Waba struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type businessList struct {
	Data []Business `json:"data"`
}

// PhoneNumber is one entry of a WABA's phone_numbers listing.
type PhoneNumber struct {
	ID                 string `json:"id"`
	DisplayPhoneNumber string `json:"display_phone_number"`
	VerifiedName       string `json:"verified_name,omitempty"`
	QualityRating      string `json:"quality_rating,omitempty"`
	Status             string `json:"status,omitempty"`
}

type phoneNumberList struct {
	Data []PhoneNumber `json:"data"`
}
