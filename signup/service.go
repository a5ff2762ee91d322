// Package signup orchestrates the callback half of the embedded signup flow:
// code exchange, business and WABA discovery, and the best-effort phone-number
// lookup. The flow is a straight line with no retries; a failed external call
// ends it and the failure is reported to the opener.
package signup

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/advistors/esu-bridge/graph"
	"github.com/advistors/esu-bridge/internal/config"
	errs "github.com/advistors/esu-bridge/internal/errors"
	"github.com/advistors/esu-bridge/relay"
	"github.com/advistors/esu-bridge/state"
)

// GraphAPI is the slice of the Graph API client the service depends on.
type GraphAPI interface {
	ExchangeCode(ctx context.Context, code string) (*graph.TokenResponse, error)
	ListBusinesses(ctx context.Context, accessToken string) ([]graph.Business, error)
	ListPhoneNumbers(ctx context.Context, wabaID, accessToken string) ([]graph.PhoneNumber, error)
}

// Service resolves an authorization code into the connection data relayed to
// the tenant window.
type Service struct {
	api               GraphAPI
	defaultBusinessID string
	defaultWabaID     string
}

func NewService(api GraphAPI, cfg config.MetaConfig) *Service {
	return &Service{
		api:               api,
		defaultBusinessID: cfg.GetDefaultBusinessID(),
		defaultWabaID:     cfg.GetDefaultWabaID(),
	}
}

// Connect exchanges the code and discovers the business, WABA and first phone
// number for the signing-up account. Discovery falls back to the statically
// configured business/WABA ids when the listing yields none; if both discovery
// and fallback come up empty it fails with ErrNoAccountFound. The phone-number
// lookup is the one step whose failure is swallowed: it is logged and the
// result ships with empty phone fields.
func (s *Service) Connect(ctx context.Context, code string, token state.Token) (*relay.ConnectionData, error) {
	exchanged, err := s.api.ExchangeCode(ctx, code)
	if err != nil {
		return nil, err
	}

	businessID, wabaID, err := s.resolveAccount(ctx, exchanged.AccessToken)
	if err != nil {
		return nil, err
	}

	data := &relay.ConnectionData{
		TenantID:    token.TenantID,
		BusinessID:  businessID,
		WabaID:      wabaID,
		AccessToken: exchanged.AccessToken,
	}

	numbers, err := s.api.ListPhoneNumbers(ctx, wabaID, exchanged.AccessToken)
	if err != nil {
		log.Warn().Err(err).Str("waba_id", wabaID).Msg("Failed to fetch phone numbers for WABA")
		return data, nil
	}
	if len(numbers) > 0 {
		n := numbers[0]
		data.PhoneNumberID = n.ID
		data.DisplayName = n.VerifiedName
		if data.DisplayName == "" {
			data.DisplayName = n.DisplayPhoneNumber
		}
		data.Quality = n.QualityRating
	}
	return data, nil
}

// resolveAccount picks the first business with a non-empty owned-WABA list,
// falling back to the very first business entry, then to the configured
// default ids.
func (s *Service) resolveAccount(ctx context.Context, accessToken string) (businessID, wabaID string, err error) {
	businesses, err := s.api.ListBusinesses(ctx, accessToken)
	if err != nil {
		return "", "", err
	}

	var chosen *graph.Business
	for i := range businesses {
		if len(businesses[i].OwnedWabas()) > 0 {
			chosen = &businesses[i]
			break
		}
	}
	if chosen == nil && len(businesses) > 0 {
		chosen = &businesses[0]
	}

	if chosen != nil {
		businessID = chosen.ID
		if wabas := chosen.OwnedWabas(); len(wabas) > 0 {
			wabaID = wabas[0].ID
		}
	}

	// Fallback for review/test accounts without a writable business
	// relationship.
	if businessID == "" && s.defaultBusinessID != "" {
		businessID = s.defaultBusinessID
	}
	if wabaID == "" && s.defaultWabaID != "" {
		wabaID = s.defaultWabaID
	}

	if businessID == "" || wabaID == "" {
		return "", "", errs.ErrNoAccountFound
	}
	return businessID, wabaID, nil
}
