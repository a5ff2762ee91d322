package signupfakes

import (
	"context"
	"sync"

	"github.com/advistors/esu-bridge/graph"
	"github.com/advistors/esu-bridge/signup"
)

var _ signup.GraphAPI = (*FakeGraphAPI)(nil)

// FakeGraphAPI is an in-memory stand-in for the Graph API client. Responses
// and errors are set per call; exchanged codes and queried WABA ids are
// recorded for assertions.
type FakeGraphAPI struct {
	Token        *graph.TokenResponse
	ExchangeErr  error
	Businesses   []graph.Business
	ListErr      error
	PhoneNumbers []graph.PhoneNumber
	PhonesErr    error

	exchangedCodes []string
	queriedWabas   []string
	lock           sync.Mutex
}

func NewFakeGraphAPI() *FakeGraphAPI {
	return &FakeGraphAPI{}
}

func (f *FakeGraphAPI) ExchangeCode(_ context.Context, code string) (*graph.TokenResponse, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.exchangedCodes = append(f.exchangedCodes, code)
	if f.ExchangeErr != nil {
		return nil, f.ExchangeErr
	}
	return f.Token, nil
}

func (f *FakeGraphAPI) ListBusinesses(_ context.Context, _ string) ([]graph.Business, error) {
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	return f.Businesses, nil
}

func (f *FakeGraphAPI) ListPhoneNumbers(_ context.Context, wabaID, _ string) ([]graph.PhoneNumber, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.queriedWabas = append(f.queriedWabas, wabaID)
	if f.PhonesErr != nil {
		return nil, f.PhonesErr
	}
	return f.PhoneNumbers, nil
}

// ExchangedCodes returns the codes passed to ExchangeCode, in order.
func (f *FakeGraphAPI) ExchangedCodes() []string {
	f.lock.Lock()
	defer f.lock.Unlock()
	return append([]string(nil), f.exchangedCodes...)
}

// QueriedWabas returns the WABA ids passed to ListPhoneNumbers, in order.
func (f *FakeGraphAPI) QueriedWabas() []string {
	f.lock.Lock()
	defer f.lock.Unlock()
	return append([]string(nil), f.queriedWabas...)
}
