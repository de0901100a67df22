package twilio

import (
	"errors"

	"github.com/twilio/twilio-go"
	api "github.com/twilio/twilio-go/rest/api/v2010"
)

// CallProvider is the outbound telephony capability: place a call that
// fetches its voice menu from voiceURL and reports lifecycle events to
// statusCallbackURL. Returns the provider-assigned call sid.
type CallProvider interface {
	CreateCall(to, from, voiceURL, statusCallbackURL string) (string, error)
}

// RestCallProvider places calls through the Twilio REST API.
type RestCallProvider struct {
	client *twilio.RestClient
}

func NewRestCallProvider(accountSid, authToken string) *RestCallProvider {
	return &RestCallProvider{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
	}
}

func (p *RestCallProvider) CreateCall(to, from, voiceURL, statusCallbackURL string) (string, error) {
	params := &api.CreateCallParams{}
	params.SetTo(to)
	params.SetFrom(from)
	params.SetUrl(voiceURL)
	if statusCallbackURL != "" {
		params.SetStatusCallback(statusCallbackURL)
		params.SetStatusCallbackMethod("POST")
		params.SetStatusCallbackEvent([]string{"initiated", "ringing", "answered", "completed"})
	}

	call, err := p.client.Api.CreateCall(params)
	if err != nil {
		return "", err
	}
	if call.Sid == nil || *call.Sid == "" {
		return "", errors.New("provider returned a call without sid")
	}
	return *call.Sid, nil
}
