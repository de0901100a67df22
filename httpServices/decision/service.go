package httpServices

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

// DecisionClient pushes captured call decisions to an external endpoint.
// Delivery is best effort: the caller logs and discards the error because
// the in-call voice response must be returned to the provider either way.
type DecisionClient struct {
	httpClient *http.Client
	webhookURL string
}

func NewClient(webhookURL string) *DecisionClient {
	return &DecisionClient{
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
		webhookURL: webhookURL,
	}
}

// Configured reports whether an endpoint is set at all.
func (c *DecisionClient) Configured() bool {
	return c.webhookURL != ""
}

// NotifyDecision POSTs the decision payload to the configured endpoint.
// Without a configured endpoint it is a no-op.
func (c *DecisionClient) NotifyDecision(payload Payload) error {
	if c.webhookURL == "" {
		return nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequest("POST", c.webhookURL, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return errors.New("decision endpoint returned non-OK status: " + resp.Status)
	}
	return nil
}
