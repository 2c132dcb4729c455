// Package stripe implements payment.Gateway against the Stripe charges API.
package stripe

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/pourcart/internal/domain/payment"
)

// DefaultBaseURL is the production Stripe API endpoint.
const DefaultBaseURL = "https://api.stripe.com"

var _ payment.Gateway = (*Gateway)(nil)

// Gateway charges tokenized cards via the Stripe charges endpoint.
type Gateway struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// New creates a Gateway. baseURL may be empty to use the production API;
// tests and local stacks point it at a stub server.
func New(apiKey, baseURL string) *Gateway {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Gateway{
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
	}
}

type chargeResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Error  *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Charge creates a charge for the given source token. Amounts are sent in
// the currency's minor unit. Any transport or API failure is returned as a
// *payment.GatewayError so the settlement transaction rolls back.
func (g *Gateway) Charge(ctx context.Context, token string, amount decimal.Decimal, currency string) (*payment.Charge, error) {
	form := url.Values{
		"source":   {token},
		"amount":   {amount.Mul(decimal.NewFromInt(100)).Round(0).String()},
		"currency": {currency},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/charges", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &payment.GatewayError{Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, &payment.GatewayError{Err: err}
	}
	defer resp.Body.Close()

	var body chargeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, &payment.GatewayError{Err: errors.Wrap(err, "decode charge response")}
	}

	if resp.StatusCode != http.StatusOK {
		msg := resp.Status
		if body.Error != nil {
			msg = body.Error.Message
		}
		return nil, &payment.GatewayError{Err: errors.Errorf("charge declined: %s", msg)}
	}

	return &payment.Charge{
		TransactionID: body.ID,
		Status:        body.Status,
	}, nil
}
