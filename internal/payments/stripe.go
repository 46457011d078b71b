// Package payments wraps the Stripe REST API. The lifecycle controller only
// sees the Processor interface; failures it has to distinguish (declines,
// required authentication) are typed sentinels.
package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/zvrva/securespot/config"
)

var (
	ErrCardDeclined           = errors.New("card declined")
	ErrAuthenticationRequired = errors.New("payment authentication required")
	ErrSetupIncomplete        = errors.New("payment setup not completed")
)

type SetupIntent struct {
	ID           string
	ClientSecret string
}

type Processor interface {
	// CreateSetup opens a payment intent for the quoted amount and returns
	// its id and the client secret the front-end needs to collect a card.
	CreateSetup(ctx context.Context, amountCents int64, email string) (*SetupIntent, error)
	// ConfirmSetup verifies the intent has a payment method attached.
	ConfirmSetup(ctx context.Context, ref string) error
	// Charge captures the final amount against a previously set up intent.
	Charge(ctx context.Context, ref string, amountCents int64) error
	// PaymentMethodLast4 returns the masked tail of the card on an intent.
	PaymentMethodLast4(ctx context.Context, ref string) (string, error)
}

type StripeClient struct {
	apiKey  string
	baseURL string
	hc      *http.Client
}

func NewStripeClient(cfg config.StripeConfig) *StripeClient {
	base := cfg.BaseURL
	if base == "" {
		base = "https://api.stripe.com"
	}
	return &StripeClient{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(base, "/"),
		hc:      &http.Client{Timeout: 10 * time.Second},
	}
}

type stripeIntent struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	ClientSecret  string `json:"client_secret"`
	PaymentMethod struct {
		Card struct {
			Last4 string `json:"last4"`
		} `json:"card"`
	} `json:"payment_method"`
	Error *stripeError `json:"error"`
}

type stripeError struct {
	Code        string `json:"code"`
	DeclineCode string `json:"decline_code"`
	Message     string `json:"message"`
}

func (c *StripeClient) CreateSetup(ctx context.Context, amountCents int64, email string) (*SetupIntent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amountCents, 10))
	form.Set("currency", "usd")
	form.Set("automatic_payment_methods[enabled]", "true")
	form.Set("receipt_email", email)

	intent, err := c.do(ctx, http.MethodPost, "/v1/payment_intents", form)
	if err != nil {
		return nil, err
	}
	return &SetupIntent{ID: intent.ID, ClientSecret: intent.ClientSecret}, nil
}

func (c *StripeClient) ConfirmSetup(ctx context.Context, ref string) error {
	intent, err := c.do(ctx, http.MethodGet, "/v1/payment_intents/"+ref, nil)
	if err != nil {
		return err
	}
	switch intent.Status {
	case "requires_payment_method":
		return ErrSetupIncomplete
	case "requires_action":
		return ErrAuthenticationRequired
	}
	return nil
}

func (c *StripeClient) Charge(ctx context.Context, ref string, amountCents int64) error {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amountCents, 10))
	if _, err := c.do(ctx, http.MethodPost, "/v1/payment_intents/"+ref, form); err != nil {
		return err
	}
	_, err := c.do(ctx, http.MethodPost, "/v1/payment_intents/"+ref+"/confirm", url.Values{})
	return err
}

func (c *StripeClient) PaymentMethodLast4(ctx context.Context, ref string) (string, error) {
	form := url.Values{}
	form.Set("expand[]", "payment_method")
	intent, err := c.do(ctx, http.MethodGet, "/v1/payment_intents/"+ref+"?"+form.Encode(), nil)
	if err != nil {
		return "", err
	}
	return intent.PaymentMethod.Card.Last4, nil
}

func (c *StripeClient) do(ctx context.Context, method, path string, form url.Values) (*stripeIntent, error) {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("stripe request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var intent stripeIntent
	if err := json.Unmarshal(data, &intent); err != nil {
		return nil, fmt.Errorf("stripe response decode failed: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, mapStripeError(resp.StatusCode, intent.Error)
	}
	return &intent, nil
}

func mapStripeError(status int, e *stripeError) error {
	if e == nil {
		return fmt.Errorf("stripe error (status=%d)", status)
	}
	switch {
	case e.Code == "card_declined" && e.DeclineCode == "authentication_required":
		return ErrAuthenticationRequired
	case e.Code == "card_declined":
		return ErrCardDeclined
	case e.Code == "authentication_required":
		return ErrAuthenticationRequired
	}
	return fmt.Errorf("stripe error: %s (status=%d)", e.Message, status)
}

var _ Processor = (*StripeClient)(nil)
