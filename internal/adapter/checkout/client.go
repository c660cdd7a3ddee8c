// Package checkout is a thin client for the hosted-payment provider.
// The provider is the system of record for payment state: webhook
// handling always re-fetches the payment by id instead of trusting
// anything in the notification body.
package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/wincantonlogs/firewood/internal/config"
	"github.com/wincantonlogs/firewood/internal/interfaces"
)

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(cfg config.CheckoutConfig, apiKey string) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{},
	}
}

type amountBody struct {
	Currency string `json:"currency"`
	Value    string `json:"value"`
}

type metadataBody struct {
	OrderID string `json:"order_id"`
}

type createPaymentBody struct {
	Amount      amountBody   `json:"amount"`
	Description string       `json:"description"`
	RedirectURL string       `json:"redirectUrl"`
	WebhookURL  string       `json:"webhookUrl"`
	Metadata    metadataBody `json:"metadata"`
}

type paymentResponse struct {
	ID       string        `json:"id"`
	Status   string        `json:"status"`
	Metadata *metadataBody `json:"metadata"`
	Links    struct {
		Checkout struct {
			Href string `json:"href"`
		} `json:"checkout"`
	} `json:"_links"`
}

// formatAmount renders integer pence in the gateway's decimal string
// format, e.g. 4550 -> "45.50".
func formatAmount(pence int) string {
	return fmt.Sprintf("%d.%02d", pence/100, pence%100)
}

func (c *Client) CreatePayment(ctx context.Context, req interfaces.CreatePaymentRequest) (*interfaces.GatewayPayment, error) {
	body := createPaymentBody{
		Amount: amountBody{
			Currency: req.Currency,
			Value:    formatAmount(req.Amount),
		},
		Description: req.Description,
		RedirectURL: req.RedirectURL,
		WebhookURL:  req.WebhookURL,
		Metadata:    metadataBody{OrderID: strconv.Itoa(req.OrderID)},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payment request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/payments", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build payment request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	return c.do(httpReq, http.StatusCreated)
}

func (c *Client) GetPayment(ctx context.Context, id string) (*interfaces.GatewayPayment, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/payments/"+id, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build payment request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	return c.do(httpReq, http.StatusOK)
}

func (c *Client) do(req *http.Request, wantStatus int) (*interfaces.GatewayPayment, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("payment gateway unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("payment gateway returned %d: %s", resp.StatusCode, body)
	}

	var parsed paymentResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode gateway response: %w", err)
	}

	payment := &interfaces.GatewayPayment{
		ID:          parsed.ID,
		Status:      parsed.Status,
		CheckoutURL: parsed.Links.Checkout.Href,
	}

	if parsed.Metadata != nil {
		if orderID, err := strconv.Atoi(parsed.Metadata.OrderID); err == nil && orderID > 0 {
			payment.OrderID = &orderID
		}
	}

	return payment, nil
}
