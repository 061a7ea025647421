// Package banking is the boundary to the external banking-data API. The
// engine consumes two operations: listing a connection's accounts and listing
// its transactions over a date window.
package banking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Account is one sub-account as reported upstream. Optional display fields
// are pointers so a missing value is never confused with an empty string.
type Account struct {
	AccountID    string  `json:"account_id"`
	Name         *string `json:"name"`
	OfficialName *string `json:"official_name"`
	Mask         *string `json:"mask"`
	Subtype      *string `json:"subtype"`
	Type         *string `json:"type"`
}

// RawTransaction is one upstream transaction record, prior to normalization.
// Amount follows the upstream convention: positive = expense, negative =
// credit.
type RawTransaction struct {
	TransactionID   string   `json:"transaction_id"`
	AccountID       string   `json:"account_id"`
	Date            string   `json:"date"`
	Name            *string  `json:"name"`
	Amount          float64  `json:"amount"`
	ISOCurrencyCode *string  `json:"iso_currency_code"`
	Pending         bool     `json:"pending"`
	MerchantName    *string  `json:"merchant_name"`
	Category        []string `json:"category"`
}

// Client is the narrow banking API surface the engine consumes.
type Client interface {
	GetAccounts(ctx context.Context, accessToken string) ([]Account, error)
	GetTransactions(ctx context.Context, accessToken, startDate, endDate string) ([]RawTransaction, error)
}

// transactionPageSize caps how many records one transactions call returns per
// connection.
const transactionPageSize = 250

// RESTClient talks to a Plaid-style banking API: JSON POST bodies carrying
// the service credentials and the per-connection access token.
type RESTClient struct {
	baseURL  string
	clientID string
	secret   string
	http     *http.Client
}

// NewRESTClient creates a banking API client. timeout bounds every call so a
// stuck upstream degrades one connection instead of hanging the request.
func NewRESTClient(baseURL, clientID, secret string, timeout time.Duration) *RESTClient {
	return &RESTClient{
		baseURL:  baseURL,
		clientID: clientID,
		secret:   secret,
		http:     &http.Client{Timeout: timeout},
	}
}

// GetAccounts returns the sub-accounts reachable through one access token.
func (c *RESTClient) GetAccounts(ctx context.Context, accessToken string) ([]Account, error) {
	body := map[string]interface{}{
		"client_id":    c.clientID,
		"secret":       c.secret,
		"access_token": accessToken,
	}

	var resp struct {
		Accounts []Account `json:"accounts"`
	}
	if err := c.post(ctx, "/accounts/get", body, &resp); err != nil {
		return nil, fmt.Errorf("GetAccounts: %w", err)
	}
	return resp.Accounts, nil
}

// GetTransactions returns the transactions for one access token within the
// inclusive [startDate, endDate] window, both calendar-day strings.
func (c *RESTClient) GetTransactions(ctx context.Context, accessToken, startDate, endDate string) ([]RawTransaction, error) {
	body := map[string]interface{}{
		"client_id":    c.clientID,
		"secret":       c.secret,
		"access_token": accessToken,
		"start_date":   startDate,
		"end_date":     endDate,
		"options": map[string]interface{}{
			"count":  transactionPageSize,
			"offset": 0,
		},
	}

	var resp struct {
		Transactions []RawTransaction `json:"transactions"`
	}
	if err := c.post(ctx, "/transactions/get", body, &resp); err != nil {
		return nil, fmt.Errorf("GetTransactions: %w", err)
	}
	return resp.Transactions, nil
}

// post sends one JSON request and decodes the response into out. Error
// messages surface the upstream error_message when present but never echo the
// request body, which carries credentials.
func (c *RESTClient) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading %s response: %w", path, err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			ErrorMessage string `json:"error_message"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.ErrorMessage != "" {
			return fmt.Errorf("%s returned %d: %s", path, resp.StatusCode, apiErr.ErrorMessage)
		}
		return fmt.Errorf("%s returned %d", path, resp.StatusCode)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}

var _ Client = (*RESTClient)(nil)
