// Package orders implements the OrderClient port against the host order
// system's REST API. The engine owns no order rows; every order mutation
// crosses this boundary.
package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"statusflow/internal/core/domain/model/kernel"
	"statusflow/internal/core/domain/model/status"
)

const defaultTimeout = 10 * time.Second

// Client is an HTTP implementation of the OrderClient port.
//
// Example:
//
//	client := orders.NewClient("https://shop.example.com/wp-json/statusflow/v1", apiKey)
//	if err := client.SetStatus(ctx, orderID, "wc-completed", "Changed by rule"); err != nil {
//	    return err
//	}
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates an order system client for the given API base URL.
// Requests time out after a bounded interval so one stalled order cannot
// stall a whole dispatch pass.
func NewClient(baseURL string, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

type setStatusRequest struct {
	Status string `json:"status"`
	Note   string `json:"note,omitempty"`
}

type resendInvoiceRequest struct {
	Target string `json:"target"`
}

type countResponse struct {
	Count int `json:"count"`
}

type reassignRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type reassignResponse struct {
	Updated int `json:"updated"`
}

// SetStatus moves the order to the status identified by its prefixed slug.
func (c *Client) SetStatus(ctx context.Context, orderID kernel.UUID, statusKey string, note string) error {
	path := fmt.Sprintf("/orders/%s/status", orderID.String())
	return c.do(ctx, http.MethodPut, path, setStatusRequest{Status: statusKey, Note: note}, nil)
}

// ResendInvoice asks the host to resend the order invoice to the target.
func (c *Client) ResendInvoice(ctx context.Context, orderID kernel.UUID, target status.ResendTarget) error {
	path := fmt.Sprintf("/orders/%s/invoice", orderID.String())
	return c.do(ctx, http.MethodPost, path, resendInvoiceRequest{Target: string(target)}, nil)
}

// CountByStatus returns how many orders currently hold the status.
func (c *Client) CountByStatus(ctx context.Context, statusKey string) (int, error) {
	path := "/orders/count?status=" + url.QueryEscape(statusKey)

	var response countResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &response); err != nil {
		return 0, err
	}

	return response.Count, nil
}

// Reassign retags every order from one status key to another.
func (c *Client) Reassign(ctx context.Context, fromKey string, toKey string) (int, error) {
	var response reassignResponse
	err := c.do(ctx, http.MethodPost, "/orders/reassign", reassignRequest{From: fromKey, To: toKey}, &response)
	if err != nil {
		return 0, err
	}

	return response.Updated, nil
}

func (c *Client) do(ctx context.Context, method string, path string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}

	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("order system returned %s for %s %s", resp.Status, method, path)
	}

	if out == nil {
		return nil
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
