// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/danielhkuo/quickly-vote/ledger"
	"github.com/danielhkuo/quickly-vote/models"
)

// ErrNotFound is returned for 404 responses
var ErrNotFound = errors.New("not found")

// APIError is a non-2xx response from the server
type APIError struct {
	StatusCode int
	Message    string
	Code       *uint32
}

func (e *APIError) Error() string {
	if e.Code != nil {
		return fmt.Sprintf("server returned %d: %s (code %d)", e.StatusCode, e.Message, *e.Code)
	}
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// Client talks to a quickly-vote server
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) Program(ctx context.Context) (*models.ProgramResponse, error) {
	var resp models.ProgramResponse
	return &resp, c.do(ctx, http.MethodGet, "/program", nil, &resp)
}

// Submit sends a signed transaction and returns its receipt. Execution
// failures are returned as *APIError with the program code, if any.
func (c *Client) Submit(ctx context.Context, tx *ledger.Transaction) (*models.ReceiptResponse, error) {
	var resp models.ReceiptResponse
	return &resp, c.do(ctx, http.MethodPost, "/transactions", tx.Request(), &resp)
}

func (c *Client) Receipt(ctx context.Context, id string) (*models.ReceiptResponse, error) {
	var resp models.ReceiptResponse
	return &resp, c.do(ctx, http.MethodGet, "/transactions/"+url.PathEscape(id), nil, &resp)
}

func (c *Client) Account(ctx context.Context, addr models.Address) (*models.AccountResponse, error) {
	var resp models.AccountResponse
	return &resp, c.do(ctx, http.MethodGet, "/accounts/"+addr.String(), nil, &resp)
}

func (c *Client) Poll(ctx context.Context, addr models.Address) (*models.PollResponse, error) {
	var resp models.PollResponse
	return &resp, c.do(ctx, http.MethodGet, "/polls/"+addr.String(), nil, &resp)
}

func (c *Client) Vote(ctx context.Context, poll, voter models.Address) (*models.VoteResponse, error) {
	var resp models.VoteResponse
	return &resp, c.do(ctx, http.MethodGet, "/polls/"+poll.String()+"/votes/"+voter.String(), nil, &resp)
}

func (c *Client) Airdrop(ctx context.Context, addr models.Address, lamports uint64) (*models.AirdropResponse, error) {
	var resp models.AirdropResponse
	req := models.AirdropRequest{Address: addr, Lamports: lamports}
	return &resp, c.do(ctx, http.MethodPost, "/airdrop", req, &resp)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var errResp models.ErrorResponse
		if json.NewDecoder(resp.Body).Decode(&errResp) == nil && errResp.Message != "" {
			apiErr.Message = errResp.Message
			apiErr.Code = errResp.Code
		}
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
