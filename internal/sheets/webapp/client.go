// Package webapp talks to the spreadsheet's web-app endpoint: a single URL
// that serves the category table on GET and accepts one flat transaction
// object per POST.
package webapp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"fintrack/internal/core"
	ports "fintrack/internal/sheets"
)

type Client struct {
	endpoint string
	httpc    *http.Client
}

// Ensure interface conformance
var (
	_ ports.CatalogReader = (*Client)(nil)
	_ ports.RecordWriter  = (*Client)(nil)
)

// categoryRow mirrors one entry of the GET response.
type categoryRow struct {
	Classification   string `json:"Classification"`
	SpecificCategory string `json:"Specific Category"`
	Subcategory      string `json:"Subcategory"`
}

// recordPayload is the flat field-keyed object the endpoint expects per
// record. Absent wallets and categories go out as JSON null.
type recordPayload struct {
	Date             string  `json:"Date"`
	Amount           float64 `json:"Amount"`
	Classification   string  `json:"Classification"`
	SpecificCategory *string `json:"Specific Category"`
	Subcategory      *string `json:"Subcategory"`
	Description      string  `json:"Description"`
	SourceWallet     *string `json:"Source Wallet"`
	EndWallet        *string `json:"End Wallet"`
}

// New creates a client for the given web-app endpoint URL.
func New(endpoint string) (*Client, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, errors.New("missing web app endpoint URL")
	}
	return &Client{
		endpoint: endpoint,
		httpc:    newPooledHTTPClient(),
	}, nil
}

// newPooledHTTPClient builds an HTTP client with connection pooling and
// timeouts suited to a remote spreadsheet endpoint.
func newPooledHTTPClient() *http.Client {
	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	transport := &http.Transport{
		DialContext:           dialer.DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ForceAttemptHTTP2:     true,
	}
	return &http.Client{
		Transport: transport,
		Timeout:   60 * time.Second,
	}
}

// Categories fetches the category table. Any non-200 status or transport
// error is reported as ErrFetchFailed; no retry is attempted here.
func (c *Client) Categories(ctx context.Context) ([]core.CategoryEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ports.ErrFetchFailed, err)
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ports.ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ports.ErrFetchFailed, resp.StatusCode)
	}

	var rows []categoryRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ports.ErrFetchFailed, err)
	}

	entries := make([]core.CategoryEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, core.CategoryEntry{
			Classification:   core.Classification(strings.TrimSpace(row.Classification)),
			SpecificCategory: strings.TrimSpace(row.SpecificCategory),
			Subcategory:      strings.TrimSpace(row.Subcategory),
		})
	}
	return entries, nil
}

// Append posts one record. Success is status 200; anything else is a
// failure for this record only.
func (c *Client) Append(ctx context.Context, rec core.TransactionRecord) (string, error) {
	payload := recordPayload{
		Date:             rec.Date.ISO(),
		Amount:           rec.Amount.Float(),
		Classification:   string(rec.Classification),
		SpecificCategory: nullable(rec.SpecificCategory),
		Subcategory:      nullable(rec.Subcategory),
		Description:      rec.Description,
		SourceWallet:     nullable(rec.SourceWallet),
		EndWallet:        nullable(rec.EndWallet),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal record: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("post record: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("post record: status %d", resp.StatusCode)
	}
	return fmt.Sprintf("%s %s", rec.Date.ISO(), rec.Amount.String()), nil
}

func nullable(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
