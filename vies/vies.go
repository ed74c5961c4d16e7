// Package vies queries the EU VIES service to check a VAT number.
package vies

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultURL is the VIES check endpoint.
const DefaultURL = "https://ec.europa.eu/taxation_customs/vies/vatResponse.html"

// Client queries the VIES service.
type Client struct {
	// BaseURL overrides the endpoint, mainly for tests.
	BaseURL string
	// HTTPClient overrides the underlying client. The default times out
	// after five seconds.
	HTTPClient *http.Client
}

// NewClient returns a client against the production endpoint.
func NewClient() *Client {
	return &Client{}
}

// Response is the raw VIES answer.
type Response struct {
	StatusCode int
	Body       string
}

func (c *Client) endpoint() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return DefaultURL
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 5 * time.Second}
}

// Check posts the member state code and VAT number and returns the raw
// response page.
func (c *Client) Check(ctx context.Context, stateCode, vatNumber string) (*Response, error) {
	form := url.Values{
		"memberStateCode": {stateCode},
		"number":          {vatNumber},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", "fatturex")

	res, err := c.httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	return &Response{StatusCode: res.StatusCode, Body: string(body)}, nil
}
