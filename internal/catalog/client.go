package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 8 * time.Second

// Client fetches the product catalog from the remote API. When apiURL is
// empty, Fetch serves a small built-in catalog so the shop runs without the
// upstream (dev and tests).
type Client struct {
	apiURL string
	http   *http.Client
}

func NewClient(apiURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		apiURL: strings.TrimSpace(apiURL),
		http:   &http.Client{Timeout: timeout},
	}
}

// Fetch issues the single catalog GET. No retry, no auth, no pagination; a
// failure leaves the caller in the unavailable state.
func (c *Client) Fetch(ctx context.Context) ([]Product, error) {
	const op = "catalog.Fetch"

	if c == nil || c.apiURL == "" {
		return seedProducts(), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%s: status %d: %s", op, resp.StatusCode, drainError(resp.Body))
	}

	var products []Product
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", op, err)
	}
	return products, nil
}

func drainError(r io.Reader) string {
	if r == nil {
		return ""
	}
	b, _ := io.ReadAll(io.LimitReader(r, 256))
	return strings.TrimSpace(string(b))
}

func seedProducts() []Product {
	return []Product{
		{ID: 1, Title: "Kaos Polos Katun Premium", Category: "clothing", Price: 9.5, Image: "https://placehold.co/600x600?text=Kaos"},
		{ID: 2, Title: "Kemeja Flanel Lengan Panjang", Category: "clothing", Price: 18, Image: "https://placehold.co/600x600?text=Kemeja"},
		{ID: 3, Title: "Tas Selempang Kanvas", Category: "accessories", Price: 14.25, Image: "https://placehold.co/600x600?text=Tas"},
		{ID: 4, Title: "Jam Tangan Analog Klasik", Category: "accessories", Price: 32, Image: "https://placehold.co/600x600?text=Jam"},
		{ID: 5, Title: "Headset Bluetooth Lipat", Category: "electronics", Price: 24.5, Image: "https://placehold.co/600x600?text=Headset"},
		{ID: 6, Title: "Power Bank 10000mAh", Category: "electronics", Price: 19.99, Image: "https://placehold.co/600x600?text=PowerBank"},
	}
}
