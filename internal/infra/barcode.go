package infra

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// BarcodeClient talks to the external barcode allocation service. Check-digit
// generation and EAN range management live there, not in this backend.
type BarcodeClient struct {
	baseURL    string
	httpClient *http.Client
	cb         *CircuitBreaker
}

// barcodeResponse is the allocation service's reply.
type barcodeResponse struct {
	Barcode string `json:"barcode"`
}

func NewBarcodeClient(baseURL string, cb *CircuitBreaker) *BarcodeClient {
	return &BarcodeClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cb:         cb,
	}
}

// NextBarcode requests one freshly allocated barcode. Calls go through the
// circuit breaker so a downed allocation service fails fast instead of tying
// up request handlers.
func (c *BarcodeClient) NextBarcode(ctx context.Context) (string, error) {
	var result barcodeResponse
	err := c.cb.Execute(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/allocate", nil)
		if err != nil {
			return fmt.Errorf("barcode: create request: %w", err)
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("barcode: service unreachable: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("barcode: service returned %d", resp.StatusCode)
		}
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return fmt.Errorf("barcode: decode response: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if result.Barcode == "" {
		return "", fmt.Errorf("barcode: service returned an empty barcode")
	}
	return result.Barcode, nil
}
