package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/domasjohn/BlazzorEcommerce/internal/domain"
)

// Client talks the cart wire contract to the server. Every call runs inside a
// circuit breaker so a dead server fails fast instead of stacking timeouts on
// the device.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   30 * time.Second,
		},
		breaker: gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
			Name: "cart-api",
		}),
	}
}

type envelope struct {
	Data    json.RawMessage `json:"data"`
	Success bool            `json:"success"`
	Message string          `json:"message"`
}

// ResolveLines hydrates an arbitrary snapshot without authentication.
func (c *Client) ResolveLines(ctx context.Context, lines []domain.CartLine) ([]domain.CartProduct, error) {
	data, err := c.do(ctx, http.MethodPost, "/api/cart/products", "", lines)
	if err != nil {
		return nil, err
	}

	var products []domain.CartProduct
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("unmarshal cart products failed: %w", err)
	}
	return products, nil
}

func (c *Client) UserCart(ctx context.Context, token string) ([]domain.CartProduct, error) {
	data, err := c.do(ctx, http.MethodGet, "/api/cart", token, nil)
	if err != nil {
		return nil, err
	}

	var products []domain.CartProduct
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("unmarshal cart products failed: %w", err)
	}
	return products, nil
}

func (c *Client) StoreLines(ctx context.Context, token string, lines []domain.CartLine) error {
	_, err := c.do(ctx, http.MethodPost, "/api/cart", token, lines)
	return err
}

func (c *Client) CartCount(ctx context.Context, token string) (int, error) {
	data, err := c.do(ctx, http.MethodGet, "/api/cart/count", token, nil)
	if err != nil {
		return 0, err
	}

	var count int
	if err := json.Unmarshal(data, &count); err != nil {
		return 0, fmt.Errorf("unmarshal cart count failed: %w", err)
	}
	return count, nil
}

func (c *Client) RemoveLine(ctx context.Context, token string, productID, variantID int64) error {
	path := fmt.Sprintf("/api/cart/items/%d/%d", productID, variantID)
	_, err := c.do(ctx, http.MethodDelete, path, token, nil)
	return err
}

func (c *Client) UpdateQuantity(ctx context.Context, token string, productID, variantID int64, quantity int) error {
	path := fmt.Sprintf("/api/cart/items/%d/%d", productID, variantID)
	body := map[string]int{"quantity": quantity}
	_, err := c.do(ctx, http.MethodPut, path, token, body)
	return err
}

// do sends one request through the breaker and unwraps the response envelope.
func (c *Client) do(ctx context.Context, method, path, token string, body interface{}) (json.RawMessage, error) {
	raw, err := c.breaker.Execute(func() ([]byte, error) {
		var reader io.Reader
		if body != nil {
			payload, err := json.Marshal(body)
			if err != nil {
				return nil, fmt.Errorf("marshal request body failed: %w", err)
			}
			reader = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return nil, fmt.Errorf("build request failed: %w", err)
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%s %s failed: %w", method, path, err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read response body failed: %w", err)
		}

		if resp.StatusCode >= http.StatusInternalServerError {
			return nil, fmt.Errorf("%s %s: server returned %d", method, path, resp.StatusCode)
		}

		return data, nil
	})
	if err != nil {
		return nil, err
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("unmarshal response envelope failed: %w", err)
	}
	if !env.Success {
		return nil, fmt.Errorf("server rejected request: %s", env.Message)
	}

	return env.Data, nil
}
