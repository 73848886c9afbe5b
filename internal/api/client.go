// Package api is the HTTP gateway to the QKart storefront service. It is
// the only place that knows paths, headers, and wire shapes; the engine
// packages above it deal in typed values and the BusinessError /
// NetworkError split.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Dhwanith/qkart/pkg/metrics"
)

const idempotencyHeader = "Idempotency-Key"

type Client struct {
	base    string
	http    *http.Client
	log     *zap.Logger
	metrics *metrics.ClientMetrics
}

// New builds a gateway for the service rooted at baseURL. log and m may
// be nil.
func New(baseURL string, timeout time.Duration, log *zap.Logger, m *metrics.ClientMetrics) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		base:    baseURL,
		http:    &http.Client{Timeout: timeout},
		log:     log,
		metrics: m,
	}
}

func (c *Client) Products(ctx context.Context) ([]Product, error) {
	var out []Product
	err := c.do(ctx, call{op: "products", method: http.MethodGet, path: "/products"}, &out)
	return out, err
}

func (c *Client) SearchProducts(ctx context.Context, value string) ([]Product, error) {
	var out []Product
	p := "/products/search?value=" + url.QueryEscape(value)
	err := c.do(ctx, call{op: "search", method: http.MethodGet, path: p}, &out)
	return out, err
}

func (c *Client) Cart(ctx context.Context, token string) ([]CartLine, error) {
	var out []CartLine
	err := c.do(ctx, call{op: "cart_get", method: http.MethodGet, path: "/cart", token: token}, &out)
	return out, err
}

// UpsertCartLine posts a (productId, qty) update and returns the full
// cart as the server now sees it. qty <= 0 asks the server to drop the
// line.
func (c *Client) UpsertCartLine(ctx context.Context, token, productID string, qty int) ([]CartLine, error) {
	var out []CartLine
	body := map[string]any{"productId": productID, "qty": qty}
	err := c.do(ctx, call{op: "cart_upsert", method: http.MethodPost, path: "/cart", token: token, body: body}, &out)
	return out, err
}

func (c *Client) Addresses(ctx context.Context, token string) ([]Address, error) {
	var out []Address
	err := c.do(ctx, call{op: "addresses", method: http.MethodGet, path: "/user/addresses", token: token}, &out)
	return out, err
}

func (c *Client) AddAddress(ctx context.Context, token, text string) ([]Address, error) {
	var out []Address
	body := map[string]any{"address": text}
	err := c.do(ctx, call{op: "address_add", method: http.MethodPost, path: "/user/addresses", token: token, body: body}, &out)
	return out, err
}

func (c *Client) DeleteAddress(ctx context.Context, token, id string) ([]Address, error) {
	var out []Address
	err := c.do(ctx, call{op: "address_delete", method: http.MethodDelete, path: "/user/addresses/" + url.PathEscape(id), token: token}, &out)
	return out, err
}

// Checkout places the order against the selected address. The response
// body is opaque; only the status matters. Each attempt carries a fresh
// idempotency key.
func (c *Client) Checkout(ctx context.Context, token, addressID string) error {
	body := map[string]any{"addressId": addressID}
	return c.do(ctx, call{
		op: "checkout", method: http.MethodPost, path: "/cart/checkout",
		token: token, body: body, idempotent: true,
	}, nil)
}

func (c *Client) Login(ctx context.Context, username, password string) (LoginResult, error) {
	var out LoginResult
	body := map[string]any{"username": username, "password": password}
	err := c.do(ctx, call{op: "login", method: http.MethodPost, path: "/auth/login", body: body}, &out)
	return out, err
}

func (c *Client) Register(ctx context.Context, username, password string) error {
	body := map[string]any{"username": username, "password": password}
	return c.do(ctx, call{op: "register", method: http.MethodPost, path: "/auth/register", body: body}, nil)
}

type call struct {
	op         string
	method     string
	path       string
	token      string
	body       any
	idempotent bool
}

func (c *Client) do(ctx context.Context, cl call, out any) error {
	var reader io.Reader
	if cl.body != nil {
		data, err := json.Marshal(cl.body)
		if err != nil {
			return &NetworkError{Op: cl.op, Err: err}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, c.base+cl.path, reader)
	if err != nil {
		return &NetworkError{Op: cl.op, Err: err}
	}
	if cl.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cl.token != "" {
		req.Header.Set("Authorization", "Bearer "+cl.token)
	}
	if cl.idempotent {
		req.Header.Set(idempotencyHeader, uuid.NewString())
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.observe(cl.op, "error", start)
		c.log.Warn("api request failed", zap.String("op", cl.op), zap.Error(err))
		return &NetworkError{Op: cl.op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.observe(cl.op, "error", start)
		return &NetworkError{Op: cl.op, Err: err}
	}
	c.observe(cl.op, strconv.Itoa(resp.StatusCode), start)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(data, out); err != nil {
			return &NetworkError{Op: cl.op, Err: fmt.Errorf("decode response: %w", err)}
		}
		return nil
	}

	// 4xx with a server message is a business rejection, shown verbatim.
	// Anything else reads as connectivity trouble.
	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		var fail struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(data, &fail); err == nil && fail.Message != "" {
			c.log.Info("api request rejected",
				zap.String("op", cl.op),
				zap.Int("status", resp.StatusCode),
				zap.String("message", fail.Message))
			return &BusinessError{StatusCode: resp.StatusCode, Message: fail.Message}
		}
	}
	c.log.Warn("api request failed",
		zap.String("op", cl.op), zap.Int("status", resp.StatusCode))
	return &NetworkError{Op: cl.op, Err: fmt.Errorf("status %d: %s", resp.StatusCode, string(data))}
}

func (c *Client) observe(op, status string, start time.Time) {
	if c.metrics == nil {
		return
	}
	c.metrics.Requests.WithLabelValues(op, status).Inc()
	c.metrics.LatencyMS.WithLabelValues(op).Observe(float64(time.Since(start).Milliseconds()))
}
