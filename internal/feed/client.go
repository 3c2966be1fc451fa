// Package feed fetches the external product catalog and keeps the last
// successful copy.
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/iudanet/shopfront/internal/models"
)

// DefaultBaseURL is the public demo catalog
const DefaultBaseURL = "https://fakestoreapi.com"

// ErrUnexpectedStatus is returned for a non-2xx response
var ErrUnexpectedStatus = errors.New("unexpected response status")

// Client представляет HTTP клиент внешнего каталога
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	baseURL    string
}

// NewClient создает новый клиент каталога
func NewClient(baseURL string, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// FetchProducts загружает и нормализует список товаров
func (c *Client) FetchProducts(ctx context.Context) ([]models.Product, error) {
	var raw []RawProduct
	if err := c.doRequest(ctx, http.MethodGet, "/products", &raw); err != nil {
		return nil, fmt.Errorf("fetch products request failed: %w", err)
	}

	products := make([]models.Product, 0, len(raw))
	for _, r := range raw {
		products = append(products, Normalize(r))
	}

	c.logger.DebugContext(ctx, "feed fetched", slog.Int("count", len(products)))
	return products, nil
}

// doRequest выполняет HTTP запрос и декодирует JSON ответ
func (c *Client) doRequest(ctx context.Context, method, path string, result any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
