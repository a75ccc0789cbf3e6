// Package zigbang fetches listings from the Zigbang item API and normalizes
// them into house platform bundles.
package zigbang

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	apiURL         = "https://apis.zigbang.com"
	userAgent      = "spigell/abang"
	defaultTimeout = 10 * time.Second
	domain         = "zigbang"
)

// Item is a raw Zigbang payload, either a batch summary or a detail object.
type Item map[string]any

// Config configures the transport client.
type Config struct {
	APIURL    string        `mapstructure:"api-url"`
	UserAgent string        `mapstructure:"user-agent"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type Client struct {
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
}

func New(logger *zap.Logger, cfg Config) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	c := &Client{
		logger:     logger,
		APIURL:     apiURL,
		UserAgent:  userAgent,
		HTTPClient: &http.Client{Timeout: timeout},
	}

	if u := strings.TrimRight(strings.TrimSpace(cfg.APIURL), "/"); u != "" {
		c.APIURL = u
	}
	if ua := strings.TrimSpace(cfg.UserAgent); ua != "" {
		c.UserAgent = ua
	}

	return c
}

type listRequest struct {
	Domain  string  `json:"domain"`
	ItemIDs []int64 `json:"item_ids"`
}

type listResponse struct {
	Items []Item `json:"items"`
}

// FetchByItemIDs returns the summaries of the requested items in one call.
func (c *Client) FetchByItemIDs(ctx context.Context, ids []int64) ([]Item, error) {
	var response listResponse
	url := fmt.Sprintf("%s/v2/items/list", c.APIURL)
	if err := c.postJSON(ctx, url, listRequest{Domain: domain, ItemIDs: ids}, &response); err != nil {
		return nil, fmt.Errorf("fetch items list: %w", err)
	}

	c.logger.Debug("got items from zigbang", zap.Int("requested", len(ids)), zap.Int("received", len(response.Items)))

	return response.Items, nil
}

// FetchDetail returns the detail payload of a single item.
func (c *Client) FetchDetail(ctx context.Context, id int64) (Item, error) {
	var response Item
	url := fmt.Sprintf("%s/v3/items/%d", c.APIURL, id)
	if err := c.getJSON(ctx, url, map[string]string{"domain": domain}, &response); err != nil {
		return nil, fmt.Errorf("fetch item %d: %w", id, err)
	}

	if nested, ok := response["item"].(map[string]any); ok {
		return Item(nested), nil
	}

	return response, nil
}
