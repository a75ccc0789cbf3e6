package zigbang

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/spigell/abang/internal/utils"
)

const (
	contentType     = "application/json"
	contentEncoding = "gzip"
	maxLoggedBody   = 512
)

func (c *Client) postJSON(ctx context.Context, url string, payload, target any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}

	req = c.setHeaders(req)
	req.Header.Set("Content-Type", contentType)

	return c.do(req, target)
}

func (c *Client) getJSON(ctx context.Context, url string, query map[string]string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	req = c.setHeaders(req)
	q := req.URL.Query()
	for key, val := range query {
		q.Set(key, val)
	}
	req.URL.RawQuery = q.Encode()

	return c.do(req, target)
}

func (c *Client) do(req *http.Request, target any) error {
	c.logger.Debug("make request", zap.String("method", req.Method), zap.String("url", req.URL.String()))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return err
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Debug("unexpected response", zap.String("body", utils.TruncateForLog(string(data), maxLoggedBody)))
		return fmt.Errorf("bad status: %s", resp.Status)
	}

	if target == nil {
		return nil
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	return decoder.Decode(target)
}

func (c *Client) setHeaders(req *http.Request) *http.Request {
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", contentType)
	req.Header.Set("Accept-Encoding", contentEncoding)

	return req
}
