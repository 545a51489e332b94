// Package siglookup resolves 4-byte selectors to human-readable function
// signatures through external selector directories.
package siglookup

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client queries one selector-keyed directory. The service answers with
// the resolved signature, or echoes the selector back when it has no entry
// (the conventional not-found signal, honored here on the read side).
type Client struct {
	BaseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 12 * time.Second
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Lookup fetches the signature for a 0x-prefixed selector. The sentinel
// echo and every transport or decoding problem come back as ("", false);
// a lookup can degrade but never fail the caller.
func (c *Client) Lookup(ctx context.Context, selector string) (string, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/"+selector, nil)
	if err != nil {
		return "", false
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return "", false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", false
	}
	rb, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", false
	}
	var jr struct {
		Result string `json:"result"`
		Error  *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rb, &jr); err != nil {
		return "", false
	}
	if jr.Error != nil {
		return "", false
	}
	sig := strings.TrimSpace(jr.Result)
	if sig == "" || strings.EqualFold(sig, strings.TrimSpace(selector)) {
		return "", false
	}
	return sig, true
}
