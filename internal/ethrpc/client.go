// Package ethrpc wraps go-ethereum's client with the retry and timeout
// behavior every chain read in this repo shares.
package ethrpc

import (
	"context"
	"errors"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hexscope/contract-recon/internal/metrics"
)

// Client is an ethclient with bounded retries around the read calls the
// recon pipeline issues. The final error passes through unchanged so
// revert payloads (rpc.DataError) stay decodable.
type Client struct {
	*ethclient.Client
	lggr     *zap.SugaredLogger
	attempts uint
	delay    time.Duration
	timeout  time.Duration
}

type Option func(*Client)

func WithAttempts(n uint) Option {
	return func(c *Client) {
		if n > 0 {
			c.attempts = n
		}
	}
}

func WithRetryDelay(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.delay = d
		}
	}
}

func WithCallTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// Dial connects over HTTP with keep-alives sized for burst probing.
func Dial(url string, lggr *zap.SugaredLogger, opts ...Option) (*Client, error) {
	transport := &http.Transport{
		MaxIdleConns:    100,
		IdleConnTimeout: 90 * time.Second,
	}
	httpClient := &http.Client{
		Timeout:   30 * time.Second,
		Transport: transport,
	}
	rpcClient, err := rpc.DialHTTPWithClient(url, httpClient)
	if err != nil {
		return nil, err
	}
	return New(ethclient.NewClient(rpcClient), lggr, opts...), nil
}

// New wraps an already-dialed ethclient.
func New(ec *ethclient.Client, lggr *zap.SugaredLogger, opts ...Option) *Client {
	c := &Client{
		Client:   ec,
		lggr:     lggr,
		attempts: 3,
		delay:    200 * time.Millisecond,
		timeout:  10 * time.Second,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error) {
	return c.withRetry(ctx, "eth_getCode", func(ctx context.Context) ([]byte, error) {
		return c.Client.CodeAt(ctx, account, blockNumber)
	})
}

func (c *Client) StorageAt(ctx context.Context, account common.Address, key common.Hash, blockNumber *big.Int) ([]byte, error) {
	return c.withRetry(ctx, "eth_getStorageAt", func(ctx context.Context) ([]byte, error) {
		return c.Client.StorageAt(ctx, account, key, blockNumber)
	})
}

func (c *Client) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	return c.withRetry(ctx, "eth_call", func(ctx context.Context) ([]byte, error) {
		return c.Client.CallContract(ctx, call, blockNumber)
	})
}

func (c *Client) withRetry(ctx context.Context, method string, fn func(context.Context) ([]byte, error)) ([]byte, error) {
	traceID := uuid.NewString()
	var out []byte
	err := retry.Do(
		func() error {
			callCtx, cancel := ensureTimeout(ctx, c.timeout)
			defer cancel()
			var ferr error
			out, ferr = fn(callCtx)
			return ferr
		},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(c.delay),
		retry.LastErrorOnly(true),
		retry.RetryIf(transient),
		retry.OnRetry(func(n uint, err error) {
			metrics.RPCRetriesTotal.WithLabelValues(method).Inc()
			c.lggr.Warnf("retrying %s attempt=%d trace=%s err: %v", method, n+1, traceID, err)
		}),
	)
	return out, err
}

// transient reports whether a call is worth repeating. Reverts carry
// their payload in a DataError and must reach the caller on the first
// attempt; only provider throttling and flaky transport get another go.
func transient(err error) bool {
	var de rpc.DataError
	if errors.As(err, &de) {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{
		"429",
		"too many requests",
		"rate limit",
		"connection refused",
		"connection reset",
		"i/o timeout",
		"eof",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return errors.Is(err, context.DeadlineExceeded)
}

// ensureTimeout bounds one attempt without touching callers that already
// pass a deadline-free context on purpose.
func ensureTimeout(parent context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return parent, func() {}
	}
	return context.WithTimeout(parent, d)
}
