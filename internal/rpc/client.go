package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Sentinel errors surfaced to commands. All are terminal for an invocation;
// nothing is retried beyond the client's internal backoff.
var (
	// ErrInvalidTxHash means the argument is not 0x followed by 64 hex chars.
	// Raised before any network call.
	ErrInvalidTxHash = errors.New("invalid transaction hash: expected 0x followed by 64 hex characters")

	// ErrTxNotFound means the node returned null for the transaction hash.
	ErrTxNotFound = errors.New("transaction not found")

	// ErrReceiptPending means the transaction is known but not yet included
	// in a block, so no receipt exists.
	ErrReceiptPending = errors.New("transaction receipt pending (not yet included in a block)")
)

// ErrorType categorizes call failures for latency/error breakdowns.
type ErrorType string

const (
	ErrorTypeNone        ErrorType = ""
	ErrorTypeTimeout     ErrorType = "timeout"
	ErrorTypeConnection  ErrorType = "connection"
	ErrorTypeRateLimit   ErrorType = "rate_limit"
	ErrorTypeServerError ErrorType = "server_error"
	ErrorTypeParseError  ErrorType = "parse_error"
	ErrorTypeRPCError    ErrorType = "rpc_error"
	ErrorTypeOther       ErrorType = "other"
)

// CallResult wraps one JSON-RPC call with timing and failure classification.
type CallResult struct {
	Provider  string
	Method    string
	Latency   time.Duration
	Success   bool
	Response  *Response
	Error     error
	ErrorType ErrorType
}

// ClientConfig holds everything needed to construct a Client.
type ClientConfig struct {
	Name           string
	URL            string
	Timeout        time.Duration
	MaxRetries     int
	BackoffInitial time.Duration
	BackoffMax     time.Duration
}

// Client is a JSON-RPC HTTP client for a single provider endpoint.
type Client struct {
	name           string
	url            string
	httpClient     *http.Client
	maxRetries     int
	backoffInitial time.Duration
	backoffMax     time.Duration
}

// NewClient creates a client. Zero backoff values fall back to 100ms initial
// and 2s cap.
func NewClient(cfg ClientConfig) *Client {
	if cfg.BackoffInitial <= 0 {
		cfg.BackoffInitial = 100 * time.Millisecond
	}
	if cfg.BackoffMax <= 0 {
		cfg.BackoffMax = 2 * time.Second
	}
	return &Client{
		name:           cfg.Name,
		url:            cfg.URL,
		httpClient:     &http.Client{Timeout: cfg.Timeout},
		maxRetries:     cfg.MaxRetries,
		backoffInitial: cfg.BackoffInitial,
		backoffMax:     cfg.BackoffMax,
	}
}

func (c *Client) Name() string { return c.name }
func (c *Client) URL() string  { return c.url }

// Call executes a JSON-RPC method with exponential backoff retry
// (initial, 2×initial, 4×initial, ... capped at backoffMax).
func (c *Client) Call(ctx context.Context, method string, params ...interface{}) *CallResult {
	if params == nil {
		params = []interface{}{}
	}

	req := Request{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      1,
	}
	body, _ := json.Marshal(req)

	result := &CallResult{
		Provider: c.name,
		Method:   method,
	}

	start := time.Now()
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		resp, err := c.doRequest(ctx, body)
		if err == nil {
			result.Latency = time.Since(start)
			result.Success = true
			result.Response = resp
			return result
		}
		lastErr = err

		if attempt < c.maxRetries {
			backoff := c.backoffInitial << attempt
			if backoff > c.backoffMax {
				backoff = c.backoffMax
			}
			select {
			case <-ctx.Done():
				result.Latency = time.Since(start)
				result.Error = ctx.Err()
				result.ErrorType = ErrorTypeTimeout
				return result
			case <-time.After(backoff):
			}
		}
	}

	result.Latency = time.Since(start)
	result.Error = fmt.Errorf("failed after %d attempts: %w", c.maxRetries+1, lastErr)
	result.ErrorType = classifyError(lastErr)
	return result
}

func (c *Client) doRequest(ctx context.Context, body []byte) (*Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, &httpStatusError{code: httpResp.StatusCode}
	}

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, err
	}

	var resp Response
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, &parseError{err: err}
	}

	if resp.Error != nil {
		return nil, &rpcCallError{code: resp.Error.Code, message: resp.Error.Message}
	}

	return &resp, nil
}

type httpStatusError struct{ code int }

func (e *httpStatusError) Error() string { return fmt.Sprintf("HTTP %d", e.code) }

type parseError struct{ err error }

func (e *parseError) Error() string { return fmt.Sprintf("invalid JSON response: %v", e.err) }
func (e *parseError) Unwrap() error { return e.err }

type rpcCallError struct {
	code    int
	message string
}

func (e *rpcCallError) Error() string { return fmt.Sprintf("RPC error %d: %s", e.code, e.message) }

// classifyError maps a call failure onto the error taxonomy used for the
// latency command's error breakdown.
func classifyError(err error) ErrorType {
	if err == nil {
		return ErrorTypeNone
	}

	var statusErr *httpStatusError
	if errors.As(err, &statusErr) {
		if statusErr.code == http.StatusTooManyRequests {
			return ErrorTypeRateLimit
		}
		if statusErr.code >= 500 {
			return ErrorTypeServerError
		}
		return ErrorTypeOther
	}

	var pErr *parseError
	if errors.As(err, &pErr) {
		return ErrorTypeParseError
	}

	var rErr *rpcCallError
	if errors.As(err, &rErr) {
		return ErrorTypeRPCError
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorTypeTimeout
	}

	// net/http wraps timeouts in *url.Error with a Timeout() bool.
	var timeoutErr interface{ Timeout() bool }
	if errors.As(err, &timeoutErr) && timeoutErr.Timeout() {
		return ErrorTypeTimeout
	}

	msg := err.Error()
	if strings.Contains(msg, "connection refused") || strings.Contains(msg, "no such host") {
		return ErrorTypeConnection
	}

	return ErrorTypeOther
}
