package fourseller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/midastechnical/storefront-sync/pkg/config"
	"github.com/midastechnical/storefront-sync/pkg/enums"
	"github.com/midastechnical/storefront-sync/pkg/logger"
	"github.com/midastechnical/storefront-sync/pkg/metrics"
	"github.com/midastechnical/storefront-sync/pkg/retry"
)

const sellerIDHeader = "X-Seller-ID"

var (
	errAPIKeyRequired   = errors.New("fourseller api key is required")
	errSellerIDRequired = errors.New("fourseller seller id is required")
	errLoggerRequired   = errors.New("fourseller logger is required")
)

// Client talks to the 4Seller marketplace API with centralized auth, retry,
// audit logging, and error mapping.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	sellerID   string
	policy     retry.Policy
	audit      AuditLogger
	logger     *logger.Logger
	metrics    *metrics.ChannelMetrics
}

// ClientParams configure the marketplace client.
type ClientParams struct {
	Config  config.FourSellerConfig
	Audit   AuditLogger
	Logger  *logger.Logger
	Metrics *metrics.ChannelMetrics
	// HTTPClient overrides the default client; used by tests.
	HTTPClient *http.Client
}

// NewClient validates the credentials and builds the marketplace client.
func NewClient(ctx context.Context, params ClientParams) (*Client, error) {
	if params.Logger == nil {
		return nil, errLoggerRequired
	}
	apiKey := strings.TrimSpace(params.Config.APIKey)
	if apiKey == "" {
		return nil, errAPIKeyRequired
	}
	sellerID := strings.TrimSpace(params.Config.SellerID)
	if sellerID == "" {
		return nil, errSellerIDRequired
	}

	httpClient := params.HTTPClient
	if httpClient == nil {
		timeout := params.Config.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	attempts := params.Config.RetryAttempts
	if attempts <= 0 {
		attempts = 3
	}
	policy := retry.Policy{
		MaxAttempts: uint(attempts),
		BaseDelay:   params.Config.RetryBaseWait,
		MaxDelay:    params.Config.RetryMaxWait,
		Retryable:   IsRetryable,
	}

	c := &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(params.Config.BaseURL, "/"),
		apiKey:     apiKey,
		sellerID:   sellerID,
		policy:     policy,
		audit:      params.Audit,
		logger:     params.Logger,
		metrics:    params.Metrics,
	}

	params.Logger.Info(ctx, "fourseller client initialized")
	return c, nil
}

// ChannelError carries the HTTP outcome of a failed marketplace call.
type ChannelError struct {
	Action     enums.SyncAction
	StatusCode int
	Body       string
	cause      error
}

func (e *ChannelError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("fourseller %s: %v", e.Action, e.cause)
	}
	return fmt.Sprintf("fourseller %s: status %d: %s", e.Action, e.StatusCode, e.Body)
}

func (e *ChannelError) Unwrap() error {
	return e.cause
}

// Retryable reports whether another attempt could succeed. Server-side
// failures and transport errors (timeouts included) qualify; 4xx never does.
func (e *ChannelError) Retryable() bool {
	return e.StatusCode == 0 || e.StatusCode >= http.StatusInternalServerError
}

// IsRetryable is the retry predicate shared with pkg/retry.
func IsRetryable(err error) bool {
	var chErr *ChannelError
	if errors.As(err, &chErr) {
		return chErr.Retryable()
	}
	return true
}

// call performs one logical API operation with retry, metrics, and an audit
// row recorded exactly once regardless of outcome.
func (c *Client) call(ctx context.Context, action enums.SyncAction, method, path string, query url.Values, body any, out any, audit auditEntry) error {
	var payload []byte
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding %s payload: %w", action, err)
		}
		payload = encoded
	}

	attempt := func() (int, error) {
		return c.roundTrip(ctx, action, method, path, query, payload, out)
	}

	onRetry := c.policy.OnRetry
	policy := c.policy
	policy.OnRetry = func(err error, next time.Duration) {
		c.metrics.IncRetry(action.String())
		retryCtx := c.logger.WithChannel(ctx, "fourseller")
		retryCtx = c.logger.WithFields(retryCtx, map[string]any{
			"action":  action.String(),
			"wait_ms": next.Milliseconds(),
		})
		c.logger.Warn(retryCtx, "marketplace call failed; retrying")
		if onRetry != nil {
			onRetry(err, next)
		}
	}

	status, err := retry.Do(ctx, policy, attempt)
	c.recordAudit(ctx, action, audit, status, err)
	return err
}

// roundTrip executes a single HTTP attempt.
func (c *Client) roundTrip(ctx context.Context, action enums.SyncAction, method, path string, query url.Values, payload []byte, out any) (int, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return 0, &ChannelError{Action: action, cause: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(sellerIDHeader, c.sellerID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveRequest(action.String(), 0, time.Since(start))
		return 0, &ChannelError{Action: action, cause: err}
	}
	defer resp.Body.Close()

	c.metrics.ObserveRequest(action.String(), resp.StatusCode, time.Since(start))

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, &ChannelError{Action: action, StatusCode: resp.StatusCode, cause: err}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return resp.StatusCode, &ChannelError{
			Action:     action,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(raw)),
		}
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return resp.StatusCode, &ChannelError{Action: action, StatusCode: resp.StatusCode, cause: fmt.Errorf("decoding response: %w", err)}
		}
	}
	return resp.StatusCode, nil
}
