package aop

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"payurl-service/internal/core/logger"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

const (
	formContentType = "application/x-www-form-urlencoded; charset=UTF-8"
	maxBodyBytes    = 1 << 20
)

var (
	// ErrTransport wraps network, timeout and non-JSON payload failures.
	ErrTransport = errors.New("gateway transport failure")
)

// Credentials identify the application and the authorizing buyer.
type Credentials struct {
	AppKey      string
	AppSecret   string
	AccessToken string
}

// API names one gateway operation, e.g. com.alibaba.trade / alibaba.trade.get.buyerView v1.
type API struct {
	Namespace string
	Name      string
	Version   int
}

// Path returns the signing path of the API, which is also the URL suffix.
func (a API) Path(appKey string) string {
	return fmt.Sprintf("param2/%d/%s/%s/%s", a.Version, a.Namespace, a.Name, appKey)
}

// String returns namespace:name for logs.
func (a API) String() string {
	return a.Namespace + ":" + a.Name
}

// RetryPolicy bounds CallWithRetry.
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int
	// Backoff is the fixed pause between attempts.
	Backoff time.Duration
}

// Client performs signed calls against the gateway. It holds no per-call
// state and is safe for concurrent use.
type Client struct {
	baseURL string
	creds   Credentials
	http    *http.Client
	now     func() time.Time
	sleep   func(ctx context.Context, d time.Duration) error
}

// NewClient creates a gateway client rooted at baseURL (e.g. https://gw.open.1688.com/openapi).
func NewClient(baseURL string, creds Credentials, httpClient *http.Client) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		creds:   creds,
		http:    httpClient,
		now:     time.Now,
		sleep:   sleepOrDone,
	}
}

// Call performs a single signed call bounded by timeout.
// Failures never surface as errors: they come back as a Response with
// Success false and Error describing the failure.
func (c *Client) Call(ctx context.Context, api API, params map[string]string, timeout time.Duration) *Response {
	resp, err := c.do(ctx, api, params, timeout)
	if err != nil {
		logger.Named("aop").Warn("Gateway call failed",
			zap.String("api", api.String()),
			zap.Error(err),
		)
		return failure(err)
	}
	return resp
}

// CallWithRetry performs Call with up to policy.MaxAttempts attempts on
// transport failure, pausing policy.Backoff between attempts. Each attempt
// carries a fresh timestamp and signature; the gateway rejects stale ones.
// A response that decoded successfully is returned as is, even when the
// gateway reports a business failure.
func (c *Client) CallWithRetry(ctx context.Context, api API, params map[string]string, timeout time.Duration, policy RetryPolicy) *Response {
	attempts := policy.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	log := logger.Named("aop")
	schedule := retrySchedule(ctx, policy.Backoff, attempts)

	var lastErr error
	for attempt := 1; ; attempt++ {
		resp, err := c.do(ctx, api, params, timeout)
		if err == nil {
			return resp
		}
		lastErr = err

		log.Warn("Gateway call attempt failed",
			zap.String("api", api.String()),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", attempts),
			zap.Error(err),
		)

		wait := schedule.NextBackOff()
		if wait == backoff.Stop {
			break
		}
		if err := c.sleep(ctx, wait); err != nil {
			lastErr = fmt.Errorf("%w: %v", ErrTransport, err)
			break
		}
	}

	return failure(lastErr)
}

// retrySchedule yields a constant pause between attempts and stops after
// attempts-1 pauses or once ctx is done.
func retrySchedule(ctx context.Context, pause time.Duration, attempts int) backoff.BackOff {
	return backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(pause), uint64(attempts-1)),
		ctx,
	)
}

func (c *Client) do(ctx context.Context, api API, params map[string]string, timeout time.Duration) (*Response, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	path := api.Path(c.creds.AppKey)
	form := c.signedForm(path, params)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", formContentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", ErrTransport, err)
	}

	var out Response
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response (status %d): %v", ErrTransport, resp.StatusCode, err)
	}

	return &out, nil
}

// signedForm adds credentials and a millisecond timestamp to params, signs
// the result and returns the form to transmit. params is not modified.
func (c *Client) signedForm(path string, params map[string]string) url.Values {
	signed := make(map[string]string, len(params)+2)
	for k, v := range params {
		signed[k] = v
	}
	signed[ParamAccessToken] = c.creds.AccessToken
	signed[ParamTimestamp] = strconv.FormatInt(c.now().UnixMilli(), 10)

	form := make(url.Values, len(signed)+1)
	for k, v := range signed {
		form.Set(k, v)
	}
	form.Set(ParamSignature, Sign(path, signed, c.creds.AppSecret))
	return form
}

// sleepOrDone waits for d or returns early on context cancellation.
func sleepOrDone(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
