package httpclient

import (
	"net/http"
	"time"

	"payurl-service/internal/core/logger"
	"payurl-service/internal/core/proxy"

	"go.uber.org/zap"
)

// LoggingRoundTripper captures request details for debugging.
// Only scheme, host and path are logged; gateway credentials travel in the
// form body and never reach the log.
type LoggingRoundTripper struct {
	// Proxied is the underlying RoundTripper to execute the request.
	Proxied http.RoundTripper
}

// RoundTrip executes the request and logs details.
func (lrt *LoggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	log := logger.Named("http")
	target := req.URL.Scheme + "://" + req.URL.Host + req.URL.Path

	log.Debug("HTTP Request Started",
		zap.String("method", req.Method),
		zap.String("url", target),
		zap.Int64("content_length", req.ContentLength),
	)

	resp, err := lrt.Proxied.RoundTrip(req)

	duration := time.Since(start)

	if err != nil {
		log.Error("HTTP Request Failed",
			zap.String("method", req.Method),
			zap.String("url", target),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, err
	}

	log.Debug("HTTP Request Completed",
		zap.String("method", req.Method),
		zap.String("url", target),
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("duration", duration),
	)

	return resp, nil
}

// NewClient returns an http.Client with logging middleware routed through
// the given proxy settings. A zero timeout leaves deadlines to the request context.
func NewClient(timeout time.Duration, settings proxy.Settings) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = settings.ProxyFunc()

	return &http.Client{
		Transport: &LoggingRoundTripper{
			Proxied: transport,
		},
		Timeout: timeout,
	}
}
