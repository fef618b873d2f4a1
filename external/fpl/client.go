package fpl

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/singleflight"

	"github.com/riskibarqy/score-predictor/internal/platform/logging"
	"github.com/riskibarqy/score-predictor/internal/platform/resilience"
	"github.com/riskibarqy/score-predictor/internal/usecase"
)

const (
	defaultBaseURL       = "https://fantasy.premierleague.com/api"
	defaultFixturesPath  = "/fixtures/"
	defaultBootstrapPath = "/bootstrap-static/"
	defaultUserAgent     = "score-predictor/1.0"
	maxBodyPreview       = 256
)

var errFPLTransient = crerr.New("fpl transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	FixturesPath   string
	BootstrapPath  string
	UserAgent      string
	Timeout        time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client reads the public FPL API. Requests are never retried.
type Client struct {
	http          *resty.Client
	fixturesPath  string
	bootstrapPath string
	logger        *logging.Logger
	breaker       *resilience.CircuitBreaker
	flight        singleflight.Group
	timeout       time.Duration
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	var httpClient *resty.Client
	if cfg.HTTPClient != nil {
		httpClient = resty.NewWithClient(cfg.HTTPClient)
	} else {
		httpClient = resty.New().SetTransport(otelhttp.NewTransport(http.DefaultTransport))
	}
	httpClient.
		SetBaseURL(firstNonEmpty(strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"), defaultBaseURL)).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", firstNonEmpty(strings.TrimSpace(cfg.UserAgent), defaultUserAgent))

	return &Client{
		http:          httpClient,
		fixturesPath:  firstNonEmpty(strings.TrimSpace(cfg.FixturesPath), defaultFixturesPath),
		bootstrapPath: firstNonEmpty(strings.TrimSpace(cfg.BootstrapPath), defaultBootstrapPath),
		logger:        logger,
		breaker:       resilience.NewCircuitBreakerFromConfig(cfg.CircuitBreaker),
		timeout:       timeout,
	}
}

func (c *Client) FetchFixtures(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, c.fixturesPath)
}

func (c *Client) FetchBootstrap(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, c.bootstrapPath)
}

// get shares one upstream request per path. The request runs detached from
// the first caller's cancellation, bounded by the client timeout.
func (c *Client) get(ctx context.Context, path string) (json.RawMessage, error) {
	ch := c.flight.DoChan(path, func() (any, error) {
		reqCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()

		var raw []byte
		execErr := c.breaker.Execute(func() error {
			var reqErr error
			raw, reqErr = c.execute(reqCtx, path)
			return reqErr
		}, isCircuitFailure)
		return raw, execErr
	})

	var out any
	var err error
	select {
	case res := <-ch:
		out, err = res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if crerr.Is(err, resilience.ErrCircuitOpen) {
		c.logger.WarnContext(ctx, "fpl circuit breaker rejected request", "path", path, "state", c.breaker.State())
		return nil, fmt.Errorf("%w: fpl api is temporarily unavailable", usecase.ErrDependencyUnavailable)
	}
	if err != nil {
		return nil, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", out)
	}
	return json.RawMessage(raw), nil
}

func (c *Client) execute(ctx context.Context, path string) ([]byte, error) {
	start := time.Now()
	resp, err := c.http.R().SetContext(ctx).Get(path)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		c.logger.WarnContext(ctx, "fpl request failed", "path", path, "error", err)
		return nil, crerr.Wrapf(errFPLTransient, "send request path=%s: %v", path, err)
	}

	status := resp.StatusCode()
	body := resp.Body()
	if status < 200 || status >= 300 {
		c.logger.WarnContext(ctx, "fpl request returned non-2xx",
			"path", path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		if isTransientStatus(status) {
			return nil, crerr.Wrapf(errFPLTransient, "fpl status=%d body=%s", status, abbreviate(body))
		}
		return nil, crerr.Newf("fpl status=%d body=%s", status, abbreviate(body))
	}
	if len(body) == 0 {
		return nil, crerr.Wrapf(errFPLTransient, "empty body path=%s", path)
	}

	return body, nil
}

func isCircuitFailure(err error) bool {
	return crerr.Is(err, errFPLTransient)
}

func isTransientStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

func abbreviate(raw []byte) string {
	text := strings.TrimSpace(string(raw))
	if len(text) > maxBodyPreview {
		return text[:maxBodyPreview] + "..."
	}
	return text
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
