package startgg

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/tournament-sync/internal/platform/logging"
	"github.com/riskibarqy/tournament-sync/internal/platform/resilience"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultAPIURL             = "https://api.start.gg/gql/alpha"
	DefaultTimeout            = 10 * time.Second
	DefaultMaxRetries         = 2
	DefaultRetryBackoff       = time.Second
	DefaultMinRequestInterval = 100 * time.Millisecond
	DefaultMaxPages           = 50
	DefaultTournamentPageSize = 25
	DefaultEntrantPageSize    = 50

	maxResponseBytes = 6 << 20
)

var bearerRegex = regexp.MustCompile(`(?i)bearer\s+[^\s"']+`)
var operationNameRegex = regexp.MustCompile(`^\s*(?:query|mutation)\s+([A-Za-z_][A-Za-z0-9_]*)`)

type ClientConfig struct {
	HTTPClient   *http.Client
	APIURL       string
	Token        string
	Timeout      time.Duration
	MaxRetries   int
	RetryBackoff time.Duration
	// MinRequestInterval below zero disables the throttle; zero selects the default.
	MinRequestInterval time.Duration
	MaxPages           int
	PageSize           int
	EntrantPageSize    int
	Logger             *logging.Logger
	CircuitBreaker     resilience.CircuitBreakerConfig
	// Throttle and Breaker, when set, are shared with other clients instead of
	// building new ones from the config above.
	Throttle *resilience.Throttle
	Breaker  *resilience.CircuitBreaker
}

// Client talks to the start.gg GraphQL API. It is safe for concurrent use; all
// requests are serialized through its throttle.
type Client struct {
	httpClient *http.Client
	apiURL     string
	token      string
	retry      resilience.RetryPolicy
	maxPages   int
	pageSize   int
	entrants   int
	logger     *logging.Logger
	breaker    *resilience.CircuitBreaker
	throttle   *resilience.Throttle
	flight     resilience.SingleFlight
	now        func() time.Time
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = timeout
	}

	apiURL := strings.TrimRight(strings.TrimSpace(cfg.APIURL), "/")
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}

	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = DefaultRetryBackoff
	}

	throttle := cfg.Throttle
	if throttle == nil {
		interval := cfg.MinRequestInterval
		if interval == 0 {
			interval = DefaultMinRequestInterval
		}
		throttle = resilience.NewThrottle(interval)
	}

	breaker := cfg.Breaker
	if breaker == nil {
		breaker = NewCircuitBreaker(cfg.CircuitBreaker, logger)
	}

	return &Client{
		httpClient: httpClient,
		apiURL:     apiURL,
		token:      strings.TrimSpace(cfg.Token),
		retry:      resilience.RetryPolicy{MaxRetries: maxInt(cfg.MaxRetries, 0), Backoff: backoff},
		maxPages:   positiveOr(cfg.MaxPages, DefaultMaxPages),
		pageSize:   cfg.PageSize,
		entrants:   cfg.EntrantPageSize,
		logger:     logger,
		breaker:    breaker,
		throttle:   throttle,
		now:        time.Now,
	}
}

// NewCircuitBreaker builds a breaker that logs its transitions. It returns nil
// when cfg is disabled.
func NewCircuitBreaker(cfg resilience.CircuitBreakerConfig, logger *logging.Logger) *resilience.CircuitBreaker {
	if logger == nil {
		logger = logging.Default()
	}
	breaker := resilience.NewCircuitBreakerFromConfig(resilience.NormalizeCircuitBreakerConfig(cfg))
	breaker.OnStateChange(func(from, to resilience.CircuitState) {
		logger.Warn("startgg circuit breaker state changed", "from", from, "to", to)
	})
	return breaker
}

// Query posts one GraphQL document. On success the "data" member is decoded
// into out (when non-nil) and the raw response body is returned.
func (c *Client) Query(ctx context.Context, document string, variables map[string]any, out any) ([]byte, error) {
	if variables == nil {
		variables = map[string]any{}
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(graphQLRequest{Query: document, Variables: variables}); err != nil {
		return nil, fmt.Errorf("encode graphql request: %w", err)
	}
	body := buf.Bytes()

	operation := operationName(document)
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("startgg.operation", operation),
			attribute.Int("startgg.request_bytes", len(body)),
		)
	}

	if err := c.breaker.Allow(); err != nil {
		c.logger.WarnContext(ctx, "startgg circuit breaker rejected request", "operation", operation, "state", c.breaker.State())
		return nil, &TransportError{Op: operation, Err: crerr.Mark(err, errStartGGTransient)}
	}

	out2, err, _ := c.flight.Do(string(body), func() (any, error) {
		var raw []byte
		reqErr := c.throttle.Do(ctx, func() error {
			var execErr error
			raw, execErr = c.executeRequest(ctx, operation, body)
			return execErr
		})
		if reqErr != nil && isTransient(reqErr) {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
		return raw, reqErr
	})
	if err != nil {
		return nil, err
	}

	raw, ok := out2.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", out2)
	}

	var envelope graphQLEnvelope
	if err := sonic.Unmarshal(raw, &envelope); err != nil {
		return nil, &ProtocolError{StatusCode: http.StatusOK, Message: "JSON decode error: " + err.Error()}
	}
	if len(envelope.Errors) > 0 {
		msg := strings.TrimSpace(envelope.Errors[0].Message)
		if msg == "" {
			msg = "Unknown GraphQL error"
		}
		return nil, &ProtocolError{StatusCode: http.StatusOK, Message: msg}
	}
	if out != nil && len(envelope.Data) > 0 {
		if err := sonic.Unmarshal(envelope.Data, out); err != nil {
			return nil, &ProtocolError{StatusCode: http.StatusOK, Message: "JSON decode error: " + err.Error()}
		}
	}

	return raw, nil
}

func (c *Client) executeRequest(ctx context.Context, operation string, body []byte) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.retry.MaxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			lastErr = newTransportError(operation, err, c.token)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = newTransportError(operation, fmt.Errorf("read response body: %w", readErr), c.token)
			case resp.StatusCode == http.StatusOK:
				return raw, nil
			default:
				return nil, &ProtocolError{
					StatusCode: resp.StatusCode,
					Message:    fmt.Sprintf("HTTP error %d: %s", resp.StatusCode, sanitizeSensitiveText(abbreviateBody(raw), c.token)),
				}
			}
		}

		if attempt == c.retry.MaxRetries {
			break
		}
		c.logger.DebugContext(ctx, "startgg request retrying", "operation", operation, "attempt", attempt+1, "error", lastErr)
		if err := resilience.Sleep(ctx, c.retry.Delay(attempt)); err != nil {
			return nil, err
		}
	}

	c.logger.WarnContext(ctx, "startgg request failed", "operation", operation, "url", c.apiURL, "error", lastErr)
	return nil, lastErr
}

func operationName(document string) string {
	if m := operationNameRegex.FindStringSubmatch(document); len(m) == 2 {
		return m[1]
	}
	return "anonymous"
}

func sanitizeSensitiveText(value, token string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if token != "" {
		value = strings.ReplaceAll(value, token, "REDACTED")
	}
	return bearerRegex.ReplaceAllString(value, "Bearer REDACTED")
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

func maxInt(left, right int) int {
	if left > right {
		return left
	}
	return right
}

func positiveOr(value, fallback int) int {
	if value > 0 {
		return value
	}
	return fallback
}
