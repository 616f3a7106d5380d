// Package api is the single outbound gateway to the backend. Every call
// goes through one transport that attaches the bearer credential, unwraps
// the response envelope and classifies failures into the domain taxonomy,
// so callers never re-derive error kinds from status codes.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mlobankov/resume-pilot/internal/core/domain"
	"github.com/mlobankov/resume-pilot/internal/infrastructure/resilience"
	"github.com/mlobankov/resume-pilot/internal/observability/metrics"
)

const requestIDHeader = "X-Request-Id"

// TokenProvider yields the current bearer credential, if any. The session
// manager owns the write side; the transport only reads.
type TokenProvider interface {
	Token() (string, bool)
}

type Client struct {
	baseURL        string
	httpClient     *http.Client
	tokens         TokenProvider
	onUnauthorized func()
	executor       *resilience.Executor
	metrics        *metrics.ClientMetrics
	logger         *slog.Logger
}

type Options struct {
	HTTPTimeout time.Duration
	Tokens      TokenProvider
	// OnUnauthorized runs when a call outside login/register comes back
	// 401: the session is torn down and the user sent to the entry
	// surface. Login/register failures pass through untouched so the
	// caller can render a precise message.
	OnUnauthorized func()
	Executor       *resilience.Executor
	Metrics        *metrics.ClientMetrics
	Logger         *slog.Logger
}

func New(baseURL string, opts Options) *Client {
	timeout := opts.HTTPTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		httpClient:     &http.Client{Timeout: timeout},
		tokens:         opts.Tokens,
		onUnauthorized: opts.OnUnauthorized,
		executor:       opts.Executor,
		metrics:        opts.Metrics,
		logger:         logger,
	}
}

// SetUnauthorizedHook installs the forced-teardown callback after
// construction; wiring is circular otherwise (the session manager both
// uses the transport and reacts to its auth failures).
func (c *Client) SetUnauthorizedHook(hook func()) {
	c.onUnauthorized = hook
}

// CloseIdleConnections releases pooled transport connections at shutdown.
func (c *Client) CloseIdleConnections() {
	c.httpClient.CloseIdleConnections()
}

type call struct {
	op      string
	method  string
	path    string
	payload any
	out     any
	// authExempt marks login/register style calls whose 401s are the
	// caller's business, not a session teardown trigger.
	authExempt bool
	// idempotent reads may be retried through the resilience executor.
	idempotent bool
}

func (c *Client) do(ctx context.Context, cl call) error {
	if cl.idempotent && c.executor != nil {
		return c.executor.Do(ctx, cl.op, func(ctx context.Context) error {
			return c.roundTrip(ctx, cl)
		})
	}
	return c.roundTrip(ctx, cl)
}

func (c *Client) roundTrip(ctx context.Context, cl call) error {
	var body io.Reader
	if cl.payload != nil {
		data, err := json.Marshal(cl.payload)
		if err != nil {
			return fmt.Errorf("marshal %s request: %w", cl.op, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, c.baseURL+cl.path, body)
	if err != nil {
		return fmt.Errorf("create %s request: %w", cl.op, err)
	}
	if cl.payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.decorate(req)

	return c.execute(req, cl.op, cl.out, cl.authExempt)
}

// execute runs a fully prepared request through the shared classification,
// metrics and teardown pipeline. The multipart upload path reuses it with
// its own body and content type.
func (c *Client) execute(req *http.Request, op string, out any, authExempt bool) error {
	start := time.Now()
	c.metrics.RequestStarted()
	defer c.metrics.RequestFinished()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		wrapped := domain.WrapError(domain.ErrNetwork, op, err)
		c.metrics.ObserveRequest(op, kindLabel(wrapped), time.Since(start))
		return wrapped
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		classified := c.errorFromResponse(op, resp)
		c.metrics.ObserveRequest(op, kindLabel(classified), time.Since(start))
		if domain.IsKind(classified, domain.ErrAuth) && !authExempt && c.onUnauthorized != nil {
			c.logger.Warn("session_expired", "operation", op)
			c.onUnauthorized()
		}
		return classified
	}

	c.metrics.ObserveRequest(op, "ok", time.Since(start))

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode %s response: %w", op, err)
		}
	}
	return nil
}

func (c *Client) decorate(req *http.Request) {
	req.Header.Set(requestIDHeader, uuid.NewString())
	if c.tokens != nil {
		if token, ok := c.tokens.Token(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
}

func (c *Client) errorFromResponse(op string, resp *http.Response) error {
	kind := kindForStatus(resp.StatusCode)

	var envelope struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	_ = json.Unmarshal(body, &envelope)

	msg := strings.TrimSpace(envelope.Message)
	if msg == "" {
		msg = strings.TrimSpace(envelope.Error)
	}
	if msg == "" {
		msg = resp.Status
	}
	return domain.WrapError(kind, op, fmt.Errorf("%s", msg))
}

func kindForStatus(code int) error {
	switch {
	case code == http.StatusUnauthorized:
		return domain.ErrAuth
	case code == http.StatusForbidden:
		return domain.ErrPermission
	case code == http.StatusNotFound:
		return domain.ErrNotFound
	case code >= 500:
		return domain.ErrServer
	default:
		return domain.ErrUnknown
	}
}

func kindLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case domain.IsKind(err, domain.ErrAuth):
		return "auth"
	case domain.IsKind(err, domain.ErrPermission):
		return "permission"
	case domain.IsKind(err, domain.ErrNotFound):
		return "not_found"
	case domain.IsKind(err, domain.ErrServer):
		return "server"
	case domain.IsKind(err, domain.ErrNetwork):
		return "network"
	case domain.IsKind(err, domain.ErrValidation):
		return "validation"
	default:
		return "unknown"
	}
}
