package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/snacktrack/snacktrack-api/retry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/snacktrack/snacktrack-api/httpclient"

// Client is a thin JSON-friendly HTTP client with per-client defaults, an optional
// circuit breaker and optional retries.
type Client struct {
	httpClient *http.Client
	config     *config
}

func NewClient(opts ...Option) *Client {
	cfg := newConfig()
	applyOptions(cfg, opts)
	if cfg.transport == nil {
		cfg.transport = http.DefaultTransport.(*http.Transport).Clone()
	}
	return &Client{
		httpClient: &http.Client{Transport: cfg.transport},
		config:     cfg,
	}
}

// Do sends req. Non-2xx responses are not errors; callers map status codes themselves.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "HTTP "+req.Method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", req.Method),
			attribute.String("url.path", req.URL),
		),
	)
	defer span.End()

	start := time.Now()
	resp, err := c.execute(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	resp.Duration = time.Since(start)
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	if resp.IsServerError() {
		span.SetStatus(codes.Error, resp.Status)
	}

	if c.config.afterResponse != nil {
		if err := c.config.afterResponse(resp); err != nil {
			return resp, err
		}
	}
	return resp, nil
}

// errServerStatus asks the retry loop for another attempt after a 5xx.
var errServerStatus = errors.New("upstream server error")

func (c *Client) execute(ctx context.Context, req *Request) (*Response, error) {
	once := func() (*Response, error) {
		return c.config.breaker.Execute(func() (*Response, error) {
			return c.doRequest(ctx, req)
		})
	}
	if len(c.config.retry) == 0 {
		return once()
	}

	attempt := 0
	resp, err := retry.DoWithData(ctx, func() (*Response, error) {
		attempt++
		resp, err := once()
		switch {
		case err != nil && (errors.Is(err, ErrCircuitOpen) || ctx.Err() != nil):
			return nil, retry.Permanent(err)
		case err != nil:
			return nil, err
		case resp.IsServerError():
			return resp, errServerStatus
		}
		return resp, nil
	}, c.config.retry...)

	trace.SpanFromContext(ctx).SetAttributes(attribute.Int("http.request.resend_count", attempt-1))
	if errors.Is(err, errServerStatus) && resp != nil {
		return resp, nil
	}
	var me *retry.MultiError
	if errors.As(err, &me) {
		err = me.Unwrap()
	}
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) doRequest(ctx context.Context, req *Request) (*Response, error) {
	if c.config.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.timeout)
		defer cancel()
	}

	httpReq, err := req.buildHTTPRequest(ctx, c.config.baseURL, c.config.queries)
	if err != nil {
		return nil, fmt.Errorf("build http request failed: %w", err)
	}
	for k, v := range c.config.headers {
		if httpReq.Header.Get(k) == "" {
			httpReq.Header.Set(k, v)
		}
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(httpReq.Header))
	if c.config.beforeRequest != nil {
		if err := c.config.beforeRequest(httpReq); err != nil {
			return nil, fmt.Errorf("before request hook failed: %w", err)
		}
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	resp, err := newResponse(httpResp)
	if err != nil {
		return nil, fmt.Errorf("read response failed: %w", err)
	}
	return resp, nil
}

func (c *Client) Get(ctx context.Context, url string) (*Response, error) {
	return c.Do(ctx, NewGetRequest(url))
}

// PostJSON sends body encoded as JSON.
func (c *Client) PostJSON(ctx context.Context, url string, body any) (*Response, error) {
	return c.Do(ctx, NewPostRequest(url).WithJSON(body))
}

// BreakerState reports the guarding breaker's state.
func (c *Client) BreakerState() string {
	return c.config.breaker.State()
}
