// Package provider holds the HTTP client for the external AML screening
// service. The client collapses every transport-level failure into a small
// tagged result so the reconciler never sees a raw error.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"amlgate/internal/screening/payload"
)

// FailureKind tags a client-side failure. Exactly one of these is set when
// a call produces no usable provider body.
type FailureKind string

const (
	FailureTimeout            FailureKind = "timeout"
	FailureTransportError     FailureKind = "transport_error"
	FailureCredentialsMissing FailureKind = "credentials_missing"
)

// Result is the tagged outcome of one provider call: either OK with the
// raw response body, or a failure kind with diagnostic detail.
type Result struct {
	OK     bool
	Body   json.RawMessage
	Kind   FailureKind
	Detail string
}

// Failed builds a failure-shaped result.
func Failed(kind FailureKind, detail string) Result {
	return Result{Kind: kind, Detail: detail}
}

// DefaultTimeout bounds one provider round trip.
const DefaultTimeout = 30 * time.Second

// Config carries the provider endpoint and Basic-Auth credential pair.
type Config struct {
	BaseURL  string
	Username string
	Secret   string
	Timeout  time.Duration
}

// Client performs exactly one screening attempt per call. Retry policy, if
// any, belongs to the caller so the two concerns stay separately testable.
type Client struct {
	cfg    Config
	http   *http.Client
	tracer trace.Tracer
}

func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{},
		tracer: otel.Tracer("amlgate/screening/provider"),
	}
}

// Check submits the payload to the provider. It never returns an error:
// timeouts, transport faults and missing credentials all come back as
// tagged results the reconciler understands.
func (c *Client) Check(ctx context.Context, req payload.Request) Result {
	if c.cfg.Username == "" || c.cfg.Secret == "" {
		return Failed(FailureCredentialsMissing, "provider credentials not configured")
	}

	ctx, span := c.tracer.Start(ctx, "provider.check",
		trace.WithAttributes(attribute.String("screening.reference", req.Reference)))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	body, err := json.Marshal(req)
	if err != nil {
		return Failed(FailureTransportError, fmt.Sprintf("encode request: %v", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewReader(body))
	if err != nil {
		return Failed(FailureTransportError, fmt.Sprintf("build request: %v", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth(c.cfg.Username, c.cfg.Secret)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		kind := FailureTransportError
		if errors.Is(err, context.DeadlineExceeded) {
			kind = FailureTimeout
		}
		span.SetAttributes(attribute.String("screening.failure", string(kind)))
		return Failed(kind, err.Error())
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Failed(FailureTransportError, fmt.Sprintf("read response: %v", err))
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	// The provider expresses declines and request faults as events in the
	// body, including on 4xx statuses. Only server-side breakage counts as
	// a transport failure.
	if resp.StatusCode >= http.StatusInternalServerError {
		return Failed(FailureTransportError,
			fmt.Sprintf("provider returned %d: %s", resp.StatusCode, truncate(raw, 512)))
	}

	return Result{OK: true, Body: raw}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
