package provider

import (
	"context"
	"time"

	"amlgate/internal/screening/payload"
)

// MockClient returns a canned result after an optional latency. Tests stub
// the pipeline's Checker dependency with it.
type MockClient struct {
	Latency time.Duration
	Result  Result
	Calls   []payload.Request
}

func (m *MockClient) Check(ctx context.Context, req payload.Request) Result {
	m.Calls = append(m.Calls, req)
	if m.Latency > 0 {
		select {
		case <-time.After(m.Latency):
		case <-ctx.Done():
			return Failed(FailureTransportError, ctx.Err().Error())
		}
	}
	return m.Result
}
