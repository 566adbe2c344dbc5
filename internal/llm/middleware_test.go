package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mathprobe/internal/store"
	"github.com/abhisek/mathprobe/internal/store/memstore"
)

func retryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: 1 * time.Millisecond,
		MaxWait:     10 * time.Millisecond,
		Multiplier:  2.0,
	}
}

var okResponse = MockResponse{Content: json.RawMessage(`{"ok":true}`)}

func unavailable() MockResponse {
	return MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}}
}

func invalid() MockResponse {
	return MockResponse{Err: &ErrInvalidResponse{Content: json.RawMessage(`bad`), Err: errors.New("bad")}}
}

func TestRetry(t *testing.T) {
	tests := []struct {
		name      string
		responses []MockResponse
		wantErr   bool
		wantCalls int
	}{
		{"first attempt succeeds", []MockResponse{okResponse}, false, 1},
		{"transient then success", []MockResponse{unavailable(), okResponse}, false, 2},
		{"all attempts fail", []MockResponse{unavailable(), unavailable(), unavailable()}, true, 3},
		{"max tokens is final", []MockResponse{{Err: &ErrMaxTokensExceeded{}}, okResponse}, true, 1},
		{"invalid response retried once", []MockResponse{invalid(), invalid(), okResponse}, true, 2},
		{"invalid then success", []MockResponse{invalid(), okResponse}, false, 2},
		{"rate limit honours retry after", []MockResponse{
			{Err: &ErrRateLimit{RetryAfter: time.Millisecond, Err: errors.New("429")}},
			okResponse,
		}, false, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(tt.responses...)
			p := WithRetry(mock, retryConfig(), nil)

			resp, err := p.Generate(context.Background(), Request{})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.JSONEq(t, `{"ok":true}`, string(resp.Content))
			}
			assert.Equal(t, tt.wantCalls, mock.CallCount())
		})
	}
}

func TestRetry_ContextCancellation(t *testing.T) {
	mock := NewMockProvider(unavailable(), unavailable(), okResponse)
	p := WithRetry(mock, RetryConfig{MaxAttempts: 3, InitialWait: time.Hour, MaxWait: time.Hour, Multiplier: 1}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Generate(ctx, Request{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, mock.CallCount())
}

func TestRetry_ModelIDDelegates(t *testing.T) {
	p := WithRetry(NewMockProvider(), retryConfig(), nil)
	assert.Equal(t, "mock", p.ModelID())
}

func TestRateLimit_DisabledReturnsInner(t *testing.T) {
	mock := NewMockProvider()
	assert.Same(t, Provider(mock), WithRateLimit(mock, 0))
}

func TestRateLimit_WaitRespectsContext(t *testing.T) {
	mock := NewMockProvider(okResponse, okResponse)
	p := WithRateLimit(mock, 1)

	_, err := p.Generate(context.Background(), Request{})
	require.NoError(t, err)

	// The burst is spent; the next token is a minute away.
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = p.Generate(ctx, Request{})
	assert.Error(t, err)
	assert.Equal(t, 1, mock.CallCount())
}

func TestTimeout_CancelsSlowCalls(t *testing.T) {
	mock := NewMockProvider(unavailable(), okResponse)
	p := WithTimeout(WithRetry(mock, RetryConfig{MaxAttempts: 2, InitialWait: time.Hour, MaxWait: time.Hour, Multiplier: 1}, nil), 20*time.Millisecond)

	_, err := p.Generate(context.Background(), Request{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, mock.CallCount())
}

func TestLogging_RecordsEvents(t *testing.T) {
	events := memstore.New()
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"ok":true}`), Usage: Usage{InputTokens: 12, OutputTokens: 8}},
		unavailable(),
	)
	p := WithLogging(mock, ProviderMock, events, nil)
	ctx := WithPurpose(context.Background(), PurposeNarrative)

	_, err := p.Generate(ctx, UserPrompt("be brief", "explain", nil, 100))
	require.NoError(t, err)
	_, err = p.Generate(ctx, UserPrompt("", "again", nil, 100))
	require.Error(t, err)

	got, err := events.QueryLLMEvents(context.Background(), store.QueryOpts{Purpose: PurposeNarrative})
	require.NoError(t, err)
	require.Len(t, got, 2)

	failed, ok := got[0], got[1]
	assert.True(t, ok.Success)
	assert.Equal(t, 12, ok.InputTokens)
	assert.Equal(t, 8, ok.OutputTokens)
	assert.Equal(t, "mock", ok.Model)
	assert.Equal(t, `{"ok":true}`, ok.ResponseBody)
	assert.True(t, strings.Contains(ok.RequestBody, "[system]\nbe brief"))

	assert.False(t, failed.Success)
	assert.Contains(t, failed.ErrorMessage, "unavailable")
}

type failingEvents struct{ store.EventRepo }

func (failingEvents) AppendLLMRequest(context.Context, store.LLMRequestEventData) error {
	return errors.New("disk full")
}

func TestLogging_EventFailureDoesNotFailRequest(t *testing.T) {
	p := WithLogging(NewMockProvider(okResponse), ProviderMock, failingEvents{}, nil)
	_, err := p.Generate(context.Background(), Request{})
	assert.NoError(t, err)
}

func TestNewProvider_Mock(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = ProviderMock
	p, err := NewProvider(context.Background(), cfg, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "mock", p.ModelID())
}

func TestNewProvider_RejectsMissingKey(t *testing.T) {
	_, err := NewProvider(context.Background(), Config{Provider: ProviderOpenAI}, nil, nil)
	assert.Error(t, err)
}
