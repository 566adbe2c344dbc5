package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

func TestMockProvider_ReturnsCannedResponses(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"a":1}`), Usage: Usage{InputTokens: 10, OutputTokens: 5}},
		MockResponse{Content: json.RawMessage(`{"b":2}`)},
	)

	resp1, err := mock.Generate(context.Background(), UserPrompt("", "first", nil, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp1.Content) != `{"a":1}` {
		t.Fatalf("expected {\"a\":1}, got %s", resp1.Content)
	}
	if resp1.Usage.TotalTokens != 15 {
		t.Fatalf("expected 15 total tokens, got %d", resp1.Usage.TotalTokens)
	}
	if resp1.StopReason != "end" {
		t.Fatalf("expected stop reason 'end', got %q", resp1.StopReason)
	}

	resp2, err := mock.Generate(context.Background(), UserPrompt("", "second", nil, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp2.Content) != `{"b":2}` {
		t.Fatalf("expected {\"b\":2}, got %s", resp2.Content)
	}
}

func TestMockProvider_EmptyQueueReturnsError(t *testing.T) {
	mock := NewMockProvider()
	_, err := mock.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got: %T", err)
	}
}

func TestMockProvider_RecordsCalls(t *testing.T) {
	mock := NewMockProvider(MockJSON(map[string]string{"ok": "yes"}))

	if _, ok := mock.LastRequest(); ok {
		t.Fatal("expected no request before the first call")
	}
	_, _ = mock.Generate(context.Background(), UserPrompt("sys", "hello", nil, 64))

	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
	req, ok := mock.LastRequest()
	if !ok || req.System != "sys" || req.Messages[0].Content != "hello" || req.MaxTokens != 64 {
		t.Fatalf("last request = %+v", req)
	}
}

func TestMockProvider_ValidatesAgainstSchema(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{"headline":1}`)})
	_, err := mock.Generate(context.Background(), UserPrompt("", "x", narrativeTestSchema(), 0))
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got: %v", err)
	}
}

func TestMockProvider_ReturnsConfiguredError(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &ErrRateLimit{}})
	_, err := mock.Generate(context.Background(), Request{})
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got: %T", err)
	}
}

func TestFinish_TruncatedInvalidOutput(t *testing.T) {
	req := UserPrompt("", "x", narrativeTestSchema(), 10)
	_, err := finish(req, json.RawMessage(`{"headline":"Good pro`), Usage{}, "m", stopMaxTokens)
	var maxTok *ErrMaxTokensExceeded
	if !errors.As(err, &maxTok) {
		t.Fatalf("expected ErrMaxTokensExceeded, got: %v", err)
	}

	// Valid output is accepted even when the provider reports truncation.
	ok := json.RawMessage(`{"headline":"h","summary":"s","next_steps":["a"]}`)
	resp, err := finish(req, ok, Usage{InputTokens: 3, OutputTokens: 4}, "m", stopMaxTokens)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StopReason != stopMaxTokens || resp.Usage.TotalTokens != 7 {
		t.Fatalf("response = %+v", resp)
	}
}

func TestPurposeContext(t *testing.T) {
	ctx := context.Background()
	if p := PurposeFrom(ctx); p != PurposeUnknown {
		t.Fatalf("expected %q, got %q", PurposeUnknown, p)
	}

	ctx = WithPurpose(ctx, PurposeNarrative)
	if p := PurposeFrom(ctx); p != PurposeNarrative {
		t.Fatalf("expected %q, got %q", PurposeNarrative, p)
	}
}
