package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/ecoprohq/ecopro/internal/models"
)

func streamOf(deltas ...models.ChatDelta) func(ctx context.Context, req *models.ChatRequest) (<-chan models.ChatDelta, error) {
	return func(ctx context.Context, req *models.ChatRequest) (<-chan models.ChatDelta, error) {
		out := make(chan models.ChatDelta, len(deltas))
		for _, d := range deltas {
			out <- d
		}
		close(out)
		return out, nil
	}
}

func collectFrames(t *testing.T, frames <-chan models.StreamFrame) []models.StreamFrame {
	t.Helper()
	var all []models.StreamFrame
	for frame := range frames {
		all = append(all, frame)
	}
	return all
}

func TestStreamChatFrameOrder(t *testing.T) {
	clients := map[ProviderName]*fakeChatClient{
		ProviderGroq: {streamFn: streamOf(
			models.ChatDelta{Text: "Hel"},
			models.ChatDelta{Text: "lo"},
		)},
	}
	svc, _ := newTestService(t, clients)

	frames, err := svc.StreamChat(context.Background(), []models.ChatMessage{
		{Role: models.RoleUser, Content: "hi"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	all := collectFrames(t, frames)
	if len(all) != 4 {
		t.Fatalf("expected meta + 2 text + done, got %d frames", len(all))
	}

	meta := all[0].Meta
	if meta == nil {
		t.Fatal("first frame must carry metadata")
	}
	if meta.Provider != "Groq" || meta.Model != "llama-3.3-70b-versatile" {
		t.Errorf("unexpected meta: %+v", meta)
	}
	if meta.ModelLabel != "Groq · Llama 3.3 70B" {
		t.Errorf("unexpected model label: %s", meta.ModelLabel)
	}

	if all[1].Text != "Hel" || all[2].Text != "lo" {
		t.Errorf("unexpected text frames: %+v", all[1:3])
	}
	if !all[3].Done {
		t.Error("last frame must be the terminal sentinel")
	}
}

func TestStreamChatFallsBackBeforeFirstFrame(t *testing.T) {
	clients := map[ProviderName]*fakeChatClient{
		ProviderGroq: {streamFn: func(ctx context.Context, req *models.ChatRequest) (<-chan models.ChatDelta, error) {
			return nil, errors.New("connection refused")
		}},
		ProviderGemini: {streamFn: streamOf(models.ChatDelta{Text: "rescued"})},
	}
	svc, _ := newTestService(t, clients)

	frames, err := svc.StreamChat(context.Background(), []models.ChatMessage{
		{Role: models.RoleUser, Content: "hi"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	all := collectFrames(t, frames)
	if all[0].Meta == nil || all[0].Meta.Provider != "Google Gemini" {
		t.Errorf("meta frame must name the provider that actually serves: %+v", all[0].Meta)
	}
	if all[0].Meta.Model != "gemini-2.0-flash" {
		t.Errorf("fallback must use the alternate default model, got %s", all[0].Meta.Model)
	}
	if !all[len(all)-1].Done {
		t.Error("stream must end with the terminal sentinel")
	}
}

func TestStreamChatFallsBackOnFirstDeltaError(t *testing.T) {
	// Some providers report open failures (bad key, unreachable host)
	// in-band as the first delta instead of failing Stream itself. That
	// still counts as a pre-first-frame failure and must fail over.
	clients := map[ProviderName]*fakeChatClient{
		ProviderGroq: {streamFn: streamOf(
			models.ChatDelta{Err: errors.New("stream failed: API key not valid")},
		)},
		ProviderGemini: {streamFn: streamOf(models.ChatDelta{Text: "rescued"})},
	}
	svc, _ := newTestService(t, clients)

	frames, err := svc.StreamChat(context.Background(), []models.ChatMessage{
		{Role: models.RoleUser, Content: "hi"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	all := collectFrames(t, frames)
	if len(all) != 3 {
		t.Fatalf("expected meta + text + done, got %d frames", len(all))
	}
	if all[0].Meta == nil || all[0].Meta.Provider != "Google Gemini" {
		t.Errorf("meta frame must name the fallback provider: %+v", all[0].Meta)
	}
	if all[1].Text != "rescued" {
		t.Errorf("unexpected text frame: %+v", all[1])
	}
	if !all[2].Done {
		t.Error("stream must end with the terminal sentinel")
	}
}

func TestStreamChatSkipsProviderWithoutStreaming(t *testing.T) {
	original := providerProfiles[ProviderGroq]
	crippled := original
	crippled.supportsStreaming = false
	providerProfiles[ProviderGroq] = crippled
	defer func() { providerProfiles[ProviderGroq] = original }()

	var groqOpened bool
	clients := map[ProviderName]*fakeChatClient{
		ProviderGroq: {streamFn: func(ctx context.Context, req *models.ChatRequest) (<-chan models.ChatDelta, error) {
			groqOpened = true
			return streamOf(models.ChatDelta{Text: "should not stream"})(ctx, req)
		}},
		ProviderGemini: {streamFn: streamOf(models.ChatDelta{Text: "via gemini"})},
	}
	svc, _ := newTestService(t, clients)

	frames, err := svc.StreamChat(context.Background(), []models.ChatMessage{
		{Role: models.RoleUser, Content: "hi"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	all := collectFrames(t, frames)
	if groqOpened {
		t.Error("a provider without streaming support must never be opened")
	}
	if all[0].Meta == nil || all[0].Meta.Provider != "Google Gemini" {
		t.Errorf("stream must be served by the streaming-capable provider: %+v", all[0].Meta)
	}
}

func TestStreamChatExhaustedWhenBothFail(t *testing.T) {
	failing := func(ctx context.Context, req *models.ChatRequest) (<-chan models.ChatDelta, error) {
		return nil, errors.New("down")
	}
	clients := map[ProviderName]*fakeChatClient{
		ProviderGroq:   {streamFn: failing},
		ProviderGemini: {streamFn: failing},
	}
	svc, _ := newTestService(t, clients)

	_, err := svc.StreamChat(context.Background(), []models.ChatMessage{
		{Role: models.RoleUser, Content: "hi"},
	})
	var exhausted *ExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("expected ExhaustedError, got %v", err)
	}
}

func TestStreamChatMidStreamFailureIsTerminal(t *testing.T) {
	clients := map[ProviderName]*fakeChatClient{
		ProviderGroq: {streamFn: streamOf(
			models.ChatDelta{Text: "partial"},
			models.ChatDelta{Err: errors.New("wire cut")},
		)},
		ProviderGemini: {streamFn: streamOf(models.ChatDelta{Text: "should never run"})},
	}
	svc, _ := newTestService(t, clients)

	frames, err := svc.StreamChat(context.Background(), []models.ChatMessage{
		{Role: models.RoleUser, Content: "hi"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	all := collectFrames(t, frames)
	// Meta, the partial text, then the stream ends with no sentinel and
	// no failover to the alternate provider.
	if len(all) != 2 {
		t.Fatalf("expected meta + 1 text frame, got %d", len(all))
	}
	if all[1].Text != "partial" {
		t.Errorf("unexpected text frame: %+v", all[1])
	}
	for _, frame := range all {
		if frame.Done {
			t.Error("mid-stream failure must not emit the sentinel")
		}
	}
}

func TestStreamChatRequiresMessages(t *testing.T) {
	svc, _ := newTestService(t, nil)
	if _, err := svc.StreamChat(context.Background(), nil); err == nil {
		t.Fatal("expected error for empty history")
	}
}

func TestStreamChatWrapsLastMessageWithContext(t *testing.T) {
	var gotReq *models.ChatRequest
	clients := map[ProviderName]*fakeChatClient{
		ProviderGroq: {streamFn: func(ctx context.Context, req *models.ChatRequest) (<-chan models.ChatDelta, error) {
			gotReq = req
			out := make(chan models.ChatDelta)
			close(out)
			return out, nil
		}},
	}
	svc, _ := newTestService(t, clients)

	history := []models.ChatMessage{
		{Role: models.RoleUser, Content: "first question"},
		{Role: models.RoleAssistant, Content: "first answer"},
		{Role: models.RoleUser, Content: "what is my burn rate?"},
	}
	frames, err := svc.StreamChat(context.Background(), history)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	collectFrames(t, frames)

	if gotReq == nil {
		t.Fatal("stream was never opened")
	}
	if len(gotReq.Messages) != 4 {
		t.Fatalf("expected system + 2 history + wrapped last, got %d", len(gotReq.Messages))
	}
	if gotReq.Messages[0].Role != models.RoleSystem {
		t.Error("first message must be the system prompt")
	}
	if gotReq.Messages[1].Content != "first question" || gotReq.Messages[2].Content != "first answer" {
		t.Error("earlier turns must pass through unchanged")
	}
	last := gotReq.Messages[3]
	if last.Role != models.RoleUser {
		t.Errorf("wrapped last message must stay a user turn, got %s", last.Role)
	}
	if last.Content == "what is my burn rate?" {
		t.Error("last message must be wrapped with platform context")
	}
}
