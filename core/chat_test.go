package core

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestHistory(t *testing.T) *ChatHistory {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewChatHistory(client)
}

func TestMockResponderEchoesMessage(t *testing.T) {
	t.Parallel()

	reply, err := MockResponder{}.Respond(context.Background(), "hello there")
	if err != nil {
		t.Fatalf("Respond error: %v", err)
	}
	if !strings.Contains(reply, "hello there") {
		t.Fatalf("expected reply to echo the message, got %q", reply)
	}
}

func TestChatHistoryAppendAndRecent(t *testing.T) {
	history := newTestHistory(t)
	ctx := context.Background()

	first := ChatExchange{Message: "hi", Response: "hello", CreatedAt: time.Now().UTC().Truncate(time.Second)}
	second := ChatExchange{Message: "how are you", Response: "fine", CreatedAt: time.Now().UTC().Truncate(time.Second)}

	if err := history.Append(ctx, "alice", first); err != nil {
		t.Fatalf("Append error: %v", err)
	}
	if err := history.Append(ctx, "alice", second); err != nil {
		t.Fatalf("Append error: %v", err)
	}

	items, err := history.Recent(ctx, "alice")
	if err != nil {
		t.Fatalf("Recent error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Message != "hi" || items[1].Message != "how are you" {
		t.Fatalf("expected oldest-first ordering, got %v", items)
	}
	if items[0].Response != "hello" {
		t.Fatalf("response mismatch: %q", items[0].Response)
	}

	// History is per user.
	other, err := history.Recent(ctx, "bob")
	if err != nil {
		t.Fatalf("Recent error: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("expected empty history for other user, got %d items", len(other))
	}
}

func TestChatHistoryTrimsToLimit(t *testing.T) {
	history := newTestHistory(t)
	ctx := context.Background()

	total := historyLimit + 5
	for i := 0; i < total; i++ {
		ex := ChatExchange{Message: fmt.Sprintf("msg-%d", i), Response: "ok", CreatedAt: time.Now().UTC()}
		if err := history.Append(ctx, "alice", ex); err != nil {
			t.Fatalf("Append error at %d: %v", i, err)
		}
	}

	items, err := history.Recent(ctx, "alice")
	if err != nil {
		t.Fatalf("Recent error: %v", err)
	}
	if len(items) != historyLimit {
		t.Fatalf("expected history trimmed to %d, got %d", historyLimit, len(items))
	}
	if items[0].Message != fmt.Sprintf("msg-%d", total-historyLimit) {
		t.Fatalf("expected oldest surviving entry msg-%d, got %q", total-historyLimit, items[0].Message)
	}
	if items[len(items)-1].Message != fmt.Sprintf("msg-%d", total-1) {
		t.Fatalf("expected newest entry msg-%d, got %q", total-1, items[len(items)-1].Message)
	}
}
