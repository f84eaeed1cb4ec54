package core

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Responder generates a reply for an inbound chat message. The production
// implementation will delegate to an external AI service; until that lands
// MockResponder stands in behind the same interface.
type Responder interface {
	Respond(ctx context.Context, message string) (string, error)
}

// MockResponder echoes the inbound message back.
type MockResponder struct{}

func (MockResponder) Respond(_ context.Context, message string) (string, error) {
	return fmt.Sprintf("Backend received: %q. This is a placeholder reply until the AI service is connected.", message), nil
}

// historyLimit caps stored exchanges per user; older entries are trimmed.
const historyLimit = 100

// ChatExchange is one stored message/response pair.
type ChatExchange struct {
	Message   string    `json:"message"`
	Response  string    `json:"response"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatHistory stores recent exchanges per user in a redis list.
type ChatHistory struct {
	client *redis.Client
}

func NewChatHistory(client *redis.Client) *ChatHistory {
	return &ChatHistory{client: client}
}

func historyKey(username string) string {
	return "chat:history:" + username
}

// Append records an exchange and trims the list to the newest historyLimit
// entries. Push and trim run in one MULTI block so a crash between them
// cannot leave the list unbounded.
func (h *ChatHistory) Append(ctx context.Context, username string, ex ChatExchange) error {
	data, err := json.Marshal(ex)
	if err != nil {
		return err
	}
	key := historyKey(username)
	pipe := h.client.TxPipeline()
	pipe.RPush(ctx, key, data)
	pipe.LTrim(ctx, key, -historyLimit, -1)
	_, err = pipe.Exec(ctx)
	return err
}

// Recent returns the stored exchanges for username, oldest first.
func (h *ChatHistory) Recent(ctx context.Context, username string) ([]ChatExchange, error) {
	vals, err := h.client.LRange(ctx, historyKey(username), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	items := make([]ChatExchange, 0, len(vals))
	for _, v := range vals {
		var ex ChatExchange
		if err := json.Unmarshal([]byte(v), &ex); err != nil {
			return nil, err
		}
		items = append(items, ex)
	}
	return items, nil
}
