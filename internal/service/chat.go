package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/kairos-interview/backend/internal/gateway"
)

const chatSystemPrompt = "You are an AI interview assistant. Answer briefly and helpfully."

// chatHistoryLimit bounds how many prior exchanges are replayed into the
// prompt for context.
const chatHistoryLimit = 10

type chatExchange struct {
	UserMessage string
	Reply       string
}

// ChatService handles free-form assistant conversations, independent of any
// interview session. Conversations are identified by UUID and kept in
// memory.
type ChatService struct {
	gw gateway.Gateway

	mu            sync.Mutex
	conversations map[string][]chatExchange
}

func NewChatService(gw gateway.Gateway) *ChatService {
	return &ChatService{
		gw:            gw,
		conversations: make(map[string][]chatExchange),
	}
}

// SendMessage sends one message within a conversation. An empty conversation
// ID starts a new conversation; the (possibly new) ID is returned with the
// reply.
func (c *ChatService) SendMessage(ctx context.Context, conversationID, message string) (string, string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", "", fmt.Errorf("empty message")
	}
	if conversationID == "" {
		conversationID = uuid.NewString()
	}

	c.mu.Lock()
	history := c.conversations[conversationID]
	c.mu.Unlock()

	reply, err := c.gw.Chat(ctx, chatSystemPrompt, buildChatPrompt(history, message))
	if err != nil {
		return conversationID, "", fmt.Errorf("chat reply: %w", err)
	}
	reply = strings.TrimSpace(reply)

	c.mu.Lock()
	c.conversations[conversationID] = append(history, chatExchange{UserMessage: message, Reply: reply})
	c.mu.Unlock()

	return conversationID, reply, nil
}

func buildChatPrompt(history []chatExchange, message string) string {
	if len(history) > chatHistoryLimit {
		history = history[len(history)-chatHistoryLimit:]
	}
	var sb strings.Builder
	for _, ex := range history {
		sb.WriteString("User: ")
		sb.WriteString(ex.UserMessage)
		sb.WriteString("\nAssistant: ")
		sb.WriteString(ex.Reply)
		sb.WriteString("\n")
	}
	sb.WriteString("User: ")
	sb.WriteString(message)
	return sb.String()
}
