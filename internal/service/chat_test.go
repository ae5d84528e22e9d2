package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/kairos-interview/backend/internal/service"
)

type recordingGateway struct {
	lastUser string
	reply    string
}

func (g *recordingGateway) Chat(ctx context.Context, system, user string) (string, error) {
	g.lastUser = user
	return g.reply, nil
}

func TestSendMessage_NewConversation(t *testing.T) {
	gw := &recordingGateway{reply: "Hello!"}
	c := service.NewChatService(gw)

	convID, reply, err := c.SendMessage(context.Background(), "", "hi there")
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if convID == "" {
		t.Error("expected a generated conversation id")
	}
	if reply != "Hello!" {
		t.Errorf("reply = %q", reply)
	}
}

func TestSendMessage_HistoryCarriesOver(t *testing.T) {
	gw := &recordingGateway{reply: "Goroutines are lightweight threads."}
	c := service.NewChatService(gw)
	ctx := context.Background()

	convID, _, err := c.SendMessage(ctx, "", "what is a goroutine?")
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	gw.reply = "They are cheap to create."
	if _, _, err := c.SendMessage(ctx, convID, "why use them?"); err != nil {
		t.Fatalf("send failed: %v", err)
	}

	if !strings.Contains(gw.lastUser, "what is a goroutine?") {
		t.Errorf("second prompt lost the first exchange:\n%s", gw.lastUser)
	}
	if !strings.Contains(gw.lastUser, "Goroutines are lightweight threads.") {
		t.Errorf("second prompt lost the first reply:\n%s", gw.lastUser)
	}
}

func TestSendMessage_EmptyMessage(t *testing.T) {
	c := service.NewChatService(&recordingGateway{})
	if _, _, err := c.SendMessage(context.Background(), "", "   "); err == nil {
		t.Error("expected error for empty message")
	}
}
