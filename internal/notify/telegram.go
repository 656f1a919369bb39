package notify

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

const (
	telegramAPI       = "https://api.telegram.org"
	telegramTextLimit = 4096
)

// TelegramSender delivers reports through the Bot API sendMessage method.
type TelegramSender struct {
	apiURL string
	token  string
	chatID string
	client *http.Client
}

// NewTelegramSender creates a TelegramSender for the given bot token and chat.
func NewTelegramSender(token, chatID string) *TelegramSender {
	return &TelegramSender{
		apiURL: telegramAPI,
		token:  token,
		chatID: chatID,
		client: &http.Client{Timeout: senderTimeout},
	}
}

// Send posts title and message as plain text, split on line boundaries into
// several messages when the report exceeds Telegram's limit. Market titles
// routinely contain Markdown control characters, so no parse mode is set.
func (t *TelegramSender) Send(ctx context.Context, title, message string) error {
	endpoint := strings.TrimRight(t.apiURL, "/") + "/bot" + t.token + "/sendMessage"
	parts := splitMessage(title, message, telegramTextLimit)
	for i, text := range parts {
		payload := map[string]any{
			"chat_id":                  t.chatID,
			"text":                     text,
			"disable_web_page_preview": true,
		}
		if err := postJSON(ctx, t.client, endpoint, payload); err != nil {
			return fmt.Errorf("telegram: part %d/%d: %w", i+1, len(parts), err)
		}
	}
	return nil
}

// Name returns the sender identifier.
func (t *TelegramSender) Name() string {
	return "telegram"
}
