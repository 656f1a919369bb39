package notify

import (
	"context"
	"fmt"
	"net/http"
)

// discordContentLimit is the maximum length of a webhook message body.
const discordContentLimit = 2000

// DiscordSender posts reports to a Discord webhook as plain message content.
type DiscordSender struct {
	webhookURL string
	client     *http.Client
}

// NewDiscordSender creates a DiscordSender for the given webhook URL.
func NewDiscordSender(webhookURL string) *DiscordSender {
	return &DiscordSender{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: senderTimeout},
	}
}

// Send posts {"content": "**title**\nmessage"}. A report longer than Discord's
// limit goes out as several posts split on line boundaries, each repeating
// the title.
func (d *DiscordSender) Send(ctx context.Context, title, message string) error {
	parts := splitMessage("**"+title+"**", message, discordContentLimit)
	for i, content := range parts {
		if err := postJSON(ctx, d.client, d.webhookURL, map[string]string{"content": content}); err != nil {
			return fmt.Errorf("discord: part %d/%d: %w", i+1, len(parts), err)
		}
	}
	return nil
}

// Name returns the sender identifier.
func (d *DiscordSender) Name() string {
	return "discord"
}
