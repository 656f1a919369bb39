package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/alanyoungcy/positionwatch/internal/domain"
)

// senderTimeout bounds one webhook call.
const senderTimeout = 15 * time.Second

// postJSON posts payload as JSON to target and fails on any non-2xx reply.
// A 429 wraps domain.ErrRateLimited. Error text never includes target,
// which may embed a credential.
func postJSON(ctx context.Context, client *http.Client, target string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("send request: %w", ctxErr)
		}
		return errors.New("send request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil
	}

	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("status %d: %s: %w", resp.StatusCode, snippet, domain.ErrRateLimited)
	}
	return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, snippet)
}

// splitMessage packs header and the lines of message into chunks of at most
// limit runes. Every chunk starts with header and lines are never split
// across chunks; only a single line longer than a whole chunk is truncated.
func splitMessage(header, message string, limit int) []string {
	var chunks []string
	cur, fresh := header, true
	for _, line := range strings.Split(message, "\n") {
		next := cur + "\n" + line
		if !fresh && utf8.RuneCountInString(next) > limit {
			chunks = append(chunks, cur)
			next = header + "\n" + line
		}
		cur, fresh = truncate(next, limit), false
	}
	return append(chunks, cur)
}

// truncate cuts s to at most limit runes, marking the cut with an ellipsis.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
