package inference

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
}

type chatDelta struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// ChatStream sends a chat completion request and streams the response.
// Chunks arrive in order; the channel is closed after a chunk with Done
// or Err set. The caller owns ctx and can cancel the stream through it.
func (c *Client) ChatStream(ctx context.Context, model string, messages []Message) <-chan Chunk {
	ch := make(chan Chunk, 100)

	go func() {
		defer close(ch)

		body, err := json.Marshal(chatRequest{
			Model:    model,
			Messages: messages,
			Stream:   true,
		})
		if err != nil {
			ch <- Chunk{Err: fmt.Errorf("marshal: %w", err)}
			return
		}

		resp, err := c.post(ctx, c.baseURL+"/v1/chat/completions", "application/json", body)
		if err != nil {
			ch <- Chunk{Err: err}
			return
		}
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

		for scanner.Scan() {
			select {
			case <-ctx.Done():
				ch <- Chunk{Err: ctx.Err()}
				return
			default:
			}

			line := strings.TrimSpace(strings.TrimPrefix(scanner.Text(), "data: "))
			if line == "" {
				continue
			}
			if line == "[DONE]" {
				ch <- Chunk{Done: true}
				return
			}

			var delta chatDelta
			if err := json.Unmarshal([]byte(line), &delta); err != nil {
				// Keep-alives and comments are not JSON; skip them.
				continue
			}

			for _, choice := range delta.Choices {
				if choice.Delta.Content != "" {
					ch <- Chunk{Text: choice.Delta.Content}
				}
				if choice.FinishReason == "stop" {
					ch <- Chunk{Done: true}
					return
				}
			}
		}

		if err := scanner.Err(); err != nil {
			ch <- Chunk{Err: err}
			return
		}
		ch <- Chunk{Done: true}
	}()

	return ch
}
