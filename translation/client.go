package translation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// systemPrompt instructs the model to produce a conversational chat
// translation rather than a literal one.
const systemPrompt = `# Role and Task
You are a fluent, real-time translator for live chat messages. Your task is to translate from %s to %s in a way that sounds natural and conversational, like messages between friends.

# Instructions:
- Translate the input fully and accurately into the target language.
- Preserve tone, intent, and emotion (e.g. excitement, frustration).
- Keep translations short and fluent, not overly literal.
- Do not add extra explanations or notes, just translate the message.
- Format the response as plain text only (no quotes, no brackets, no tags).

Respond with the chat-style translation.`

// Client calls an OpenAI-compatible chat-completions endpoint. The fine-tuned
// translation model is served behind this API shape, so the client is plain
// HTTP with a JSON body.
type Client struct {
	baseURL    string
	model      string
	apiKey     string
	httpClient *http.Client
	log        *slog.Logger
}

func NewClient(baseURL, model, apiKey string, timeout time.Duration, log *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		model:      model,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type completionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Translate issues one blocking request for a single (source, target) pair.
// The source code is normalized before dispatch; the response is scrubbed of
// the chat template markers the fine-tuned model sometimes leaks.
func (c *Client) Translate(ctx context.Context, text, fromLang, toLang string, maxTokens int) (string, error) {
	body, err := json.Marshal(completionRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: fmt.Sprintf(systemPrompt, NormalizeLang(fromLang), NormalizeLang(toLang))},
			{Role: "user", Content: text},
		},
		MaxTokens: maxTokens,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return "", fmt.Errorf("translation backend returned %d: %s", resp.StatusCode, payload)
	}

	var completion completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", err
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("translation backend returned no choices")
	}

	return scrub(completion.Choices[0].Message.Content), nil
}

// scrub drops the ChatML markers the merged model occasionally emits.
func scrub(s string) string {
	s = strings.ReplaceAll(s, "<|im_end|>", "")
	s = strings.ReplaceAll(s, "<|im_start|>", "")
	return strings.TrimSpace(s)
}
