package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	agentmodel "github.com/yojana-mitra/server/internal/agent/model"
	errx "github.com/yojana-mitra/server/internal/core/error"
	logx "github.com/yojana-mitra/server/pkg/logger"
)

// Client is the narrow LLM surface the agent components depend on. Chat
// returns the raw completion text; ChatJSON additionally decodes the
// completion into out, tolerating markdown code fences around the JSON.
type Client interface {
	Chat(ctx context.Context, messages []*schema.Message, temperature float32) (string, error)
	ChatJSON(ctx context.Context, messages []*schema.Message, temperature float32, out any) error
}

// ChatClient adapts an eino chat model to the Client interface and logs
// per-call token usage cost.
type ChatClient struct {
	chatModel model.BaseChatModel
	modelName string
}

var _ Client = (*ChatClient)(nil)

// NewChatClient wraps a chat model. modelName is used for pricing lookup and
// usage logs.
func NewChatClient(chatModel model.BaseChatModel, modelName string) *ChatClient {
	return &ChatClient{chatModel: chatModel, modelName: modelName}
}

func (c *ChatClient) Chat(ctx context.Context, messages []*schema.Message, temperature float32) (string, error) {
	out, err := c.chatModel.Generate(ctx, messages, model.WithTemperature(temperature))
	if err != nil {
		return "", errx.Transport(fmt.Errorf("chat completion: %w", err))
	}
	if out == nil || strings.TrimSpace(out.Content) == "" {
		return "", errx.Malformed(errx.ErrEmptyCompletion)
	}

	c.logUsage(out)
	return out.Content, nil
}

func (c *ChatClient) ChatJSON(ctx context.Context, messages []*schema.Message, temperature float32, out any) error {
	content, err := c.Chat(ctx, messages, temperature)
	if err != nil {
		return err
	}
	payload := ExtractJSON(content)
	if err := json.Unmarshal([]byte(payload), out); err != nil {
		logx.Warn().
			Str("model", c.modelName).
			Str("snippet", snippet(content)).
			Msg("completion is not valid JSON")
		return errx.Malformed(fmt.Errorf("decode completion JSON: %w", err))
	}
	return nil
}

func (c *ChatClient) logUsage(out *schema.Message) {
	if !agentmodel.CostEnabled() || out.ResponseMeta == nil || out.ResponseMeta.Usage == nil {
		return
	}
	pricing := agentmodel.ResolvePricing(c.modelName)
	inC, outC, totalC := agentmodel.ComputeCost(out.ResponseMeta.Usage, pricing)
	logx.Debug().
		Str("model", c.modelName).
		Int("prompt_tokens", out.ResponseMeta.Usage.PromptTokens).
		Int("completion_tokens", out.ResponseMeta.Usage.CompletionTokens).
		Int("total_tokens", out.ResponseMeta.Usage.TotalTokens).
		Float64("input_cost_usd", inC).
		Float64("output_cost_usd", outC).
		Float64("total_cost_usd", totalC).
		Msg("LLM usage")
}

// ExtractJSON strips markdown code fences and leading prose so the remaining
// text starts at the outermost JSON object or array.
func ExtractJSON(content string) string {
	s := strings.TrimSpace(content)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}
	start := strings.IndexAny(s, "{[")
	if start > 0 {
		s = s[start:]
	}
	return s
}

// snippet shortens log output without splitting a multi-byte rune.
func snippet(s string) string {
	const max = 200
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
