package llm

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errx "github.com/yojana-mitra/server/internal/core/error"
)

type fakeChatModel struct {
	content string
	err     error
}

func (f *fakeChatModel) Generate(ctx context.Context, in []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	return schema.AssistantMessage(f.content, nil), nil
}

func (f *fakeChatModel) Stream(ctx context.Context, in []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("streaming not supported")
}

func TestChat_ReturnsContent(t *testing.T) {
	c := NewChatClient(&fakeChatModel{content: "नमस्ते"}, "test-model")

	out, err := c.Chat(context.Background(), []*schema.Message{schema.UserMessage("hi")}, 0.3)
	require.NoError(t, err)
	assert.Equal(t, "नमस्ते", out)
}

func TestChat_TransportError(t *testing.T) {
	c := NewChatClient(&fakeChatModel{err: errors.New("connection reset")}, "test-model")

	_, err := c.Chat(context.Background(), nil, 0.3)
	require.Error(t, err)
	kind, ok := errx.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, errx.KindTransport, kind)
}

func TestChat_EmptyCompletion(t *testing.T) {
	c := NewChatClient(&fakeChatModel{content: "   "}, "test-model")

	_, err := c.Chat(context.Background(), nil, 0.3)
	require.Error(t, err)
	assert.ErrorIs(t, err, errx.ErrEmptyCompletion)
	kind, _ := errx.KindOf(err)
	assert.Equal(t, errx.KindMalformedResponse, kind)
}

func TestChatJSON_DecodesFencedPayload(t *testing.T) {
	c := NewChatClient(&fakeChatModel{content: "```json\n{\"user_intent\": \"पेंशन\"}\n```"}, "test-model")

	var out struct {
		UserIntent string `json:"user_intent"`
	}
	require.NoError(t, c.ChatJSON(context.Background(), nil, 0.3, &out))
	assert.Equal(t, "पेंशन", out.UserIntent)
}

func TestChatJSON_InvalidJSON(t *testing.T) {
	c := NewChatClient(&fakeChatModel{content: "माफ़ कीजिए, मैं मदद नहीं कर सकता"}, "test-model")

	var out map[string]any
	err := c.ChatJSON(context.Background(), nil, 0.3, &out)
	require.Error(t, err)
	kind, ok := errx.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, errx.KindMalformedResponse, kind)
}

func TestSnippet_KeepsRuneBoundary(t *testing.T) {
	long := strings.Repeat("योजना", 40)
	short := snippet(long)
	assert.LessOrEqual(t, len(short), 200)
	assert.True(t, utf8.ValidString(short))
}

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{"bare object", `{"a": 1}`, `{"a": 1}`},
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"plain fence", "```\n[1, 2]\n```", `[1, 2]`},
		{"leading prose", `यह रहा परिणाम: {"a": 1}`, `{"a": 1}`},
		{"array", `[{"a": 1}]`, `[{"a": 1}]`},
		{"whitespace", "  \n{\"a\": 1}\n  ", `{"a": 1}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExtractJSON(tc.content))
		})
	}
}
