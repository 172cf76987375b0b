package observers

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
)

func TestTruncate_KeepsRuneBoundary(t *testing.T) {
	long := strings.Repeat("योजना", 50)
	short := truncate(long)
	assert.LessOrEqual(t, len(short), maxLoggedContent)
	assert.True(t, utf8.ValidString(short))
}

func TestTruncate_ShortInputUnchanged(t *testing.T) {
	assert.Equal(t, "नमस्ते", truncate("  नमस्ते  "))
}

func TestLastUserContent(t *testing.T) {
	msgs := []*schema.Message{
		schema.SystemMessage("system"),
		schema.UserMessage("पहला"),
		schema.AssistantMessage("answer", nil),
		schema.UserMessage("दूसरा"),
	}
	assert.Equal(t, "दूसरा", lastUserContent(msgs))
	assert.Equal(t, "", lastUserContent(nil))
}

func TestNewCallbacks(t *testing.T) {
	assert.NotNil(t, NewCallbacks())
}
