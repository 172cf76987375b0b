// Package memory holds conversation-memory helpers that sit beside the
// repository layer, currently contradiction detection over profile changes.
package memory

import (
	"fmt"
	"time"

	"github.com/yojana-mitra/server/internal/agent/model"
	logx "github.com/yojana-mitra/server/pkg/logger"
)

// Contradiction severities.
const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
	SeverityLow    = "low"
)

// immutableFields should never change once set; a conflicting value always
// warrants a clarification.
var immutableFields = map[string]bool{
	"gender":   true,
	"category": true,
}

// mutableFields may reasonably change between conversations.
var mutableFields = map[string]bool{
	"annual_income": true,
	"occupation":    true,
	"state":         true,
	"district":      true,
}

var fieldNamesHI = map[string]string{
	"age":           "उम्र",
	"annual_income": "वार्षिक आय",
	"category":      "श्रेणी",
	"state":         "राज्य",
	"gender":        "लिंग",
	"occupation":    "व्यवसाय",
	"is_bpl":        "BPL स्थिति",
}

// ContradictionHandler decides whether a profile field change is a real
// contradiction and phrases the Hindi clarification for it. It is stateless;
// detected contradictions live in the session's ConversationMemory.
type ContradictionHandler struct{}

// NewContradictionHandler returns the handler.
func NewContradictionHandler() *ContradictionHandler {
	return &ContradictionHandler{}
}

// Detect returns a contradiction record when old and new values genuinely
// conflict. An age increase of exactly one year is treated as natural
// progression, not a contradiction.
func (h *ContradictionHandler) Detect(field string, oldValue, newValue any) *model.Contradiction {
	if oldValue == nil || newValue == nil {
		return nil
	}
	if oldValue == newValue {
		return nil
	}

	if field == "age" {
		oldAge, oldOK := asInt(oldValue)
		newAge, newOK := asInt(newValue)
		if oldOK && newOK && newAge == oldAge+1 {
			return nil
		}
	}

	c := &model.Contradiction{
		Field:     field,
		OldValue:  oldValue,
		NewValue:  newValue,
		Severity:  severity(field),
		Timestamp: time.Now().UTC(),
	}
	logx.Warn().
		Str("field", c.Field).
		Str("severity", c.Severity).
		Interface("old", c.OldValue).
		Interface("new", c.NewValue).
		Msg("contradiction detected")
	return c
}

// Clarification phrases the Hindi question for one contradiction. High
// severity asks which value is correct; the rest ask whether the value
// changed.
func (h *ContradictionHandler) Clarification(c *model.Contradiction) string {
	fieldHI, ok := fieldNamesHI[c.Field]
	if !ok {
		fieldHI = c.Field
	}

	if c.Severity == SeverityHigh {
		return fmt.Sprintf(
			"आपने पहले अपना %s '%v' बताया था, लेकिन अब '%v' बता रहे हैं। सही जानकारी देने के लिए कृपया स्पष्ट करें - आपका सही %s क्या है?",
			fieldHI, c.OldValue, c.NewValue, fieldHI)
	}
	return fmt.Sprintf(
		"आपने पहले %s '%v' बताया था। क्या यह बदलकर '%v' हो गया है?",
		fieldHI, c.OldValue, c.NewValue)
}

func severity(field string) string {
	switch {
	case immutableFields[field]:
		return SeverityHigh
	case mutableFields[field]:
		return SeverityLow
	default:
		return SeverityMedium
	}
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
