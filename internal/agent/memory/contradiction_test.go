package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContradictionHandler_Detect(t *testing.T) {
	h := NewContradictionHandler()

	c := h.Detect("state", "Bihar", "Jharkhand")
	require.NotNil(t, c)
	assert.Equal(t, "state", c.Field)
	assert.Equal(t, "Bihar", c.OldValue)
	assert.Equal(t, "Jharkhand", c.NewValue)
	assert.False(t, c.Timestamp.IsZero())
}

func TestContradictionHandler_NoContradictionOnEqual(t *testing.T) {
	h := NewContradictionHandler()
	assert.Nil(t, h.Detect("state", "Bihar", "Bihar"))
	assert.Nil(t, h.Detect("state", nil, "Bihar"))
	assert.Nil(t, h.Detect("state", "Bihar", nil))
}

func TestContradictionHandler_AgeProgressionExempt(t *testing.T) {
	h := NewContradictionHandler()

	// +1 year is natural progression.
	assert.Nil(t, h.Detect("age", 35, 36))
	// JSON decoding yields float64 values.
	assert.Nil(t, h.Detect("age", float64(35), float64(36)))

	assert.NotNil(t, h.Detect("age", 35, 40))
	assert.NotNil(t, h.Detect("age", 35, 34))
}

func TestContradictionHandler_Severity(t *testing.T) {
	h := NewContradictionHandler()

	assert.Equal(t, SeverityHigh, h.Detect("gender", "male", "female").Severity)
	assert.Equal(t, SeverityHigh, h.Detect("category", "sc", "obc").Severity)
	assert.Equal(t, SeverityLow, h.Detect("annual_income", 50000.0, 80000.0).Severity)
	assert.Equal(t, SeverityLow, h.Detect("state", "Bihar", "Jharkhand").Severity)
	assert.Equal(t, SeverityMedium, h.Detect("is_bpl", true, false).Severity)
}

func TestContradictionHandler_Clarification(t *testing.T) {
	h := NewContradictionHandler()

	high := h.Detect("gender", "male", "female")
	require.NotNil(t, high)
	q := h.Clarification(high)
	assert.Contains(t, q, "लिंग")
	assert.Contains(t, q, "सही")

	low := h.Detect("state", "Bihar", "Jharkhand")
	require.NotNil(t, low)
	q = h.Clarification(low)
	assert.Contains(t, q, "राज्य")
	assert.Contains(t, q, "बदलकर")
}

func TestContradictionHandler_UnknownFieldClarification(t *testing.T) {
	h := NewContradictionHandler()
	c := h.Detect("education_level", "primary", "graduate")
	require.NotNil(t, c)
	assert.Contains(t, h.Clarification(c), "education_level")
}
