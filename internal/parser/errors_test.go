package parser_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursepilot/internal/parser"
)

func TestRateLimitError_Message(t *testing.T) {
	rlErr := parser.NewRateLimitError("claude", fmt.Errorf("too many requests"), 30)

	assert.Contains(t, rlErr.Error(), "claude")
	assert.Contains(t, rlErr.Error(), "too many requests")
	assert.Contains(t, rlErr.Error(), "30s")
}

func TestRateLimitError_Wrapping(t *testing.T) {
	underlying := errors.New("status 429")
	wrapped := fmt.Errorf("generate: %w", parser.NewRateLimitError("gemini", underlying, 45))

	var target *parser.RateLimitError
	require.ErrorAs(t, wrapped, &target)
	assert.Equal(t, "gemini", target.Provider)
	assert.Equal(t, 45*time.Second, target.RetryAfter)
	assert.ErrorIs(t, wrapped, underlying)
	assert.True(t, parser.IsRateLimited(wrapped))
	assert.False(t, parser.IsRateLimited(underlying))
}

func TestNewRateLimitError_RetryAfterDefaults(t *testing.T) {
	assert.Equal(t, 60*time.Second, parser.NewRateLimitError("openai", nil, 0).RetryAfter)
	assert.Equal(t, 60*time.Second, parser.NewRateLimitError("openai", nil, -5).RetryAfter)
	assert.Equal(t, 15*time.Second, parser.NewRateLimitError("openai", nil, 15).RetryAfter)
}

func TestParseRetryAfterHeader(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"30", 30},
		{" 120 ", 120},
		{"-3", 0},
		{"soon", 0},
		{time.Now().Add(-time.Hour).UTC().Format(http.TimeFormat), 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parser.ParseRetryAfterHeader(tt.in), "header %q", tt.in)
	}
}

func TestParseRetryAfterHeader_HTTPDate(t *testing.T) {
	header := time.Now().Add(90 * time.Second).UTC().Format(http.TimeFormat)

	secs := parser.ParseRetryAfterHeader(header)

	assert.InDelta(t, 90, secs, 2)
}
