package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestTruncateText(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	short := "hello"
	assert.Equal(t, short, tp.TruncateText(short, 100))
	assert.Equal(t, short, tp.TruncateText(short, 0))

	long := strings.Repeat("x", 200)
	got := tp.TruncateText(long, 100)
	assert.True(t, strings.HasPrefix(got, strings.Repeat("x", 100)))
	assert.Contains(t, got, "Content truncated")
}

func TestTruncateTextUTF8Boundary(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	text := strings.Repeat("ä", 10)
	got := tp.TruncateText(text, 5)
	// 5 bytes cuts a rune in half; the boundary backs off to 4.
	assert.True(t, strings.HasPrefix(got, strings.Repeat("ä", 2)))
	assert.NotContains(t, got, "�")
}

func TestSanitizeUTF8(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	assert.Equal(t, "clean", tp.SanitizeUTF8("clean"))
	assert.Equal(t, "ab", tp.SanitizeUTF8("a\xffb"))
}
