package utils

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestTextProcessor_TruncateText(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	t.Run("short text is untouched", func(t *testing.T) {
		assert.Equal(t, "pedido", tp.TruncateText("pedido", 10))
		assert.Equal(t, "pedido", tp.TruncateText("pedido", 0))
	})

	t.Run("long text is cut and marked", func(t *testing.T) {
		got := tp.TruncateText("pedido entregue", 6)
		assert.Equal(t, "pedido"+TruncationMarker, got)
	})

	t.Run("cut never splits a rune", func(t *testing.T) {
		// "ç" is two bytes, a cut at 2 falls inside it
		got := tp.TruncateText("açúcar", 2)
		assert.True(t, utf8.ValidString(got))
		assert.True(t, strings.HasPrefix(got, "a"+TruncationMarker))
	})
}

func TestTextProcessor_SanitizeUTF8(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	assert.Equal(t, "válido", tp.SanitizeUTF8("válido"))
	assert.Equal(t, "a\uFFFDb", tp.SanitizeUTF8("a\xffb"))
}

func TestTextProcessor_ProcessText(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	got := tp.ProcessText("ab\xffcdef", 4)
	assert.True(t, utf8.ValidString(got))
	assert.True(t, strings.HasSuffix(got, TruncationMarker))
}
