package gorm

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestExcerpt(t *testing.T) {
	t.Run("short text passes through", func(t *testing.T) {
		assert.Equal(t, "A quick soup.", excerpt("A quick soup."))
	})

	t.Run("long text cuts on a word boundary", func(t *testing.T) {
		long := strings.Repeat("hearty winter stew ", 20)
		got := excerpt(long)
		assert.True(t, strings.HasSuffix(got, "..."))
		assert.LessOrEqual(t, len(got), excerptLength+3)
		assert.NotContains(t, strings.TrimSuffix(got, "..."), "  ")
	})

	t.Run("multibyte text stays valid utf-8", func(t *testing.T) {
		long := strings.Repeat("味", 100)
		got := excerpt(long)
		assert.True(t, utf8.ValidString(got))
		assert.True(t, strings.HasSuffix(got, "..."))
	})

	t.Run("multibyte text with spaces stays valid utf-8", func(t *testing.T) {
		long := strings.Repeat("crème brûlée ", 30)
		got := excerpt(long)
		assert.True(t, utf8.ValidString(got))
	})
}
