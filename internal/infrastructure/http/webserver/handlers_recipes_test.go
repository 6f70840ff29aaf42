package webserver

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/forkful/v1/internal/domain/recipe"
)

func TestStatusFilter(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want recipe.Status
	}{
		{"Draft", "draft", recipe.StatusDraft},
		{"Published", "published", recipe.StatusPublished},
		{"Empty", "", ""},
		{"All", "all", ""},
		{"Garbage", "bogus", ""},
		{"WrongCase", "Draft", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, statusFilter(tc.raw))
		})
	}
}
