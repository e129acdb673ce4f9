package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type entity struct {
	ID   int
	Name string
}

func TestRemoveDuplicates(t *testing.T) {
	key := func(e entity) int { return e.ID }

	t.Run("keeps first occurrence in order", func(t *testing.T) {
		in := []entity{{1, "a"}, {2, "b"}, {1, "c"}, {3, "d"}, {2, "e"}}
		out := RemoveDuplicates(in, key)
		assert.Equal(t, []entity{{1, "a"}, {2, "b"}, {3, "d"}}, out)
	})

	t.Run("idempotent", func(t *testing.T) {
		in := []entity{{2, "b"}, {2, "b"}, {1, "a"}}
		once := RemoveDuplicates(in, key)
		twice := RemoveDuplicates(once, key)
		assert.Equal(t, once, twice)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, RemoveDuplicates(nil, key))
	})

	t.Run("does not mutate input", func(t *testing.T) {
		in := []entity{{1, "a"}, {1, "b"}}
		_ = RemoveDuplicates(in, key)
		assert.Equal(t, []entity{{1, "a"}, {1, "b"}}, in)
	})
}
