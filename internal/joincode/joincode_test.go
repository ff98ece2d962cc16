package joincode

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandom_Generate(t *testing.T) {
	gen := Random{}

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code, err := gen.Generate()
		require.NoError(t, err)
		assert.Len(t, code, Length)
		for _, c := range code {
			assert.True(t, strings.ContainsRune(string(chars), c), "unexpected character %q", c)
		}
		seen[code] = true
	}

	assert.Greater(t, len(seen), 1, "codes must not repeat deterministically")
}

func TestCharsetExcludesAmbiguousCharacters(t *testing.T) {
	for _, c := range "0O1I" {
		assert.False(t, strings.ContainsRune(string(chars), c))
	}
}
