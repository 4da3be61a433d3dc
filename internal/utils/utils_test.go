package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tandemly/wordpair/internal"
)

func TestGenerateCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code := GenerateCode(internal.CodeLength)
		assert.Len(t, code, internal.CodeLength)
		for _, r := range code {
			assert.True(t, strings.ContainsRune(internal.CodeAlphabet, r),
				"character %q outside the code alphabet", r)
		}
		seen[code] = true
	}
	assert.Greater(t, len(seen), 1, "codes should not repeat constantly")
}

func TestMaskTarget(t *testing.T) {
	assert.Equal(t, "", MaskTarget(""))
	assert.Equal(t, "_ _ _ _ _", MaskTarget("crane"))
	assert.Equal(t, "_ _ _   _ _", MaskTarget("ab cd"))
}
