package utils

import (
	"math/rand"
	"strings"

	"github.com/tandemly/wordpair/internal"
)

// GenerateCode returns an n-character confirmation code drawn from the
// uppercase-alphanumeric alphabet. Codes identify a completed session for
// a participant; they are not secrets.
func GenerateCode(n int) string {
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteByte(internal.CodeAlphabet[rand.Intn(len(internal.CodeAlphabet))])
	}
	return b.String()
}

// MaskTarget renders the current target as underscores for display,
// preserving spaces.
func MaskTarget(target string) string {
	if target == "" {
		return ""
	}
	masked := make([]string, 0, len(target))
	for i := range target {
		if target[i] == ' ' {
			masked = append(masked, " ")
		} else {
			masked = append(masked, "_")
		}
	}
	return strings.Join(masked, " ")
}
