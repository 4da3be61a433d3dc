package content

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadItems(t *testing.T) {
	t.Run("parses targets and payloads", func(t *testing.T) {
		path := writeFile(t, "items.tsv",
			"crane\thttps://img/crane-a.jpg\thttps://img/crane-b.jpg\n"+
				"PLUMB\thttps://img/plumb.jpg\n"+
				"toast\n")

		items, err := LoadItems(path)
		require.NoError(t, err)
		require.Len(t, items, 3)

		assert.Equal(t, "crane", items[0].Target)
		assert.Equal(t, "https://img/crane-a.jpg", items[0].PayloadA)
		assert.Equal(t, "https://img/crane-b.jpg", items[0].PayloadB)

		assert.Equal(t, "plumb", items[1].Target, "targets are lowercased")
		assert.Empty(t, items[1].PayloadB)

		assert.Empty(t, items[2].PayloadA)
	})

	t.Run("skips rows without a target", func(t *testing.T) {
		path := writeFile(t, "items.tsv", "crane\ta.jpg\n \t\torphan.jpg\n")
		items, err := LoadItems(path)
		require.NoError(t, err)
		assert.Len(t, items, 1)
	})

	t.Run("missing file fails", func(t *testing.T) {
		_, err := LoadItems(filepath.Join(t.TempDir(), "nope.tsv"))
		assert.Error(t, err)
	})
}

func TestLoadWordlist(t *testing.T) {
	path := writeFile(t, "words.txt", "crane\nSLATE\n\n  toast  \n")

	words, err := LoadWordlist(path)
	require.NoError(t, err)

	assert.Len(t, words, 3)
	assert.Contains(t, words, "crane")
	assert.Contains(t, words, "slate")
	assert.Contains(t, words, "toast")
}

func TestLoadGreeting(t *testing.T) {
	t.Run("splits on blank-line groups", func(t *testing.T) {
		path := writeFile(t, "greeting.txt",
			"Welcome to the game!\nHere is how it works.\n\n\nGood luck!\n")

		blocks, err := LoadGreeting(path)
		require.NoError(t, err)
		require.Len(t, blocks, 2)
		assert.Equal(t, "Welcome to the game!\nHere is how it works.", blocks[0])
		assert.Equal(t, "Good luck!", blocks[1])
	})

	t.Run("empty path falls back to the built-in greeting", func(t *testing.T) {
		blocks, err := LoadGreeting("")
		require.NoError(t, err)
		assert.NotEmpty(t, blocks)
	})

	t.Run("missing file fails", func(t *testing.T) {
		_, err := LoadGreeting(filepath.Join(t.TempDir(), "nope.txt"))
		assert.Error(t, err)
	})
}
