package filter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "included_words.txt")
	content := "# plus words\nAdWords, Директ\n\nконтекстная реклама\n  seo  \n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	words := LoadWords(path)

	assert.Equal(t, 4, words.Cardinality())
	assert.True(t, words.Contains("adwords"))
	assert.True(t, words.Contains("директ"))
	assert.True(t, words.Contains("контекстная реклама"))
	assert.True(t, words.Contains("seo"))
	//comments are not words
	assert.False(t, words.Contains("# plus words"))
}

func TestLoadWords_MissingFile(t *testing.T) {
	words := LoadWords(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Equal(t, 0, words.Cardinality())
}
