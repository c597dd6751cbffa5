package gemini

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_fallbackDraft(t *testing.T) {
	draft := fallbackDraft("Fintech")
	require.NotNil(t, draft)

	assert.Equal(t, "The Future of Fintech: Latest Trends and Innovations", draft.Title)
	assert.Contains(t, draft.Content, "Fintech")
	assert.Contains(t, draft.Snippet, "Fintech")
	assert.Contains(t, draft.Author, "Fintech")

	assert.NotEmpty(t, draft.Title)
	assert.NotEmpty(t, draft.Content)
	assert.NotEmpty(t, draft.Snippet)
	assert.NotEmpty(t, draft.Author)

	assert.GreaterOrEqual(t, wordCount(draft.Content), minContentWords)
}

func Test_fallbackDraft_deterministic(t *testing.T) {
	first := fallbackDraft("SAAS")
	second := fallbackDraft("SAAS")
	assert.Equal(t, first, second)

	other := fallbackDraft("Edtech")
	assert.NotEqual(t, first.Title, other.Title)
}

func Test_fallbackDraft_sectionStructure(t *testing.T) {
	draft := fallbackDraft("Social Media")

	for _, section := range []string{
		"Introduction",
		"Current Market Analysis",
		"Emerging Technologies and Innovations",
		"Industry Challenges and Solutions",
		"Future Trends and Predictions",
		"Best Practices and Recommendations",
		"Conclusion",
	} {
		assert.Contains(t, draft.Content, section)
	}

	// template prose never needs the normalization cleanup
	assert.Equal(t, draft.Content, NormalizeContent(draft.Content))
}

func Test_wordCount(t *testing.T) {
	assert.Equal(t, 0, wordCount(""))
	assert.Equal(t, 1, wordCount("one"))
	assert.Equal(t, 3, wordCount("  one\ntwo   three "))
	assert.Equal(t, 650, wordCount(strings.Repeat("word ", 650)))
}
