package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// TestMain will run goleak after all tests have been run in the package
// to detect any goroutine leaks
func TestMain(m *testing.M) {
	m.Run()
	goleak.VerifyTestMain(m)
}

type textGeneratorMock struct {
	output     string
	err        error
	lastPrompt string
}

func (t *textGeneratorMock) GenerateText(_ context.Context, prompt string) (string, error) {
	t.lastPrompt = prompt
	if t.err != nil {
		return "", t.err
	}
	return t.output, nil
}

type titleListerMock struct {
	titles []string
	err    error
}

func (t *titleListerMock) TitlesBySector(context.Context, string) ([]string, error) {
	return t.titles, t.err
}

func longContent() string {
	return strings.TrimSpace(strings.Repeat("word ", 650))
}

func validDraftJson(t *testing.T) string {
	t.Helper()
	draftJson, err := json.Marshal(Draft{
		Title:   "A Great Title",
		Content: longContent(),
		Snippet: "A short snippet.",
		Author:  "Jane Expert, Analyst",
	})
	require.NoError(t, err)
	return string(draftJson)
}

func TestGenerator_GenerateForSector(t *testing.T) {
	textGen := &textGeneratorMock{output: validDraftJson(t)}
	titles := &titleListerMock{titles: []string{"Old Title One", "Old Title Two"}}
	generator := NewGenerator(textGen, titles, nil)

	draft, err := generator.GenerateForSector(context.Background(), "Fintech")
	require.NoError(t, err)
	require.NotNil(t, draft)

	assert.Equal(t, "A Great Title", draft.Title)
	assert.Equal(t, "Jane Expert, Analyst", draft.Author)
	assert.GreaterOrEqual(t, wordCount(draft.Content), minContentWords)

	// the prompt carries the sector and the titles to avoid
	assert.Contains(t, textGen.lastPrompt, "Fintech")
	assert.Contains(t, textGen.lastPrompt, "Old Title One")
	assert.Contains(t, textGen.lastPrompt, "Old Title Two")
}

func TestGenerator_GenerateForSector_fencedOutput(t *testing.T) {
	textGen := &textGeneratorMock{
		output: "```json\n" + validDraftJson(t) + "\n```",
	}
	generator := NewGenerator(textGen, &titleListerMock{}, nil)

	draft, err := generator.GenerateForSector(context.Background(), "Fintech")
	require.NoError(t, err)
	assert.Equal(t, "A Great Title", draft.Title)
}

func TestGenerator_GenerateForSector_textGenError(t *testing.T) {
	textGen := &textGeneratorMock{err: assert.AnError}
	generator := NewGenerator(textGen, &titleListerMock{}, nil)

	_, err := generator.GenerateForSector(context.Background(), "Fintech")
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "generate blog content for Fintech")
}

func TestGenerator_GenerateForSector_titlesError(t *testing.T) {
	textGen := &textGeneratorMock{output: validDraftJson(t)}
	titles := &titleListerMock{err: assert.AnError}
	generator := NewGenerator(textGen, titles, nil)

	_, err := generator.GenerateForSector(context.Background(), "Fintech")
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestGenerator_GenerateForSector_fallback(t *testing.T) {
	testCases := []struct {
		name   string
		output string
	}{
		{
			name:   "NotJson",
			output: "sorry, I cannot help with that",
		},
		{
			name:   "MissingField",
			output: fmt.Sprintf(`{"title":"t","content":%q,"snippet":"s"}`, longContent()),
		},
		{
			name:   "ShortContent",
			output: `{"title":"t","content":"too short","snippet":"s","author":"a"}`,
		},
		{
			name:   "EmptyOutput",
			output: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			textGen := &textGeneratorMock{output: tc.output}
			generator := NewGenerator(textGen, &titleListerMock{}, nil)

			draft, err := generator.GenerateForSector(context.Background(), "Fintech")
			require.NoError(t, err)
			require.NotNil(t, draft)

			// malformed output is absorbed: a full draft comes back regardless
			assert.NotEmpty(t, draft.Title)
			assert.NotEmpty(t, draft.Snippet)
			assert.NotEmpty(t, draft.Author)
			assert.GreaterOrEqual(t, wordCount(draft.Content), minContentWords)
			assert.Contains(t, draft.Title, "Fintech")
		})
	}
}

func Test_parseDraft(t *testing.T) {
	draft, ok := parseDraft(validDraftJson(t))
	require.True(t, ok)
	assert.Equal(t, "A Great Title", draft.Title)

	_, ok = parseDraft("{broken json")
	assert.False(t, ok)

	_, ok = parseDraft(`{"title":"","content":"c","snippet":"s","author":"a"}`)
	assert.False(t, ok)
}

func Test_parseDraft_normalizesContent(t *testing.T) {
	content := "## Intro\n\n**Bold** statement. " + longContent()
	draftJson, err := json.Marshal(Draft{
		Title:   "t",
		Content: content,
		Snippet: "s",
		Author:  "a",
	})
	require.NoError(t, err)

	draft, ok := parseDraft(string(draftJson))
	require.True(t, ok)
	assert.NotContains(t, draft.Content, "##")
	assert.NotContains(t, draft.Content, "**")
	assert.True(t, strings.HasPrefix(draft.Content, "Intro"))
}

func Test_stripCodeFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripCodeFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFences("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFences(`{"a":1}`))
}
