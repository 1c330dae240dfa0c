package triage

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticket-triage/internal/domain"
)

func TestTemplateDrafter_NoArticles(t *testing.T) {
	t.Parallel()

	draft, err := NewTemplateDrafter().Draft(context.Background(), "help me", nil)
	require.NoError(t, err)

	assert.NotEmpty(t, draft.Reply)
	assert.Empty(t, draft.Citations)
	assert.NotContains(t, draft.Reply, "1.")
}

func TestTemplateDrafter_NumberedEntries(t *testing.T) {
	t.Parallel()

	for n := 1; n <= 3; n++ {
		articles := make([]domain.Article, 0, n)
		for i := 0; i < n; i++ {
			articles = append(articles, domain.Article{
				ID:    fmt.Sprintf("article-%d", i),
				Title: fmt.Sprintf("Title %d", i),
				Body:  "Short body.",
			})
		}

		draft, err := NewTemplateDrafter().Draft(context.Background(), "help", articles)
		require.NoError(t, err)

		require.Len(t, draft.Citations, n)
		for i, article := range articles {
			assert.Equal(t, article.ID, draft.Citations[i])
			assert.Contains(t, draft.Reply, fmt.Sprintf("%d. %s", i+1, article.Title))
		}
		assert.NotContains(t, draft.Reply, fmt.Sprintf("%d. ", n+1))
	}
}

func TestTemplateDrafter_SnippetTruncation(t *testing.T) {
	t.Parallel()

	longBody := strings.Repeat("x", 400)
	draft, err := NewTemplateDrafter().Draft(context.Background(), "help", []domain.Article{
		{ID: "a1", Title: "Long", Body: longBody},
	})
	require.NoError(t, err)

	assert.Contains(t, draft.Reply, strings.Repeat("x", 150)+"...")
	assert.NotContains(t, draft.Reply, strings.Repeat("x", 151))
}

func TestTemplateDrafter_SnippetCountsRunes(t *testing.T) {
	t.Parallel()

	// 100 two-byte runes (200 bytes) stay under the 150-character limit
	shortBody := strings.Repeat("é", 100)
	draft, err := NewTemplateDrafter().Draft(context.Background(), "help", []domain.Article{
		{ID: "a1", Title: "Accents", Body: shortBody},
	})
	require.NoError(t, err)
	assert.Contains(t, draft.Reply, shortBody)
	assert.NotContains(t, draft.Reply, shortBody+"...")

	longBody := strings.Repeat("é", 200)
	draft, err = NewTemplateDrafter().Draft(context.Background(), "help", []domain.Article{
		{ID: "a1", Title: "Accents", Body: longBody},
	})
	require.NoError(t, err)
	assert.Contains(t, draft.Reply, strings.Repeat("é", 150)+"...")
	assert.NotContains(t, draft.Reply, strings.Repeat("é", 151))
	assert.True(t, utf8.ValidString(draft.Reply))
}

func TestTemplateDrafter_ShortBodyNotTruncated(t *testing.T) {
	t.Parallel()

	draft, err := NewTemplateDrafter().Draft(context.Background(), "help", []domain.Article{
		{ID: "a1", Title: "Short", Body: "A short answer."},
	})
	require.NoError(t, err)

	assert.Contains(t, draft.Reply, "A short answer.")
	assert.NotContains(t, draft.Reply, "A short answer....")
}
