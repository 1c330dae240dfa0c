package triage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spec-kit/ticket-triage/internal/domain"
)

// Draft is the drafter output: a non-empty reply plus the identifiers of
// the articles it cites, in presentation order.
type Draft struct {
	Reply     string
	Citations []string
	LatencyMs int64
}

// Drafter produces a candidate reply from ticket text and retrieved
// articles.
type Drafter interface {
	Draft(ctx context.Context, text string, articles []domain.Article) (Draft, error)
}

const snippetLimit = 150

// TemplateDrafter is the deterministic drafter. It never fails and serves
// as the fallback path for external backends.
type TemplateDrafter struct{}

// NewTemplateDrafter builds the deterministic drafter.
func NewTemplateDrafter() *TemplateDrafter {
	return &TemplateDrafter{}
}

// Draft produces a generic acknowledgment when no articles were
// retrieved, otherwise a numbered list of article titles with body
// snippets followed by a closing offer of further help.
func (d *TemplateDrafter) Draft(_ context.Context, _ string, articles []domain.Article) (Draft, error) {
	start := time.Now()

	if len(articles) == 0 {
		return Draft{
			Reply: "Thank you for reaching out. We have received your request and a " +
				"member of our support team will get back to you shortly.",
			Citations: []string{},
			LatencyMs: time.Since(start).Milliseconds(),
		}, nil
	}

	var b strings.Builder
	b.WriteString("Thank you for contacting support. The following articles from our knowledge base may help:\n\n")

	citations := make([]string, 0, len(articles))
	for i, article := range articles {
		fmt.Fprintf(&b, "%d. %s: %s\n", i+1, article.Title, snippet(article.Body))
		citations = append(citations, article.ID)
	}

	b.WriteString("\nIf none of these resolve your issue, just reply here and we will be happy to help further.")

	return Draft{
		Reply:     b.String(),
		Citations: citations,
		LatencyMs: time.Since(start).Milliseconds(),
	}, nil
}

func snippet(body string) string {
	body = strings.TrimSpace(body)
	runes := []rune(body)
	if len(runes) <= snippetLimit {
		return body
	}
	return string(runes[:snippetLimit]) + "..."
}
