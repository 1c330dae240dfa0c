package domain

import (
	"strings"
	"time"
)

// ArticleStatus enumerates knowledge-base article states.
type ArticleStatus string

const (
	ArticleStatusDraft     ArticleStatus = "draft"
	ArticleStatusPublished ArticleStatus = "published"
)

// Article is a knowledge-base entry. Read-only from the pipeline's
// perspective.
type Article struct {
	ID        string
	Title     string
	Body      string
	Tags      []string
	Status    ArticleStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NormalizeTags lower-cases and trims tags, dropping empties.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		out = append(out, tag)
	}
	return out
}
