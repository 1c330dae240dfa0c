package triage

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/spec-kit/ticket-triage/internal/domain"
)

// Classification is the classifier output for one ticket text. Provider
// and Model record which backend actually served, for suggestion
// provenance.
type Classification struct {
	Category   domain.TicketCategory
	Confidence float64
	LatencyMs  int64
	Provider   string
	Model      string
}

// Classifier maps raw ticket text to a predicted category and a
// confidence score in [0,1].
type Classifier interface {
	Classify(ctx context.Context, text string) (Classification, error)
}

// Keyword sets scanned in order. The scan uses strict greater-than, so
// billing wins ties with tech and shipping, and tech wins ties with
// shipping. This ordering is load-bearing for determinism.
var categoryKeywords = []struct {
	category domain.TicketCategory
	keywords []string
}{
	{domain.CategoryBilling, []string{"billing", "invoice", "charge", "charged", "refund", "payment", "subscription", "price"}},
	{domain.CategoryTech, []string{"error", "bug", "crash", "login", "password", "broken", "technical", "outage"}},
	{domain.CategoryShipping, []string{"shipping", "delivery", "package", "tracking", "shipment", "courier", "address"}},
}

const (
	confidenceFloor   = 0.3
	confidenceCeiling = 0.95
)

// KeywordClassifier is the deterministic classifier. It never fails and
// serves as the fallback path for external backends.
type KeywordClassifier struct{}

// NewKeywordClassifier builds the deterministic classifier.
func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{}
}

// Classify tokenizes the lower-cased text and picks the category whose
// keyword set has the strictly highest token match count, starting from
// other/0. Confidence is 2*matches over the whitespace token count of the
// raw text (floored at 5 words), clamped to [0.3, 0.95] and rounded to
// two decimals.
func (c *KeywordClassifier) Classify(_ context.Context, text string) (Classification, error) {
	start := time.Now()

	tokens := strings.Fields(strings.ToLower(text))
	for i, token := range tokens {
		tokens[i] = strings.Trim(token, ".,!?;:\"'()")
	}

	best := domain.CategoryOther
	bestCount := 0
	for _, set := range categoryKeywords {
		count := 0
		for _, keyword := range set.keywords {
			for _, token := range tokens {
				if token == keyword {
					count++
				}
			}
		}
		if count > bestCount {
			best = set.category
			bestCount = count
		}
	}

	wordCount := len(strings.Fields(text))
	if wordCount < 5 {
		wordCount = 5
	}
	confidence := float64(bestCount*2) / float64(wordCount)
	if confidence < confidenceFloor {
		confidence = confidenceFloor
	}
	if confidence > confidenceCeiling {
		confidence = confidenceCeiling
	}
	confidence = math.Round(confidence*100) / 100

	return Classification{
		Category:   best,
		Confidence: confidence,
		LatencyMs:  time.Since(start).Milliseconds(),
		Provider:   "stub",
		Model:      "keyword-match-v1",
	}, nil
}
