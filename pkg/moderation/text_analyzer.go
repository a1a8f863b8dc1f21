package moderation

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	keywordWeight         = 0.3
	suspiciousTextWeight  = 0.4
	explicitMentionWeight = 0.5
)

// TextAnalyzer scores free text against the keyword tables, embedded
// suspicious URLs and explicit adult-content mentions. It never fails; an
// empty result means nothing matched.
type TextAnalyzer struct {
	tables *Tables
	logger *logrus.Logger
}

func NewTextAnalyzer(tables *Tables, logger *logrus.Logger) *TextAnalyzer {
	return &TextAnalyzer{
		tables: tables,
		logger: logger,
	}
}

func (a *TextAnalyzer) Analyze(text string) *AnalysisResult {
	result := newAnalysisResult()
	lower := strings.ToLower(text)

	// Substring containment, no word boundaries. The tables are curated so
	// that common-word infixes (Sussex, asexual) stay out of reach.
	for _, category := range a.tables.KeywordCategories {
		matched := false
		for _, keyword := range category.Keywords {
			if strings.Contains(lower, keyword) {
				result.Confidence += keywordWeight
				result.Reasons = append(result.Reasons, fmt.Sprintf("Palabra clave detectada: %q", keyword))
				result.Detected = append(result.Detected, keyword)
				matched = true
			}
		}
		if matched {
			result.addCategory(category.Name)
		}
	}

	for _, rawURL := range a.tables.ExtractURLs(text) {
		if a.tables.MatchesSuspiciousPattern(rawURL) {
			result.Confidence += suspiciousTextWeight
			result.Reasons = append(result.Reasons, fmt.Sprintf("URL sospechosa en el texto: %s", rawURL))
			result.Detected = append(result.Detected, rawURL)
		}
	}

	for _, re := range a.tables.ExplicitMentions {
		if match := re.FindString(text); match != "" {
			result.Confidence += explicitMentionWeight
			result.Reasons = append(result.Reasons, fmt.Sprintf("Mención explícita de contenido adulto: %q", match))
			result.Detected = append(result.Detected, match)
		}
	}

	result.finalize()
	return result
}
