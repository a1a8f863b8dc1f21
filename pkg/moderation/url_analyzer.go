package moderation

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	adultDomainWeight   = 0.8
	suspiciousURLWeight = 0.6
)

// URLAnalyzer scores URLs embedded in text against the known adult-domain
// list and the suspicious-pattern list. A URL matching both rules counts
// twice; that is intentional.
type URLAnalyzer struct {
	tables *Tables
	logger *logrus.Logger
}

func NewURLAnalyzer(tables *Tables, logger *logrus.Logger) *URLAnalyzer {
	return &URLAnalyzer{
		tables: tables,
		logger: logger,
	}
}

func (a *URLAnalyzer) Analyze(text string) *AnalysisResult {
	result := newAnalysisResult()

	for _, rawURL := range a.tables.ExtractURLs(text) {
		parsed, err := url.Parse(rawURL)
		if err != nil {
			// Unparseable extraction artifact; not evidence of anything.
			a.logger.WithField("url", rawURL).Debug("skipping unparseable url")
			continue
		}

		hostname := strings.ToLower(parsed.Hostname())
		for _, domain := range a.tables.AdultDomains {
			if strings.Contains(hostname, domain) {
				result.Confidence += adultDomainWeight
				result.Reasons = append(result.Reasons, fmt.Sprintf("Enlace a sitio adulto conocido: %s", rawURL))
				result.Detected = append(result.Detected, rawURL)
				result.addCategory(CategorySexual)
				break
			}
		}

		if a.tables.MatchesSuspiciousPattern(rawURL) {
			result.Confidence += suspiciousURLWeight
			result.Reasons = append(result.Reasons, fmt.Sprintf("URL con patrón sospechoso: %s", rawURL))
			result.Detected = append(result.Detected, rawURL)
			result.addCategory(CategorySuspicious)
		}
	}

	result.finalize()
	return result
}
