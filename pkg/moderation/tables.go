package moderation

import "regexp"

const (
	CategorySexual     = "sexual"
	CategoryViolence   = "violencia"
	CategoryDrugs      = "drogas"
	CategorySuspicious = "sospechoso"
	CategoryAdult      = "adulto"
	CategorySuggestive = "sugerente"
)

// KeywordCategory groups keywords under the category they tag when matched.
type KeywordCategory struct {
	Name     string
	Keywords []string
}

// Tables holds the static keyword, domain and pattern data the analyzers
// score against. Built once at startup and shared read-only; safe for
// unlimited concurrent readers.
type Tables struct {
	KeywordCategories  []KeywordCategory
	AdultDomains       []string
	SuspiciousPatterns []*regexp.Regexp
	ExplicitMentions   []*regexp.Regexp

	urlPattern           *regexp.Regexp
	markdownImagePattern *regexp.Regexp
}

// DefaultTables returns the built-in bilingual (es/en) moderation tables.
//
// Keyword matching is substring-based with no word boundaries, so the lists
// deliberately avoid entries that are infixes of common words. In particular
// there is no bare "sex" entry: "Sussex" and "asexual" must not flag.
func DefaultTables() *Tables {
	return &Tables{
		KeywordCategories: []KeywordCategory{
			{
				Name: CategorySexual,
				Keywords: []string{
					"porn", "xxx", "nsfw", "hentai",
					"pornografía", "pornografia",
					"erótico", "erotico", "erótica", "erotica",
					"masturbación", "masturbacion",
					"fetiche", "orgasmo", "onlyfans",
					"prostitución", "prostitucion",
				},
			},
			{
				Name: CategoryViolence,
				Keywords: []string{
					"gore", "tortura", "masacre", "matanza",
					"asesinato", "suicidio", "suicide",
					"decapitación", "decapitacion", "beheading",
					"mutilación", "mutilacion",
					"violación", "violacion",
				},
			},
			{
				Name: CategoryDrugs,
				Keywords: []string{
					"cocaína", "cocaina", "heroína", "heroina",
					"metanfetamina", "fentanilo",
					"narcotráfico", "narcotrafico",
					"drogas duras",
				},
			},
		},
		AdultDomains: []string{
			"pornhub.com", "xvideos.com", "xnxx.com", "redtube.com",
			"youporn.com", "xhamster.com", "brazzers.com", "onlyfans.com",
			"chaturbate.com", "spankbang.com", "rule34.xxx", "e621.net",
		},
		SuspiciousPatterns: compilePatterns(
			"porn", "xxx", "adult", "sex", "nude", "naked",
			"fetish", "bdsm", "violence", "gore",
		),
		ExplicitMentions: []*regexp.Regexp{
			regexp.MustCompile(`(?i)no\s+apto\s+para\s+menores`),
			regexp.MustCompile(`(?i)contenido\s+(para\s+)?adultos?`),
			regexp.MustCompile(`(?i)solo\s+(para\s+)?mayores`),
			regexp.MustCompile(`(?i)not\s+safe\s+for\s+work`),
			regexp.MustCompile(`(?i)\b18\s*\+`),
			regexp.MustCompile(`(?i)\bnsfw\b`),
		},
		urlPattern:           regexp.MustCompile(`https?://[^\s]+`),
		markdownImagePattern: regexp.MustCompile(`!\[[^\]]*\]\(([^)\s]+)[^)]*\)`),
	}
}

func compilePatterns(words ...string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(words))
	for _, w := range words {
		patterns = append(patterns, regexp.MustCompile(`(?i)`+w))
	}
	return patterns
}

// ExtractURLs returns every http(s) URL substring in text, in order.
func (t *Tables) ExtractURLs(text string) []string {
	return t.urlPattern.FindAllString(text, -1)
}

// ExtractMarkdownImages returns the URLs of markdown image tags in content,
// in order of appearance.
func (t *Tables) ExtractMarkdownImages(content string) []string {
	matches := t.markdownImagePattern.FindAllStringSubmatch(content, -1)
	urls := make([]string, 0, len(matches))
	for _, m := range matches {
		urls = append(urls, m[1])
	}
	return urls
}

// MatchesSuspiciousPattern reports whether s matches any suspicious pattern.
func (t *Tables) MatchesSuspiciousPattern(s string) bool {
	for _, re := range t.SuspiciousPatterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}
