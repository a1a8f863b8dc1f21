package moderation

import "math"

// Threshold is the fixed per-analyzer NSFW cutoff: a result flags iff its
// confidence strictly exceeds it.
const Threshold = 0.3

// Request is the transient payload a single moderation call operates on.
type Request struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Images  []string `json:"images"`
}

// AnalysisResult is the verdict of one analyzer.
type AnalysisResult struct {
	IsNSFW     bool     `json:"isNSFW"`
	Confidence float64  `json:"confidence"`
	Reasons    []string `json:"reasons"`
	Detected   []string `json:"detected"`
	Categories []string `json:"categories"`
}

func newAnalysisResult() *AnalysisResult {
	return &AnalysisResult{
		Reasons:    []string{},
		Detected:   []string{},
		Categories: []string{},
	}
}

func (r *AnalysisResult) addCategory(category string) {
	for _, c := range r.Categories {
		if c == category {
			return
		}
	}
	r.Categories = append(r.Categories, category)
}

// finalize clamps confidence into [0,1] and derives the flag.
func (r *AnalysisResult) finalize() {
	r.Confidence = math.Min(r.Confidence, 1.0)
	r.IsNSFW = r.Confidence > Threshold
}

// DetectedContent groups matched evidence by analyzer.
type DetectedContent struct {
	Text   []string `json:"text"`
	URLs   []string `json:"urls"`
	Images []string `json:"images"`
}

// Result is the merged verdict returned to callers. The flag is the OR of
// the three analyzers and the confidence the max: a single dominant signal
// is sufficient to flag.
type Result struct {
	IsNSFW          bool            `json:"isNSFW"`
	Confidence      float64         `json:"confidence"`
	Reasons         []string        `json:"reasons"`
	Categories      []string        `json:"categories"`
	DetectedContent DetectedContent `json:"detectedContent"`
}

func mergeResults(text, urls, images *AnalysisResult) *Result {
	merged := &Result{
		IsNSFW:     text.IsNSFW || urls.IsNSFW || images.IsNSFW,
		Confidence: math.Max(text.Confidence, math.Max(urls.Confidence, images.Confidence)),
		Reasons:    []string{},
		Categories: []string{},
		DetectedContent: DetectedContent{
			Text:   text.Detected,
			URLs:   urls.Detected,
			Images: images.Detected,
		},
	}

	for _, r := range [][]string{text.Reasons, urls.Reasons, images.Reasons} {
		merged.Reasons = append(merged.Reasons, r...)
	}

	seen := make(map[string]struct{})
	for _, cats := range [][]string{text.Categories, urls.Categories, images.Categories} {
		for _, c := range cats {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			merged.Categories = append(merged.Categories, c)
		}
	}

	return merged
}
