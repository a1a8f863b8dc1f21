package safesearch

import "context"

// Likelihood is the categorical confidence level returned by the safe-search
// service for a single axis.
type Likelihood string

const (
	Unknown      Likelihood = "UNKNOWN"
	VeryUnlikely Likelihood = "VERY_UNLIKELY"
	Unlikely     Likelihood = "UNLIKELY"
	Possible     Likelihood = "POSSIBLE"
	Likely       Likelihood = "LIKELY"
	VeryLikely   Likelihood = "VERY_LIKELY"
)

// Score maps a categorical likelihood onto the numeric scale used by the
// moderation heuristic. Unrecognized values map to 0.
func (l Likelihood) Score() float64 {
	switch l {
	case VeryUnlikely:
		return 0.1
	case Unlikely:
		return 0.3
	case Possible:
		return 0.6
	case Likely:
		return 0.8
	case VeryLikely:
		return 0.9
	default:
		return 0
	}
}

// Annotation holds the per-axis likelihoods for one image.
type Annotation struct {
	Adult    Likelihood `json:"adult"`
	Violence Likelihood `json:"violence"`
	Racy     Likelihood `json:"racy"`
}

// Client is the capability-checked dependency injected into the image
// analyzer. When no credentials are configured a disabled implementation is
// injected instead, so the analyzer branches on Available rather than on
// credential state.
//
//go:generate mockery --name=Client --dir=. --output=./mocks --filename=client_mock.go --case=underscore --with-expecter
type Client interface {
	Available() bool
	Classify(ctx context.Context, imageURL string) (*Annotation, error)
}

type disabledClient struct{}

// NewDisabledClient returns a Client that always reports unavailable.
func NewDisabledClient() Client {
	return &disabledClient{}
}

func (disabledClient) Available() bool { return false }

func (disabledClient) Classify(context.Context, string) (*Annotation, error) {
	return nil, ErrUnavailable
}
