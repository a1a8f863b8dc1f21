package common

import "time"

const (
	// SafeSearchBreakerName labels the circuit breaker guarding classifier calls.
	SafeSearchBreakerName = "safesearch"

	// SafeSearchBreakerTimeout is how long the breaker stays open before probing.
	SafeSearchBreakerTimeout = 30 * time.Second

	// SafeSearchBreakerMaxFailures trips the breaker after this many consecutive failures.
	SafeSearchBreakerMaxFailures = 5
)
