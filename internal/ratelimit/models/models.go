package models

import (
	"strings"
	"time"
)

// EndpointClass groups routes that share a request budget.
type EndpointClass string

const (
	// ClassPublic covers the citizen questionnaire and feedback routes.
	ClassPublic EndpointClass = "public"
	// ClassPortal covers the supplier portal routes.
	ClassPortal EndpointClass = "portal"
)

// Limit is a request budget per window.
type Limit struct {
	Requests int
	Window   time.Duration
}

// Result is the outcome of one check.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter int
}

// Key builds the bucket key for a client in a class. Colons in the client
// identifier are escaped so it cannot spill into another segment.
func Key(class EndpointClass, client string) string {
	return string(class) + ":" + strings.ReplaceAll(client, ":", "_")
}

// RetryAfterSeconds rounds the wait until resetAt up to whole seconds.
func RetryAfterSeconds(resetAt, now time.Time) int {
	wait := resetAt.Sub(now)
	if wait <= 0 {
		return 0
	}
	return int((wait + time.Second - 1) / time.Second)
}
