package alertengine

import (
	"strings"

	"github.com/cloudflare/ahocorasick"
)

// hazardClasses are the event-name substrings that make an alert worth
// rendering. Everything else in the feed (statements, outlooks, test
// messages) is discarded up front.
var hazardClasses = []string{"warning", "watch", "advisory"}

// Classifier decides whether an alert's event label names a hazard class.
type Classifier struct {
	matcher *ahocorasick.Matcher
}

func NewClassifier() *Classifier {
	return &Classifier{matcher: ahocorasick.NewStringMatcher(hazardClasses)}
}

// Qualifies is a case-insensitive substring match against the hazard
// classes.
func (c *Classifier) Qualifies(event string) bool {
	return len(c.matcher.Match([]byte(strings.ToLower(event)))) > 0
}
