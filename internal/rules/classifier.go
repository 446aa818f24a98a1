package rules

import (
	"go.uber.org/zap"

	"github.com/dshills/tilestorm/internal/window"
)

// Classifier applies compiled rules to windows.
type Classifier struct {
	log   *zap.Logger
	rules []Rule
}

// NewClassifier creates a classifier over rules.
func NewClassifier(log *zap.Logger, rules []Rule) *Classifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &Classifier{log: log, rules: rules}
}

// Len returns the number of rules.
func (c *Classifier) Len() int { return len(c.rules) }

// Apply runs every matching rule on w, top to bottom, so later rules
// override the effects of earlier ones. It returns the number of rules
// that fired.
func (c *Classifier) Apply(w *window.Window) int {
	fired := 0
	for i := range c.rules {
		r := &c.rules[i]
		if !r.Matches(w) {
			continue
		}
		for _, a := range r.Actions {
			a.Apply(w)
		}
		fired++
	}
	if fired > 0 {
		c.log.Debug("classified window", zap.Stringer("window", w), zap.Int("rules", fired))
	}
	return fired
}
