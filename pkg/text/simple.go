package text

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"
)

// SimpleCellReplacer implements CellReplacer using basic string replacement
type SimpleCellReplacer struct {
	rules     []ReplacementRule
	trimSpace bool
}

// NewSimpleCellReplacer creates a new SimpleCellReplacer after validating rules
func NewSimpleCellReplacer(rules []ReplacementRule, trimSpace bool) (*SimpleCellReplacer, error) {
	if err := ValidateRules(rules); err != nil {
		return nil, err
	}
	return &SimpleCellReplacer{
		rules:     rules,
		trimSpace: trimSpace,
	}, nil
}

// ReplaceCell implements CellReplacer.ReplaceCell
func (r *SimpleCellReplacer) ReplaceCell(field, value string) (string, int) {
	count := 0
	current := value

	if r.trimSpace {
		current = strings.TrimSpace(current)
	}

	for _, rule := range r.rules {
		if !matchesField(rule.FieldGlob, field) {
			continue
		}

		n := strings.Count(current, rule.FromText)
		if n == 0 {
			continue
		}
		current = strings.ReplaceAll(current, rule.FromText, rule.ToText)
		count += n
	}

	return current, count
}

// Empty reports whether the replacer would never change a value
func (r *SimpleCellReplacer) Empty() bool {
	return !r.trimSpace && len(r.rules) == 0
}

// ValidateRules checks that all rules are usable
func ValidateRules(rules []ReplacementRule) error {
	for i, rule := range rules {
		if rule.FromText == "" {
			return errors.Errorf("rule %d: from text is required", i)
		}
		if rule.FieldGlob != "" && !doublestar.ValidatePattern(rule.FieldGlob) {
			return errors.Errorf("rule %d: invalid field pattern %q", i, rule.FieldGlob)
		}
	}
	return nil
}

func matchesField(pattern, field string) bool {
	if pattern == "" {
		return true
	}
	// patterns are validated up front
	matched, _ := doublestar.Match(pattern, field)
	return matched
}
