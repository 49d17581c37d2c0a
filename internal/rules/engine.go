// Package rules applies deterministic cleanup substitutions to transcripts
// before they are submitted for analysis. With no rules file configured the
// engine is the identity transform.
package rules

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
)

const separator = " => "

type rule struct {
	pattern     *regexp.Regexp
	literal     string
	replacement string
}

func (r rule) apply(input string) (string, bool) {
	if r.pattern != nil {
		output := r.pattern.ReplaceAllString(input, r.replacement)
		return output, output != input
	}
	output := strings.ReplaceAll(input, r.literal, r.replacement)
	return output, output != input
}

// Engine applies substitutions loaded from a rules file. Rules run in file
// order, repeatedly, until a pass changes nothing or the pass limit trips.
type Engine struct {
	rules     []rule
	passLimit int
}

// NewEngine loads rules from path. A blank or missing path yields an
// identity engine.
func NewEngine(path string, passLimit int) (*Engine, error) {
	if passLimit <= 0 {
		passLimit = 30
	}
	if strings.TrimSpace(path) == "" {
		return &Engine{passLimit: passLimit}, nil
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Engine{passLimit: passLimit}, nil
		}
		return nil, fmt.Errorf("failed to read rules file %q: %w", path, err)
	}

	rules, err := parseRules(string(contents))
	if err != nil {
		return nil, fmt.Errorf("failed to parse rules file %q: %w", path, err)
	}
	return &Engine{rules: rules, passLimit: passLimit}, nil
}

// Apply transforms text deterministically.
func (e *Engine) Apply(text string) (string, error) {
	if len(e.rules) == 0 {
		return text, nil
	}

	result := text
	for pass := 0; pass < e.passLimit; pass++ {
		changed := false
		for _, r := range e.rules {
			next, ruleChanged := r.apply(result)
			if ruleChanged {
				result = next
				changed = true
			}
		}
		if !changed {
			return result, nil
		}
	}
	return "", fmt.Errorf("rules did not converge within %d passes", e.passLimit)
}

// parseRules reads one rule per line. Lines are either
// "literal => replacement" or "re:pattern => replacement"; blank lines and
// lines starting with # are skipped.
func parseRules(contents string) ([]rule, error) {
	var rules []rule
	for lineNo, line := range strings.Split(contents, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		parts := strings.SplitN(trimmed, separator, 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("line %d: missing %q separator", lineNo+1, strings.TrimSpace(separator))
		}
		from := strings.TrimSpace(parts[0])
		to := strings.TrimSpace(parts[1])
		if from == "" {
			return nil, fmt.Errorf("line %d: empty match side", lineNo+1)
		}

		if pattern, ok := strings.CutPrefix(from, "re:"); ok {
			compiled, err := regexp.Compile(pattern)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid pattern: %w", lineNo+1, err)
			}
			rules = append(rules, rule{pattern: compiled, replacement: to})
			continue
		}
		rules = append(rules, rule{literal: from, replacement: to})
	}
	return rules, nil
}
