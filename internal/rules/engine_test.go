package rules

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeRules(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.txt")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("failed to write rules file: %v", err)
	}
	return path
}

func TestIdentityWithoutRulesFile(t *testing.T) {
	t.Parallel()

	engine, err := NewEngine("", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := engine.Apply("leave me alone")
	if err != nil || got != "leave me alone" {
		t.Fatalf("unexpected result: %q, %v", got, err)
	}
}

func TestMissingRulesFileIsIdentity(t *testing.T) {
	t.Parallel()

	engine, err := NewEngine(filepath.Join(t.TempDir(), "nope.txt"), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := engine.Apply("still here")
	if err != nil || got != "still here" {
		t.Fatalf("unexpected result: %q, %v", got, err)
	}
}

func TestLiteralAndRegexRules(t *testing.T) {
	t.Parallel()

	path := writeRules(t, strings.Join([]string{
		"# transcript cleanup",
		"",
		"deep gram => Deepgram",
		`re:\bum\b => `,
	}, "\n"))

	engine, err := NewEngine(path, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := engine.Apply("um deep gram is great")
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if got != " Deepgram is great" {
		t.Fatalf("unexpected result: %q", got)
	}
}

func TestRulesRunUntilStable(t *testing.T) {
	t.Parallel()

	path := writeRules(t, "aaa => a\n")
	engine, err := NewEngine(path, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := engine.Apply("aaaaaaaaa")
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if got != "a" {
		t.Fatalf("unexpected result: %q", got)
	}
}

func TestNonConvergingRulesFail(t *testing.T) {
	t.Parallel()

	path := writeRules(t, "a => aa\n")
	engine, err := NewEngine(path, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := engine.Apply("a"); err == nil {
		t.Fatalf("expected convergence error")
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		contents string
		fragment string
	}{
		{"missing separator", "no separator here\n", "missing"},
		{"invalid pattern", "re:[ => x\n", "invalid pattern"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			path := writeRules(t, tc.contents)
			_, err := NewEngine(path, 0)
			if err == nil || !strings.Contains(err.Error(), tc.fragment) {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
