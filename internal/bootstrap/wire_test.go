package bootstrap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/RealAndrewRen/postul/internal/domain"
)

type noopSink struct{}

func (noopSink) StateChanged(state domain.CaptureState, reason domain.CaptureStateReason) {}
func (noopSink) InterimTranscript(text string)                                            {}
func (noopSink) AnalysisComplete(idea *domain.Idea, projects []domain.Project)            {}
func (noopSink) CaptureError(code domain.ErrorCode, detail string)                        {}

func TestBuildWiresEverything(t *testing.T) {
	t.Setenv("POSTUL_ENV", "development")
	t.Setenv("POSTUL_DEEPGRAM_API_KEY", "test-key")
	t.Setenv("POSTUL_RULES_FILE", "")

	services, err := Build(noopSink{}, nil, false)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if services.Controller == nil || services.API == nil {
		t.Fatalf("incomplete service graph: %+v", services)
	}
	if services.Config.API.BaseURL == "" {
		t.Fatalf("expected a resolved base URL")
	}
	if state := services.Controller.Status().State; state != domain.CaptureStateIdle {
		t.Fatalf("controller should start idle, got %s", state)
	}
}

func TestBuildScopesProject(t *testing.T) {
	t.Setenv("POSTUL_ENV", "development")

	projectID := int64(9)
	services, err := Build(noopSink{}, &projectID, true)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if services.Controller == nil {
		t.Fatalf("expected a controller")
	}
}

func TestBuildFailsOnBadRulesFile(t *testing.T) {
	rulesPath := filepath.Join(t.TempDir(), "rules.txt")
	writeBadRules(t, rulesPath)

	t.Setenv("POSTUL_ENV", "development")
	t.Setenv("POSTUL_RULES_FILE", rulesPath)

	if _, err := Build(noopSink{}, nil, false); err == nil {
		t.Fatalf("expected build to fail on an unparsable rules file")
	}
}

func TestBuildFailsOnUnknownEnv(t *testing.T) {
	t.Setenv("POSTUL_ENV", "staging")

	if _, err := Build(noopSink{}, nil, false); err == nil {
		t.Fatalf("expected build to fail on an unknown environment")
	}
}

func writeBadRules(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("re:[ => broken\n"), 0o600); err != nil {
		t.Fatalf("failed to write rules file: %v", err)
	}
}
