package core

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestSession_StateMachine(t *testing.T) {
	s := NewSession()
	if s.State() != StateLoading {
		t.Fatalf("initial state = %v, want loading", s.State())
	}

	if err := s.Begin(testCatalog(t), t.TempDir()); err != nil {
		t.Fatalf("Begin() error: %v", err)
	}
	if s.State() != StateTagSelection {
		t.Fatalf("state after Begin = %v, want tag-selection", s.State())
	}

	// Skipping ahead is illegal.
	if err := s.To(StateInstalling); err == nil {
		t.Error("tag-selection -> installing must be rejected")
	}

	steps := []SessionState{StatePackageSelection, StateConfirming, StateInstalling, StateDone}
	for _, next := range steps {
		if err := s.To(next); err != nil {
			t.Fatalf("To(%v) error: %v", next, err)
		}
	}
}

func TestSession_BackwardsEdges(t *testing.T) {
	s := NewSession()
	if err := s.Begin(testCatalog(t), t.TempDir()); err != nil {
		t.Fatal(err)
	}

	if err := s.To(StatePackageSelection); err != nil {
		t.Fatal(err)
	}
	if err := s.To(StateTagSelection); err != nil {
		t.Errorf("package-selection -> tag-selection should be legal: %v", err)
	}
}

func TestSession_CancelIsAlwaysLegal(t *testing.T) {
	s := NewSession()
	if err := s.Begin(testCatalog(t), t.TempDir()); err != nil {
		t.Fatal(err)
	}

	s.Cancel()
	if s.State() != StateDone {
		t.Fatalf("state after Cancel = %v, want done", s.State())
	}
	if len(s.Report.Results) != 0 {
		t.Error("cancelled session must report an empty outcome set")
	}
}

func TestSession_BeginCreatesTargetDir(t *testing.T) {
	s := NewSession()
	target := filepath.Join(t.TempDir(), "nested", "sdks")

	if err := s.Begin(testCatalog(t), target); err != nil {
		t.Fatalf("Begin() error: %v", err)
	}
	info, err := os.Stat(target)
	if err != nil || !info.IsDir() {
		t.Errorf("target directory not created: %v", err)
	}
}

func TestSession_BeginDirectoryError(t *testing.T) {
	// A file occupying the target path makes MkdirAll fail.
	base := t.TempDir()
	blocker := filepath.Join(base, "blocked")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewSession()
	err := s.Begin(testCatalog(t), filepath.Join(blocker, "sub"))
	if err == nil {
		t.Fatal("expected DirectoryError")
	}
	if _, ok := err.(*DirectoryError); !ok {
		t.Errorf("expected *DirectoryError, got %T", err)
	}
}

// Failure isolation: one package's failing step never blocks the rest
// of the batch.
func TestSession_RunBatchFailureIsolation(t *testing.T) {
	srcA := setupGitRepo(t)
	srcB := setupGitRepo(t)

	data := `{
	  "tags": {
	    "python": {"displayName": "Python", "packages": {
	      "A": {"source": ` + jsonString(srcA) + `, "installSteps": ["touch ok"]},
	      "B": {"source": ` + jsonString(srcB) + `, "installSteps": ["false"]}
	    }}
	  }
	}`
	cat, err := ParseCatalog([]byte(data), "test")
	if err != nil {
		t.Fatal(err)
	}

	s := NewSession()
	if err := s.Begin(cat, t.TempDir()); err != nil {
		t.Fatal(err)
	}
	s.Selection.SelectAllVisible()

	var started []string
	report := s.RunBatch(context.Background(), NewInstaller(io.Discard), nil, BatchEvents{
		OnStart: func(pkg Package, _, _ int) { started = append(started, pkg.Name) },
	})

	if !equalNames(started, "A", "B") {
		t.Errorf("batch order = %v, want [A B]", started)
	}
	if got := report.Names(OutcomeSucceeded); !equalNames(got, "A") {
		t.Errorf("succeeded = %v, want [A]", got)
	}
	if got := report.Names(OutcomeFailed); !equalNames(got, "B") {
		t.Errorf("failed = %v, want [B]", got)
	}
	if got := report.Names(OutcomeSkipped); len(got) != 0 {
		t.Errorf("skipped = %v, want none", got)
	}
	if s.State() != StateDone {
		t.Errorf("state after batch = %v, want done", s.State())
	}
}

func TestSession_RunBatchHonorsCancellation(t *testing.T) {
	src := setupGitRepo(t)

	data := `{
	  "tags": {"t": {"packages": {"P": {"source": ` + jsonString(src) + `}}}}
	}`
	cat, err := ParseCatalog([]byte(data), "test")
	if err != nil {
		t.Fatal(err)
	}

	s := NewSession()
	if err := s.Begin(cat, t.TempDir()); err != nil {
		t.Fatal(err)
	}
	s.Selection.SelectAllVisible()

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancelled before the first iteration.

	report := s.RunBatch(ctx, NewInstaller(io.Discard), nil, BatchEvents{})
	if len(report.Results) != 0 {
		t.Errorf("cancelled batch attempted %d installs, want 0", len(report.Results))
	}
	if s.State() != StateDone {
		t.Errorf("state = %v, want done", s.State())
	}
}

// jsonString quotes a path for embedding in a JSON literal.
func jsonString(s string) string {
	out := `"`
	for _, r := range s {
		switch r {
		case '\\':
			out += `\\`
		case '"':
			out += `\"`
		default:
			out += string(r)
		}
	}
	return out + `"`
}
