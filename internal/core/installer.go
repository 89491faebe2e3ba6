package core

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
)

var sanitizeRegexp = regexp.MustCompile(`[^a-zA-Z0-9-]`)

// DecideUpdate is asked when a package's directory already holds a
// valid clone of the same source. Returning true re-syncs it to the
// latest commit; false records a skipped outcome without spawning
// any process.
type DecideUpdate func(pkg Package, path string) bool

// ProbeState describes what occupies a package's local path.
type ProbeState int

const (
	// ProbeAbsent means the path does not exist yet.
	ProbeAbsent ProbeState = iota
	// ProbeMatchingClone means the path is a git clone of the package's source.
	ProbeMatchingClone
	// ProbeForeign means the path exists but is not a clone of the source.
	ProbeForeign
)

// Installer fetches one package and runs its install steps, isolating
// failures per package. No retries: a single failure is terminal for
// that package within a run.
type Installer struct {
	// Output receives fetch and step output for display. Defaults to
	// io.Discard.
	Output io.Writer

	// Overrides maps a catalog source URL to an alternate clone URL
	// (e.g. SSH mirrors for private forks).
	Overrides map[string]string

	// SkipSteps fetches packages without running their install steps.
	SkipSteps bool
}

// NewInstaller creates an Installer writing process output to out.
func NewInstaller(out io.Writer) *Installer {
	if out == nil {
		out = io.Discard
	}
	return &Installer{Output: out}
}

// LocalPath computes where a package materializes under targetDir.
// The package name is sanitized to a filesystem-safe segment.
func (inst *Installer) LocalPath(targetDir string, pkg Package) string {
	return filepath.Join(targetDir, sanitizeName(pkg.Name))
}

// Probe inspects the package's local path without side effects.
func (inst *Installer) Probe(pkg Package, targetDir string) ProbeState {
	path := inst.LocalPath(targetDir, pkg)
	info, err := os.Stat(path)
	if err != nil {
		return ProbeAbsent
	}
	if !info.IsDir() {
		return ProbeForeign
	}
	if sameSource(gitRemoteURL(path), inst.cloneURL(pkg)) {
		return ProbeMatchingClone
	}
	return ProbeForeign
}

// Install performs the fetch-then-steps sequence for one package.
// decide is consulted only when the package is already present as a
// valid clone; a nil decide means never update (skip).
func (inst *Installer) Install(pkg Package, targetDir string, decide DecideUpdate) (Outcome, error) {
	path := inst.LocalPath(targetDir, pkg)

	switch inst.Probe(pkg, targetDir) {
	case ProbeMatchingClone:
		if decide == nil || !decide(pkg, path) {
			return OutcomeSkipped, nil
		}
		if err := inst.gitPull(path); err != nil {
			return OutcomeFailed, err
		}

	case ProbeForeign:
		return OutcomeFailed, fmt.Errorf("%s already exists but is not a clone of %s", path, pkg.Source)

	case ProbeAbsent:
		if err := inst.gitClone(pkg, path); err != nil {
			return OutcomeFailed, err
		}
	}

	if !inst.SkipSteps {
		for i, step := range pkg.Steps {
			if err := inst.runStep(pkg, path, i, step); err != nil {
				return OutcomeFailed, err
			}
		}
	}

	return OutcomeSucceeded, nil
}

// cloneURL resolves the effective clone URL for a package, honoring
// configured overrides.
func (inst *Installer) cloneURL(pkg Package) string {
	if url, ok := inst.Overrides[pkg.Source]; ok {
		return url
	}
	return pkg.Source
}

// gitClone fetches the package source into dir. A partial clone left
// by a failure is removed so a later run starts clean; anything that
// occupied the path before the clone attempt is left alone.
func (inst *Installer) gitClone(pkg Package, dir string) error {
	_, statErr := os.Stat(dir)
	preexisting := statErr == nil

	url := inst.cloneURL(pkg)
	cmd := exec.Command("git", "clone", url, dir)
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")

	var buf bytes.Buffer
	cmd.Stdout = io.MultiWriter(&buf, inst.Output)
	cmd.Stderr = io.MultiWriter(&buf, inst.Output)

	if err := cmd.Run(); err != nil {
		if !preexisting {
			_ = os.RemoveAll(dir)
		}
		return classifyFetchError(url, "git clone "+url, buf.String())
	}
	return nil
}

// gitPull re-syncs an existing clone to the latest upstream commit.
func (inst *Installer) gitPull(dir string) error {
	cmd := exec.Command("git", "pull", "--ff-only")
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")

	var buf bytes.Buffer
	cmd.Stdout = io.MultiWriter(&buf, inst.Output)
	cmd.Stderr = io.MultiWriter(&buf, inst.Output)

	if err := cmd.Run(); err != nil {
		return classifyFetchError(gitRemoteURL(dir), "git pull --ff-only", buf.String())
	}
	return nil
}

// runStep executes one install step inside the package directory.
// Direct steps run as plain argv; shell steps go through `sh -c`.
func (inst *Installer) runStep(pkg Package, dir string, index int, step Step) error {
	var cmd *exec.Cmd
	switch step.Kind {
	case StepShell:
		cmd = exec.Command("sh", "-c", step.Raw)
	default:
		argv := strings.Fields(step.Raw)
		if len(argv) == 0 {
			return nil
		}
		cmd = exec.Command(argv[0], argv[1:]...)
	}

	cmd.Dir = dir
	cmd.Stdout = inst.Output
	cmd.Stderr = inst.Output

	fmt.Fprintf(inst.Output, "$ %s\n", step.Raw)
	if err := cmd.Run(); err != nil {
		return &StepError{Package: pkg.Name, Step: step, Index: index, Err: err}
	}
	return nil
}

// gitRemoteURL reads the origin remote URL from a git repository.
func gitRemoteURL(dir string) string {
	cmd := exec.Command("git", "remote", "get-url", "origin")
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

// sameSource compares two clone URLs, ignoring a trailing .git and
// trailing slashes.
func sameSource(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return normalizeSource(a) == normalizeSource(b)
}

func normalizeSource(url string) string {
	url = strings.TrimSuffix(strings.TrimRight(strings.TrimSpace(url), "/"), ".git")
	return strings.ToLower(url)
}

// sanitizeName normalizes a package name for use as a directory name.
func sanitizeName(name string) string {
	name = strings.ToLower(name)
	name = sanitizeRegexp.ReplaceAllString(name, "-")
	name = strings.Trim(name, "-.")
	if len(name) > 255 {
		name = name[:255]
	}
	if name == "" {
		name = "unnamed-package"
	}
	return name
}

// EnsureTargetDir creates the target directory tree if needed.
// Failure is fatal to the session (DirectoryError), never per-package.
func EnsureTargetDir(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return &DirectoryError{Path: path, Err: err}
	}
	return nil
}
