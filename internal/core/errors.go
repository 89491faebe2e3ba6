package core

import (
	"errors"
	"fmt"
	"strings"
)

// FetchErrorKind classifies why a source fetch failed.
type FetchErrorKind int

const (
	// FetchErrUnknown is an unclassified fetch failure.
	FetchErrUnknown FetchErrorKind = iota
	// FetchErrAuth means authentication failed (credentials missing or invalid).
	FetchErrAuth
	// FetchErrRepoNotFound means the source URL is wrong or access is denied.
	FetchErrRepoNotFound
	// FetchErrNetwork means the host could not be reached.
	FetchErrNetwork
	// FetchErrSSHKey means the SSH key was rejected or not found.
	FetchErrSSHKey
	// FetchErrHostKey means SSH host key verification failed.
	FetchErrHostKey
)

// String returns a human-readable label for the error kind.
func (k FetchErrorKind) String() string {
	switch k {
	case FetchErrAuth:
		return "Authentication Required"
	case FetchErrRepoNotFound:
		return "Repository Not Found"
	case FetchErrNetwork:
		return "Network Error"
	case FetchErrSSHKey:
		return "SSH Key Error"
	case FetchErrHostKey:
		return "SSH Host Key Error"
	default:
		return "Unknown Error"
	}
}

// FetchError is a structured error returned when fetching a package
// source fails. It wraps the raw git output with classification and
// actionable hints. It is always local to one package: the batch
// records a failed outcome and continues.
type FetchError struct {
	Kind      FetchErrorKind
	URL       string   // The clone URL that was attempted
	Command   string   // The git command that was run (for display)
	RawOutput string   // Raw stderr/stdout from git
	Hints     []string // Actionable suggestions for the user
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch failed (%s): %s", e.Kind, e.firstLine())
}

// firstLine returns the first meaningful line of raw output for a
// concise error message.
func (e *FetchError) firstLine() string {
	for _, line := range strings.Split(e.RawOutput, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "Cloning into") {
			return line
		}
	}
	if e.RawOutput != "" {
		return strings.TrimSpace(e.RawOutput)
	}
	return "fetch failed"
}

// AsFetchError checks whether err wraps a *FetchError and returns it.
func AsFetchError(err error) (*FetchError, bool) {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// classifyFetchError examines git output and returns a structured FetchError.
func classifyFetchError(url, command, rawOutput string) *FetchError {
	kind := classifyFetchOutput(rawOutput)
	return &FetchError{
		Kind:      kind,
		URL:       url,
		Command:   command,
		RawOutput: strings.TrimSpace(rawOutput),
		Hints:     fetchHints(kind, url),
	}
}

// classifyFetchOutput pattern-matches git stderr to determine the error kind.
func classifyFetchOutput(output string) FetchErrorKind {
	lower := strings.ToLower(output)

	if strings.Contains(lower, "permission denied (publickey)") ||
		strings.Contains(lower, "no such identity") ||
		strings.Contains(lower, "load key") {
		return FetchErrSSHKey
	}

	if strings.Contains(lower, "host key verification failed") ||
		strings.Contains(lower, "known_hosts") {
		return FetchErrHostKey
	}

	if strings.Contains(lower, "could not read username") ||
		strings.Contains(lower, "could not read password") ||
		strings.Contains(lower, "authentication failed") ||
		strings.Contains(lower, "invalid credentials") ||
		strings.Contains(lower, "401") ||
		strings.Contains(lower, "403") {
		return FetchErrAuth
	}

	if strings.Contains(lower, "repository not found") ||
		strings.Contains(lower, "does not appear to be a git repository") ||
		strings.Contains(lower, "not found") {
		return FetchErrRepoNotFound
	}

	if strings.Contains(lower, "could not resolve host") ||
		strings.Contains(lower, "connection refused") ||
		strings.Contains(lower, "connection timed out") ||
		strings.Contains(lower, "network is unreachable") ||
		strings.Contains(lower, "no route to host") {
		return FetchErrNetwork
	}

	return FetchErrUnknown
}

// fetchHints returns actionable suggestions for the error kind.
func fetchHints(kind FetchErrorKind, url string) []string {
	switch kind {
	case FetchErrAuth:
		return []string{
			"Run `gh auth login` to authenticate with GitHub",
			"Or configure a git credential helper: `git config --global credential.helper store`",
		}
	case FetchErrSSHKey:
		return []string{
			"Ensure your SSH key is loaded: `ssh-add -l`",
			"If no keys are listed, add one: `ssh-add ~/.ssh/id_ed25519`",
		}
	case FetchErrHostKey:
		return []string{
			"The SSH host key is not trusted. Connect once manually: `ssh -T git@github.com` and accept it",
		}
	case FetchErrRepoNotFound:
		return []string{
			"Verify the source URL is correct",
			"Ensure you have access to this repository (it may be private)",
		}
	case FetchErrNetwork:
		return []string{
			"Check your internet connection",
			"If behind a proxy, ensure git is configured to use it",
		}
	default:
		return []string{
			"Try fetching manually to diagnose: `git clone " + url + "`",
		}
	}
}

// StepError is returned when an install step exits non-zero. It is
// local to one package: remaining steps are skipped and the batch
// records a failed outcome and continues.
type StepError struct {
	Package string
	Step    Step
	Index   int // Zero-based position in the package's step sequence
	Err     error
}

// Error implements the error interface.
func (e *StepError) Error() string {
	return fmt.Sprintf("install step %d (%s) for %s: %v", e.Index+1, e.Step.Raw, e.Package, e.Err)
}

// Unwrap returns the underlying process error.
func (e *StepError) Unwrap() error { return e.Err }

// AsStepError checks whether err wraps a *StepError and returns it.
func AsStepError(err error) (*StepError, bool) {
	var se *StepError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// DirectoryError is a fatal failure to create or access the target
// directory. It aborts the session before any selection stage.
type DirectoryError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *DirectoryError) Error() string {
	return fmt.Sprintf("target directory %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *DirectoryError) Unwrap() error { return e.Err }
