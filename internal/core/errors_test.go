package core

import (
	"fmt"
	"testing"
)

func TestClassifyFetchOutput(t *testing.T) {
	cases := []struct {
		output string
		want   FetchErrorKind
	}{
		{"fatal: could not read Username for 'https://github.com'", FetchErrAuth},
		{"remote: Repository not found.", FetchErrRepoNotFound},
		{"ssh: Could not resolve host: github.com", FetchErrNetwork},
		{"git@github.com: Permission denied (publickey).", FetchErrSSHKey},
		{"Host key verification failed.", FetchErrHostKey},
		{"something exploded", FetchErrUnknown},
	}
	for _, c := range cases {
		if got := classifyFetchOutput(c.output); got != c.want {
			t.Errorf("classifyFetchOutput(%q) = %v, want %v", c.output, got, c.want)
		}
	}
}

func TestAsFetchError_Unwraps(t *testing.T) {
	fe := classifyFetchError("https://example.com/r", "git clone", "remote: Repository not found.")
	wrapped := fmt.Errorf("installing thing: %w", fe)

	got, ok := AsFetchError(wrapped)
	if !ok {
		t.Fatal("AsFetchError failed to unwrap")
	}
	if got.Kind != FetchErrRepoNotFound {
		t.Errorf("Kind = %v, want repo-not-found", got.Kind)
	}
}

func TestFetchError_MessageSkipsCloningLine(t *testing.T) {
	fe := classifyFetchError("u", "c", "Cloning into 'x'...\nfatal: repository 'u' does not exist\n")
	if got := fe.Error(); got != "fetch failed (Unknown Error): fatal: repository 'u' does not exist" {
		t.Errorf("Error() = %q", got)
	}
}

func TestStepError_Message(t *testing.T) {
	se := &StepError{
		Package: "Demo",
		Step:    Step{Raw: "make install", Kind: StepDirect},
		Index:   1,
		Err:     fmt.Errorf("exit status 2"),
	}
	want := "install step 2 (make install) for Demo: exit status 2"
	if se.Error() != want {
		t.Errorf("Error() = %q, want %q", se.Error(), want)
	}
}
