package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"

	"github.com/sdkup/sdkup/cmd/sdkup/cmd"
)

func TestMain(m *testing.M) {
	testscript.Main(m, map[string]func(){
		"sdkup": func() {
			if err := cmd.Execute(); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
		},
	})
}

func TestScript(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir:                 filepath.Join("testdata", "script"),
		RequireExplicitExec: true,
		Setup: func(e *testscript.Env) error {
			// Set HOME to WORK so ~/.sdkup/ is created inside the temp dir
			e.Vars = append(e.Vars, "HOME="+e.WorkDir)
			return nil
		},
		Cmds: map[string]func(ts *testscript.TestScript, neg bool, args []string){
			// setup-sdk-repo creates a local git repo that stands in for
			// a package's upstream repository.
			// Usage: setup-sdk-repo <dir>
			"setup-sdk-repo": cmdSetupSDKRepo,

			// expand-file rewrites $WORK inside a file to the absolute
			// work directory, so embedded catalogs can reference local
			// repos by path.
			// Usage: expand-file <path>
			"expand-file": cmdExpandFile,

			// dir-not-exists asserts that a directory does not exist.
			// Usage: [!] dir-not-exists <path>
			"dir-not-exists": cmdDirNotExists,
		},
	})
}

// cmdSetupSDKRepo creates a git repo with a README to clone from.
func cmdSetupSDKRepo(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("setup-sdk-repo does not support negation")
	}
	if len(args) != 1 {
		ts.Fatalf("usage: setup-sdk-repo <dir>")
	}

	dir := ts.MkAbs(args[0])
	if err := os.MkdirAll(dir, 0o755); err != nil {
		ts.Fatalf("creating dir: %v", err)
	}

	readme := "# " + filepath.Base(dir) + "\n\nTest SDK repository.\n"
	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte(readme), 0o644); err != nil {
		ts.Fatalf("writing README: %v", err)
	}

	gitEnv := append(os.Environ(),
		"GIT_AUTHOR_NAME=Test",
		"GIT_AUTHOR_EMAIL=test@test.com",
		"GIT_COMMITTER_NAME=Test",
		"GIT_COMMITTER_EMAIL=test@test.com",
	)

	runGit := func(gitArgs ...string) {
		c := exec.Command("git", gitArgs...)
		c.Dir = dir
		c.Env = gitEnv
		out, err := c.CombinedOutput()
		if err != nil {
			ts.Fatalf("git %v: %v\n%s", gitArgs, err, out)
		}
	}

	runGit("init")
	runGit("checkout", "-b", "main")
	runGit("add", ".")
	runGit("commit", "-m", "initial")
}

// cmdExpandFile substitutes $WORK in a file with the work directory.
func cmdExpandFile(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("expand-file does not support negation")
	}
	if len(args) != 1 {
		ts.Fatalf("usage: expand-file <path>")
	}

	path := ts.MkAbs(args[0])
	data, err := os.ReadFile(path)
	if err != nil {
		ts.Fatalf("reading %s: %v", args[0], err)
	}

	expanded := strings.ReplaceAll(string(data), "$WORK", ts.Getenv("WORK"))
	if err := os.WriteFile(path, []byte(expanded), 0o644); err != nil {
		ts.Fatalf("writing %s: %v", args[0], err)
	}
}

// cmdDirNotExists checks that a directory does not exist.
func cmdDirNotExists(ts *testscript.TestScript, neg bool, args []string) {
	if len(args) != 1 {
		ts.Fatalf("usage: dir-not-exists <path>")
	}
	path := ts.MkAbs(args[0])
	_, err := os.Stat(path)
	doesNotExist := os.IsNotExist(err)

	if neg {
		// ! dir-not-exists == dir exists
		if doesNotExist {
			ts.Fatalf("%s does not exist (expected it to exist)", args[0])
		}
	} else {
		if !doesNotExist {
			ts.Fatalf("%s exists (expected it not to)", args[0])
		}
	}
}
