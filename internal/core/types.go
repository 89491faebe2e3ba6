// Package core provides the business logic for sdkup.
// It has zero UI dependencies and is independently testable.
package core

// Catalog is the parsed catalog file: ecosystems in declared order,
// each carrying its packages, plus advisory metadata.
type Catalog struct {
	Tags     []Tag
	Metadata CatalogMetadata
}

// Tag is an ecosystem category grouping packages (e.g. a language/runtime).
type Tag struct {
	Key         string
	DisplayName string
	Packages    []Package
}

// Count returns the number of packages carrying this tag.
func (t Tag) Count() int { return len(t.Packages) }

// CatalogMetadata is advisory information from the catalog file.
// Neither field is enforced against the actual content.
type CatalogMetadata struct {
	Version       string
	DeclaredTotal int
}

// Package is one installable SDK entry. Immutable once loaded.
type Package struct {
	Name        string
	Tag         string // Key of the owning ecosystem tag
	TagName     string // Display name of the owning tag
	Source      string // Git clone URL
	Steps       []Step // Install steps, run in order after fetch; may be empty
	Description string
}

// StepKind says how an install step is executed.
type StepKind int

const (
	// StepDirect is a plain argv command, executed without shell interpretation.
	StepDirect StepKind = iota
	// StepShell contains shell syntax (operators, quoting, `source`) and
	// must go through a shell.
	StepShell
)

// Step is one install command, classified at catalog-load time.
type Step struct {
	Raw  string
	Kind StepKind
}

// Outcome is the terminal state of one package's installation.
type Outcome int

const (
	// OutcomeSucceeded means the fetch and every install step completed.
	OutcomeSucceeded Outcome = iota
	// OutcomeFailed means the fetch or an install step failed.
	OutcomeFailed
	// OutcomeSkipped means the package was already present and the user
	// declined to update it.
	OutcomeSkipped
)

// String returns a human-readable label for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeFailed:
		return "failed"
	case OutcomeSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// PackageResult pairs a package with its terminal outcome.
type PackageResult struct {
	Package Package
	Outcome Outcome
	Err     error // Non-nil only when Outcome is OutcomeFailed
}

// Report aggregates the outcomes of a whole install batch.
type Report struct {
	Results []PackageResult
}

// Names returns the package names that ended in the given outcome,
// in batch order.
func (r Report) Names(o Outcome) []string {
	var names []string
	for _, res := range r.Results {
		if res.Outcome == o {
			names = append(names, res.Package.Name)
		}
	}
	return names
}

// Add appends a result to the report.
func (r *Report) Add(pkg Package, outcome Outcome, err error) {
	r.Results = append(r.Results, PackageResult{Package: pkg, Outcome: outcome, Err: err})
}
