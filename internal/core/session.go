package core

import (
	"context"
	"fmt"
)

// SessionState is one stage of the install session.
type SessionState int

const (
	// StateLoading is the initial stage: catalog load and target dir setup.
	StateLoading SessionState = iota
	// StateTagSelection is the ecosystem filter stage.
	StateTagSelection
	// StatePackageSelection is the package filter stage.
	StatePackageSelection
	// StateConfirming presents the final chosen list.
	StateConfirming
	// StateInstalling runs the batch.
	StateInstalling
	// StateDone is terminal; the report is final.
	StateDone
)

// String returns the stage name.
func (s SessionState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateTagSelection:
		return "tag-selection"
	case StatePackageSelection:
		return "package-selection"
	case StateConfirming:
		return "confirming"
	case StateInstalling:
		return "installing"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// legalTransitions holds the forward edges of the session state machine.
// Cancellation additionally allows any interactive state to jump to Done.
var legalTransitions = map[SessionState][]SessionState{
	StateLoading:          {StateTagSelection},
	StateTagSelection:     {StatePackageSelection},
	StatePackageSelection: {StateTagSelection, StateConfirming},
	StateConfirming:       {StatePackageSelection, StateInstalling},
	StateInstalling:       {StateDone},
}

// Session drives the loader → selection → confirmation → install loop
// and owns the aggregate report.
type Session struct {
	state     SessionState
	Catalog   *Catalog
	Selection *Selection
	TargetDir string
	Report    Report
}

// NewSession creates a session in the loading stage.
func NewSession() *Session {
	return &Session{state: StateLoading}
}

// State returns the current stage.
func (s *Session) State() SessionState { return s.state }

// Begin finishes the loading stage: it attaches the catalog, prepares
// the target directory, and moves to tag selection.
func (s *Session) Begin(cat *Catalog, targetDir string) error {
	if s.state != StateLoading {
		return fmt.Errorf("session already started (state %s)", s.state)
	}
	if err := EnsureTargetDir(targetDir); err != nil {
		return err
	}
	s.Catalog = cat
	s.Selection = NewSelection(cat)
	s.TargetDir = targetDir
	s.state = StateTagSelection
	return nil
}

// To advances the session to the next stage, validating the edge.
func (s *Session) To(next SessionState) error {
	for _, allowed := range legalTransitions[s.state] {
		if next == allowed {
			s.state = next
			return nil
		}
	}
	return fmt.Errorf("illegal transition %s -> %s", s.state, next)
}

// Cancel moves straight to Done from any stage, keeping whatever
// outcomes were finalized so far. Cancellation is always graceful:
// the session still exits 0.
func (s *Session) Cancel() {
	s.state = StateDone
}

// BatchEvents receives per-package progress notifications from RunBatch.
// Either callback may be nil.
type BatchEvents struct {
	OnStart func(pkg Package, index, total int)
	OnDone  func(res PackageResult)
}

// RunBatch installs the chosen packages sequentially, one fully
// completing before the next begins. One package's failure never
// aborts the batch. Context cancellation is checked only at the top
// of each iteration: an in-flight package runs to its own completion
// and its outcome is kept.
func (s *Session) RunBatch(ctx context.Context, inst *Installer, decide DecideUpdate, events BatchEvents) Report {
	pkgs := s.Selection.ChosenPackages()

	// Non-interactive callers reach here straight from tag selection;
	// the confirmation stages only exist for the interactive flow, so
	// the batch enters installing directly instead of walking them.
	s.state = StateInstalling

	for i, pkg := range pkgs {
		if ctx.Err() != nil {
			break
		}

		if events.OnStart != nil {
			events.OnStart(pkg, i, len(pkgs))
		}

		outcome, err := inst.Install(pkg, s.TargetDir, decide)
		s.Report.Add(pkg, outcome, err)

		if events.OnDone != nil {
			events.OnDone(s.Report.Results[len(s.Report.Results)-1])
		}
	}

	s.state = StateDone
	return s.Report
}
