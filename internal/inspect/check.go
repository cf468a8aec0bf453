// Package inspect runs structural sanity checks over a parsed ELF file
// and collects the outcomes into a report.
package inspect

import (
	"fmt"
	"time"

	"github.com/siegetechnologies/execfmt/internal/elf"
	"github.com/siegetechnologies/execfmt/internal/utils"
)

// Check is one structural inspection over a parsed file.
type Check interface {
	// ID returns the unique identifier for this check (e.g. "format")
	ID() string

	// Description returns what this check validates
	Description() string

	// Run executes the check against a parsed file
	Run(f *elf.File) Result
}

// Status represents the possible outcomes of a check
type Status string

const (
	StatusPass Status = "pass"
	StatusFail Status = "fail"
)

// Result contains the outcome of a single check
type Result struct {
	ID          string                 `json:"id"`
	Description string                 `json:"description"`
	Status      Status                 `json:"status"`
	Details     string                 `json:"details,omitempty"`
	Duration    time.Duration          `json:"duration"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

// Registry manages a collection of checks, preserving registration
// order so reports are deterministic.
type Registry struct {
	order []Check
	byID  map[string]Check
}

// NewRegistry creates an empty check registry
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]Check)}
}

// Register adds a check to the registry
func (r *Registry) Register(check Check) error {
	if _, exists := r.byID[check.ID()]; exists {
		return fmt.Errorf("check already registered: %s", check.ID())
	}
	r.byID[check.ID()] = check
	r.order = append(r.order, check)
	return nil
}

// Get retrieves a check by ID
func (r *Registry) Get(id string) (Check, bool) {
	check, exists := r.byID[id]
	return check, exists
}

// List returns all registered checks in registration order
func (r *Registry) List() []Check {
	return append([]Check(nil), r.order...)
}

// Summary contains aggregate counts for a report
type Summary struct {
	Total  int `json:"total"`
	Passed int `json:"passed"`
	Failed int `json:"failed"`
}

// Report contains the results of running a set of checks
type Report struct {
	Path    string   `json:"path"`
	Arch    string   `json:"arch"`
	Results []Result `json:"results"`
	Summary Summary  `json:"summary"`
}

// Runner executes checks against a parsed file
type Runner struct {
	registry *Registry
	logger   *utils.Logger

	// FailFast stops the run at the first failing check. The report
	// then covers only the checks that actually executed.
	FailFast bool
}

// NewRunner creates a runner over the given registry. A nil logger
// falls back to the default.
func NewRunner(registry *Registry, logger *utils.Logger) *Runner {
	if logger == nil {
		logger = utils.NewDefaultLogger()
	}
	return &Runner{registry: registry, logger: logger}
}

// RunAll executes every registered check against f. Path is only used
// to label the report.
func (r *Runner) RunAll(path string, f *elf.File) *Report {
	checks := r.registry.List()
	results := make([]Result, 0, len(checks))

	for _, check := range checks {
		start := time.Now()
		result := check.Run(f)
		result.ID = check.ID()
		result.Description = check.Description()
		result.Duration = time.Since(start)
		results = append(results, result)

		r.logger.WithComponent("inspect").
			WithField("check", result.ID).
			Debugf("check %s: %s", result.ID, result.Status)

		if r.FailFast && result.Status == StatusFail {
			break
		}
	}

	return &Report{
		Path:    path,
		Arch:    f.Arch().String(),
		Results: results,
		Summary: summarize(results),
	}
}

func summarize(results []Result) Summary {
	summary := Summary{Total: len(results)}
	for _, result := range results {
		switch result.Status {
		case StatusPass:
			summary.Passed++
		case StatusFail:
			summary.Failed++
		}
	}
	return summary
}
