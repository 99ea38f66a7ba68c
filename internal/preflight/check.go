package preflight

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Aman-CERP/storefront/internal/config"
)

// CheckStatus represents the result of a preflight check.
type CheckStatus int

const (
	// StatusPass indicates the check passed successfully.
	StatusPass CheckStatus = iota
	// StatusWarn indicates a non-critical warning.
	StatusWarn
	// StatusFail indicates the check failed.
	StatusFail
)

// String returns the string representation of a CheckStatus.
func (s CheckStatus) String() string {
	switch s {
	case StatusPass:
		return "PASS"
	case StatusWarn:
		return "WARN"
	case StatusFail:
		return "FAIL"
	default:
		return "UNKNOWN"
	}
}

// MarshalJSON encodes the status by name.
func (s CheckStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(strings.ToLower(s.String()))
}

// CheckResult holds the result of a single preflight check.
type CheckResult struct {
	Name     string      `json:"name"`
	Status   CheckStatus `json:"status"`
	Message  string      `json:"message"`
	Details  string      `json:"details,omitempty"`
	Required bool        `json:"required"`
}

// IsCritical returns true if this is a required check that failed.
func (r CheckResult) IsCritical() bool {
	return r.Required && r.Status == StatusFail
}

// Checker performs preflight validation checks.
type Checker struct {
	verbose      bool
	output       io.Writer
	minDiskBytes uint64
}

// Option configures a Checker.
type Option func(*Checker)

// WithVerbose enables verbose output.
func WithVerbose(verbose bool) Option {
	return func(c *Checker) {
		c.verbose = verbose
	}
}

// WithOutput sets the output writer.
func WithOutput(w io.Writer) Option {
	return func(c *Checker) {
		c.output = w
	}
}

// WithMinDiskSpace overrides MinDiskSpaceBytes.
func WithMinDiskSpace(bytes uint64) Option {
	return func(c *Checker) {
		c.minDiskBytes = bytes
	}
}

// New creates a new Checker with the given options.
func New(opts ...Option) *Checker {
	c := &Checker{
		output:       os.Stdout,
		minDiskBytes: MinDiskSpaceBytes,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RunAll runs every check against cfg. Checks stop early when ctx is done.
//
// Only configuration and catalog failures are critical: storage problems
// leave the storefront usable with state kept in memory.
func (c *Checker) RunAll(ctx context.Context, cfg *config.Config) []CheckResult {
	checks := []func() CheckResult{
		func() CheckResult { return c.CheckConfig(cfg) },
		func() CheckResult { return c.CheckCatalog(cfg.Catalog.Path) },
	}
	if isMemory(cfg.Storage.Backend) {
		checks = append(checks, func() CheckResult {
			return CheckResult{
				Name:    "storage",
				Status:  StatusWarn,
				Message: "memory backend, favorites and theme are not persisted",
			}
		})
	} else {
		dir := storageDir(cfg.Storage.Path)
		checks = append(checks,
			func() CheckResult { return c.CheckWritePermissions(dir) },
			func() CheckResult { return c.CheckStorage(cfg) },
			func() CheckResult { return c.CheckDiskSpace(dir) },
		)
	}

	results := make([]CheckResult, 0, len(checks))
	for _, check := range checks {
		if err := ctx.Err(); err != nil {
			results = append(results, CheckResult{
				Name:    "aborted",
				Status:  StatusFail,
				Message: err.Error(),
			})
			break
		}
		results = append(results, check())
	}
	return results
}

// CheckConfig validates configuration values.
func (c *Checker) CheckConfig(cfg *config.Config) CheckResult {
	result := CheckResult{
		Name:     "config",
		Required: true,
	}
	if err := cfg.Validate(); err != nil {
		result.Status = StatusFail
		result.Message = err.Error()
		return result
	}
	result.Status = StatusPass
	result.Message = "OK"
	return result
}

// HasCriticalFailures returns true if any required check failed.
func (c *Checker) HasCriticalFailures(results []CheckResult) bool {
	for _, r := range results {
		if r.IsCritical() {
			return true
		}
	}
	return false
}

// SummaryStatus returns a summary status string for the results.
func (c *Checker) SummaryStatus(results []CheckResult) string {
	hasWarnings := false
	hasCriticalFailure := false

	for _, r := range results {
		if r.IsCritical() {
			hasCriticalFailure = true
		}
		if r.Status == StatusWarn || (r.Status == StatusFail && !r.Required) {
			hasWarnings = true
		}
	}

	if hasCriticalFailure {
		return "failed"
	}
	if hasWarnings {
		return "ready_with_warnings"
	}
	return "ready"
}

// PrintResults prints check results to the configured output.
func (c *Checker) PrintResults(results []CheckResult) {
	_, _ = fmt.Fprintln(c.output, "Storefront System Check")
	_, _ = fmt.Fprintln(c.output, "=======================")
	_, _ = fmt.Fprintln(c.output)

	for _, r := range results {
		_, _ = fmt.Fprintf(c.output, "[%s] %s: %s\n", r.Status, r.Name, r.Message)
		if c.verbose && r.Details != "" {
			_, _ = fmt.Fprintf(c.output, "      %s\n", r.Details)
		}
	}

	_, _ = fmt.Fprintln(c.output)
	_, _ = fmt.Fprintf(c.output, "Status: %s\n", strings.ToUpper(c.SummaryStatus(results)))

	var warnings, errors []string
	for _, r := range results {
		switch {
		case r.IsCritical():
			errors = append(errors, r.Name+": "+r.Message)
		case r.Status != StatusPass:
			warnings = append(warnings, r.Name+": "+r.Message)
		}
	}

	if len(errors) > 0 {
		_, _ = fmt.Fprintln(c.output)
		_, _ = fmt.Fprintf(c.output, "%d error(s):\n", len(errors))
		for _, e := range errors {
			_, _ = fmt.Fprintf(c.output, "  - %s\n", e)
		}
	}

	if len(warnings) > 0 {
		_, _ = fmt.Fprintln(c.output)
		_, _ = fmt.Fprintf(c.output, "%d warning(s):\n", len(warnings))
		for _, w := range warnings {
			_, _ = fmt.Fprintf(c.output, "  - %s\n", w)
		}
	}
}
