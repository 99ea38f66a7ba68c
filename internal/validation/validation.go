// Package validation runs the catalog search acceptance queries through the
// tool server, the same path an assistant client takes.
//
// Queries are data-driven, loaded from testdata/queries.yaml, so new cases
// can be added without touching code.
package validation

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Aman-CERP/storefront/internal/mcp"
)

// resultLimit is large enough that no catalog query in the suite is cut.
const resultLimit = 50

// QuerySpec defines a query with expected results.
type QuerySpec struct {
	ID            string   `yaml:"id"`             // e.g., "T1-Q3"
	Name          string   `yaml:"name"`           // Human-readable name
	Query         string   `yaml:"query"`          // Free-text query
	Brand         string   `yaml:"brand"`          // Optional brand filter
	AvailableOnly bool     `yaml:"available_only"` // Optional in-stock filter
	Expected      []string `yaml:"expected"`       // Item ids that must appear
	Exact         bool     `yaml:"exact"`          // Expected is the whole result, in order
	Notes         string   `yaml:"notes"`
	Tier          int      `yaml:"-"` // Set from the section the query is listed in
}

// QueryConfig holds all queries loaded from YAML.
type QueryConfig struct {
	Tier1    []QuerySpec `yaml:"tier1"`
	Tier2    []QuerySpec `yaml:"tier2"`
	Negative []QuerySpec `yaml:"negative"`
}

var (
	queriesOnce sync.Once
	queriesData *QueryConfig
	queriesErr  error
)

// LoadQueries loads the bundled queries from testdata/queries.yaml.
// Results are cached after the first load.
func LoadQueries() (*QueryConfig, error) {
	queriesOnce.Do(func() {
		_, filename, _, ok := runtime.Caller(0)
		if !ok {
			queriesErr = fmt.Errorf("failed to get current file path")
			return
		}
		queriesData, queriesErr = LoadQueriesFile(filepath.Join(filepath.Dir(filename), "testdata", "queries.yaml"))
	})
	return queriesData, queriesErr
}

// LoadQueriesFile reads a query file without caching.
func LoadQueriesFile(path string) (*QueryConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read queries file %s: %w", path, err)
	}

	var cfg QueryConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse queries YAML: %w", err)
	}

	for i := range cfg.Tier1 {
		cfg.Tier1[i].Tier = 1
	}
	for i := range cfg.Tier2 {
		cfg.Tier2[i].Tier = 2
	}
	for i := range cfg.Negative {
		cfg.Negative[i].Tier = 0
	}
	return &cfg, nil
}

// ResetQueries clears the cached queries.
func ResetQueries() {
	queriesOnce = sync.Once{}
	queriesData = nil
	queriesErr = nil
}

// TestResult captures the outcome of a single query.
type TestResult struct {
	Spec       QuerySpec     `json:"spec"`
	Passed     bool          `json:"passed"`
	Duration   time.Duration `json:"duration_ms"`
	TopResults []string      `json:"top_results"` // Item ids returned
	MatchedAt  int           `json:"matched_at"`  // Position of first expected id (-1 if not found)
	Error      string        `json:"error,omitempty"`
}

// ValidationResult captures a full run.
type ValidationResult struct {
	Timestamp  time.Time    `json:"timestamp"`
	Tier1      []TestResult `json:"tier1"`
	Tier2      []TestResult `json:"tier2"`
	Negative   []TestResult `json:"negative"`
	Tier1Pass  int          `json:"tier1_pass"`
	Tier1Total int          `json:"tier1_total"`
	Tier2Pass  int          `json:"tier2_pass"`
	Tier2Total int          `json:"tier2_total"`
	NegPass    int          `json:"negative_pass"`
	NegTotal   int          `json:"negative_total"`
	Listings   int          `json:"listings"`
}

// Validator runs queries against a tool server.
type Validator struct {
	server *mcp.Server
}

// NewValidator creates a validator over server.
func NewValidator(server *mcp.Server) (*Validator, error) {
	if server == nil {
		return nil, fmt.Errorf("server is required")
	}
	return &Validator{server: server}, nil
}

// RunQuery executes a single query.
//
// Tier queries pass when every expected id is returned (exactly the
// expected ids, in order, when Exact is set). Negative queries pass when
// the search succeeds with no results.
func (v *Validator) RunQuery(ctx context.Context, spec QuerySpec) TestResult {
	start := time.Now()
	result := TestResult{
		Spec:      spec,
		MatchedAt: -1,
	}

	resp, err := v.server.CallTool(ctx, "search_catalog", mcp.SearchCatalogInput{
		Query:         spec.Query,
		Brand:         spec.Brand,
		AvailableOnly: spec.AvailableOnly,
		Limit:         resultLimit,
	})
	result.Duration = time.Since(start)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	out, ok := resp.(mcp.SearchCatalogOutput)
	if !ok {
		result.Error = fmt.Sprintf("unexpected response type %T", resp)
		return result
	}
	result.TopResults = make([]string, 0, len(out.Results))
	for _, r := range out.Results {
		result.TopResults = append(result.TopResults, r.ID)
	}

	switch {
	case spec.Tier == 0:
		result.Passed = len(result.TopResults) == 0
	case spec.Exact:
		result.Passed = slices.Equal(result.TopResults, spec.Expected)
		if result.Passed && len(spec.Expected) > 0 {
			result.MatchedAt = 0
		}
	default:
		result.Passed, result.MatchedAt = checkExpected(result.TopResults, spec.Expected)
	}
	return result
}

// checkExpected reports whether every expected id is present, and the
// position of the first one found.
func checkExpected(results, expected []string) (bool, int) {
	first := -1
	for _, want := range expected {
		pos := slices.Index(results, want)
		if pos < 0 {
			return false, first
		}
		if first < 0 || pos < first {
			first = pos
		}
	}
	return true, first
}

// RunAll executes every loaded query.
func (v *Validator) RunAll(ctx context.Context, cfg *QueryConfig) *ValidationResult {
	result := &ValidationResult{
		Timestamp: time.Now(),
		Listings:  v.server.Listings(),
	}

	for _, spec := range cfg.Tier1 {
		tr := v.RunQuery(ctx, spec)
		result.Tier1 = append(result.Tier1, tr)
		result.Tier1Total++
		if tr.Passed {
			result.Tier1Pass++
		}
	}
	for _, spec := range cfg.Tier2 {
		tr := v.RunQuery(ctx, spec)
		result.Tier2 = append(result.Tier2, tr)
		result.Tier2Total++
		if tr.Passed {
			result.Tier2Pass++
		}
	}
	for _, spec := range cfg.Negative {
		tr := v.RunQuery(ctx, spec)
		result.Negative = append(result.Negative, tr)
		result.NegTotal++
		if tr.Passed {
			result.NegPass++
		}
	}
	return result
}

// Summary returns a human-readable report.
func (r *ValidationResult) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Search Validation (%s, %d listings)\n", r.Timestamp.Format(time.RFC3339), r.Listings)
	fmt.Fprintf(&b, "  Tier 1:   %d/%d\n", r.Tier1Pass, r.Tier1Total)
	fmt.Fprintf(&b, "  Tier 2:   %d/%d\n", r.Tier2Pass, r.Tier2Total)
	fmt.Fprintf(&b, "  Negative: %d/%d\n", r.NegPass, r.NegTotal)

	for _, group := range [][]TestResult{r.Tier1, r.Tier2, r.Negative} {
		for _, tr := range group {
			if tr.Passed {
				continue
			}
			fmt.Fprintf(&b, "  FAIL %s %s: query %q expected %v got %v", tr.Spec.ID, tr.Spec.Name, tr.Spec.Query, tr.Spec.Expected, tr.TopResults)
			if tr.Error != "" {
				fmt.Fprintf(&b, " (error: %s)", tr.Error)
			}
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// JSON returns the result as indented JSON.
func (r *ValidationResult) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
