package preflight

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/storefront/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.NewConfig()
	cfg.Storage.Path = filepath.Join(t.TempDir(), "state", "storefront")
	return cfg
}

func byName(results []CheckResult) map[string]CheckResult {
	m := make(map[string]CheckResult, len(results))
	for _, r := range results {
		m[r.Name] = r
	}
	return m
}

func TestCheckStatus_String(t *testing.T) {
	tests := []struct {
		status CheckStatus
		want   string
	}{
		{StatusPass, "PASS"},
		{StatusWarn, "WARN"},
		{StatusFail, "FAIL"},
		{CheckStatus(9), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.String())
		})
	}
}

func TestCheckResult_JSON(t *testing.T) {
	data, err := json.Marshal(CheckResult{Name: "catalog", Status: StatusWarn, Message: "m"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"catalog","status":"warn","message":"m","required":false}`, string(data))
}

func TestCheckResult_IsCritical(t *testing.T) {
	tests := []struct {
		name     string
		result   CheckResult
		expected bool
	}{
		{"required pass is not critical", CheckResult{Status: StatusPass, Required: true}, false},
		{"required fail is critical", CheckResult{Status: StatusFail, Required: true}, true},
		{"optional fail is not critical", CheckResult{Status: StatusFail}, false},
		{"required warn is not critical", CheckResult{Status: StatusWarn, Required: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.result.IsCritical())
		})
	}
}

func TestChecker_NewWithOptions(t *testing.T) {
	buf := &bytes.Buffer{}
	checker := New(WithVerbose(true), WithOutput(buf), WithMinDiskSpace(1))

	assert.True(t, checker.verbose)
	assert.Equal(t, buf, checker.output)
	assert.Equal(t, uint64(1), checker.minDiskBytes)
	assert.Equal(t, uint64(MinDiskSpaceBytes), New().minDiskBytes)
}

func TestChecker_SummaryStatus(t *testing.T) {
	checker := New()

	assert.Equal(t, "ready", checker.SummaryStatus([]CheckResult{{Status: StatusPass, Required: true}}))
	assert.Equal(t, "ready_with_warnings", checker.SummaryStatus([]CheckResult{{Status: StatusWarn}}))
	assert.Equal(t, "ready_with_warnings", checker.SummaryStatus([]CheckResult{{Status: StatusFail}}))
	assert.Equal(t, "failed", checker.SummaryStatus([]CheckResult{{Status: StatusFail, Required: true}, {Status: StatusWarn}}))
	assert.False(t, checker.HasCriticalFailures(nil))
}

func TestRunAll_HealthyDefaults(t *testing.T) {
	// Given: default config with storage under a temp dir
	cfg := testConfig(t)
	checker := New(WithMinDiskSpace(1))

	// When: running all checks
	results := checker.RunAll(context.Background(), cfg)

	// Then: every check passes and storage was created
	got := byName(results)
	require.Len(t, got, 5)
	for _, r := range results {
		assert.Equal(t, StatusPass, r.Status, "%s: %s", r.Name, r.Message)
	}
	assert.Equal(t, "6 listings, 4 brands", got["catalog"].Message)
	assert.Equal(t, "sqlite storage writable", got["storage"].Message)
	assert.Equal(t, "ready", checker.SummaryStatus(results))
	assert.FileExists(t, cfg.Storage.Path+".db")
}

func TestRunAll_MemoryBackendWarns(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Storage.Backend = "memory"

	results := New().RunAll(context.Background(), cfg)

	got := byName(results)
	require.Len(t, got, 3)
	assert.Equal(t, StatusWarn, got["storage"].Status)
	assert.NotContains(t, got, "disk_space")
}

func TestRunAll_BrokenCatalogIsCritical(t *testing.T) {
	// Given: a catalog path that does not exist
	cfg := testConfig(t)
	cfg.Catalog.Path = filepath.Join(t.TempDir(), "missing.json")
	checker := New(WithMinDiskSpace(1))

	results := checker.RunAll(context.Background(), cfg)

	// Then: the run fails
	assert.Equal(t, StatusFail, byName(results)["catalog"].Status)
	assert.True(t, checker.HasCriticalFailures(results))
	assert.Equal(t, "failed", checker.SummaryStatus(results))
}

func TestRunAll_InvalidConfigIsCritical(t *testing.T) {
	cfg := testConfig(t)
	cfg.Search.Debounce = "soon"

	results := New(WithMinDiskSpace(1)).RunAll(context.Background(), cfg)

	r := byName(results)["config"]
	assert.True(t, r.IsCritical())
	assert.Contains(t, r.Message, "search.debounce")
}

func TestRunAll_UnusableStorageIsNotCritical(t *testing.T) {
	// Given: a storage path beneath a regular file
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))
	cfg := config.NewConfig()
	cfg.Storage.Path = filepath.Join(blocker, "state")
	checker := New(WithMinDiskSpace(1))

	// When: running all checks
	results := checker.RunAll(context.Background(), cfg)

	// Then: storage checks fail but the storefront can still run
	got := byName(results)
	assert.Equal(t, StatusFail, got["write_permissions"].Status)
	assert.Equal(t, StatusFail, got["storage"].Status)
	assert.Contains(t, got["storage"].Message, "kept in memory")
	assert.False(t, checker.HasCriticalFailures(results))
	assert.Equal(t, "ready_with_warnings", checker.SummaryStatus(results))
}

func TestRunAll_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := New().RunAll(ctx, testConfig(t))

	require.Len(t, results, 1)
	assert.Equal(t, "aborted", results[0].Name)
}

func TestCheckWritePermissions_ReadOnly(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("root ignores directory permissions")
	}

	dir := t.TempDir()
	require.NoError(t, os.Chmod(dir, 0555))
	t.Cleanup(func() { _ = os.Chmod(dir, 0755) })

	result := New().CheckWritePermissions(dir)
	assert.Equal(t, StatusFail, result.Status)
	assert.Contains(t, result.Message, "permission denied")
}

func TestCheckDiskSpace(t *testing.T) {
	dir := t.TempDir()

	// Missing paths resolve to an existing parent
	result := New(WithMinDiskSpace(1)).CheckDiskSpace(filepath.Join(dir, "a", "b"))
	assert.Equal(t, StatusPass, result.Status)
	assert.Contains(t, result.Message, "free")

	// An impossible minimum only warns
	result = New(WithMinDiskSpace(^uint64(0))).CheckDiskSpace(dir)
	assert.Equal(t, StatusWarn, result.Status)
	assert.False(t, result.IsCritical())
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 bytes", formatBytes(512))
	assert.Equal(t, "1.5 KB", formatBytes(1536))
	assert.Equal(t, "10.0 MB", formatBytes(MinDiskSpaceBytes))
	assert.Equal(t, "2.0 GB", formatBytes(2*1024*1024*1024))
}

func TestPrintResults(t *testing.T) {
	buf := &bytes.Buffer{}
	checker := New(WithOutput(buf), WithVerbose(true))

	checker.PrintResults([]CheckResult{
		{Name: "config", Status: StatusPass, Message: "OK", Required: true},
		{Name: "catalog", Status: StatusFail, Message: "broken", Details: "/tmp/x.json", Required: true},
		{Name: "storage", Status: StatusWarn, Message: "memory backend"},
	})

	out := buf.String()
	assert.Contains(t, out, "Storefront System Check")
	assert.Contains(t, out, "[PASS] config: OK")
	assert.Contains(t, out, "      /tmp/x.json")
	assert.Contains(t, out, "Status: FAILED")
	assert.Contains(t, out, "1 error(s):\n  - catalog: broken")
	assert.Contains(t, out, "1 warning(s):\n  - storage: memory backend")
}
