package preflight

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Aman-CERP/storefront/internal/catalog"
	"github.com/Aman-CERP/storefront/internal/config"
	"github.com/Aman-CERP/storefront/internal/kv"
)

const probeKey = "__preflight_probe__"

func isMemory(backend string) bool {
	return kv.Backend(strings.ToLower(backend)) == kv.BackendMemory
}

func storageDir(path string) string {
	return filepath.Dir(path)
}

// CheckCatalog loads and validates the catalog at path, or the bundled
// sample when path is empty.
func (c *Checker) CheckCatalog(path string) CheckResult {
	result := CheckResult{
		Name:     "catalog",
		Required: true,
	}

	var (
		items []catalog.Item
		err   error
	)
	if path == "" {
		items, err = catalog.LoadSample()
		result.Details = "bundled sample"
	} else {
		items, err = catalog.LoadFile(path)
		result.Details = path
	}
	if err != nil {
		result.Status = StatusFail
		result.Message = err.Error()
		return result
	}

	result.Status = StatusPass
	result.Message = fmt.Sprintf("%d listings, %d brands", len(items), len(catalog.NewIndex(items).Brands()))
	return result
}

// CheckWritePermissions checks that files can be created in dir, creating
// dir when missing.
func (c *Checker) CheckWritePermissions(dir string) CheckResult {
	result := CheckResult{
		Name:    "write_permissions",
		Details: dir,
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		result.Status = StatusFail
		result.Message = fmt.Sprintf("cannot create storage directory: %v", err)
		return result
	}

	f, err := os.CreateTemp(dir, ".storefront-preflight-*")
	if err != nil {
		result.Status = StatusFail
		result.Message = fmt.Sprintf("permission denied: %v", err)
		return result
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)

	result.Status = StatusPass
	result.Message = "OK"
	return result
}

// CheckStorage opens the configured backend and round-trips a probe key.
func (c *Checker) CheckStorage(cfg *config.Config) CheckResult {
	result := CheckResult{
		Name:    "storage",
		Details: kv.StoragePath(cfg.Storage.Path, cfg.Storage.Backend),
	}

	storage, err := kv.NewStorageWithBackend(cfg.Storage.Path, cfg.Storage.Backend)
	if err != nil {
		result.Status = StatusFail
		result.Message = fmt.Sprintf("cannot open %s storage, state will be kept in memory: %v", cfg.Storage.Backend, err)
		return result
	}
	defer func() { _ = storage.Close() }()

	if !kv.IsAvailable(storage, probeKey) {
		result.Status = StatusFail
		result.Message = fmt.Sprintf("%s storage rejects writes, state will be kept in memory", cfg.Storage.Backend)
		return result
	}

	result.Status = StatusPass
	result.Message = fmt.Sprintf("%s storage writable", cfg.Storage.Backend)
	return result
}
