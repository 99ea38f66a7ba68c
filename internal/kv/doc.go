// Package kv provides the durable key-value storage the storefront keeps
// its client state in: string keys, string values, get/set/remove.
//
// Three backends are available:
//   - sqlite (default): a single table in a pure-Go SQLite database, WAL mode
//   - file: one JSON object on disk, rewritten atomically under a file lock
//   - memory: process-local map, for tests and --ephemeral sessions
//
// Usage:
//
//	st, err := kv.NewStorageWithBackend("/home/me/.storefront/state", "sqlite")
//	if err != nil {
//	    return err
//	}
//	defer st.Close()
//
//	_ = st.Set("abou3yta.theme", "dark")
//	v, ok, err := st.Get("abou3yta.theme")
package kv
