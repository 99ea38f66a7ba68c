// Package logging provides opt-in file-based logging with rotation for the
// storefront CLI. When --debug is set, JSON logs are written to
// ~/.storefront/logs/ and can be read back with `storefront logs`.
package logging
