package sitecheck

import "os"

// ShowHelp prints usage information for the site check tool.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`neStudio Site Check
===================

Checks a running site: health, filter results against the catalogue, and
label determinism.

Usage:
  go run ./cmd/sitecheck [options]

Options:
  -url string
        Base URL of the site (default "http://localhost:9080")
  -workers int
        Number of concurrent filter checks (default 4)
  -max-tags int
        Largest tag combination to try (default 2)
  -timeout duration
        HTTP request timeout (default 10s)
  -verbose
        Log every case
  -help
        Show this help message

Examples:
  go run ./cmd/sitecheck -url http://localhost:8080 -workers 8
  go run ./cmd/sitecheck -verbose -max-tags 3
`)
}
