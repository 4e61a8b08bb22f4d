// Package tpl holds the XKB templates compiled into the binary. They are
// parsed once, on first use, and shared read-only between generation
// requests.
package tpl
