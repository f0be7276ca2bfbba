//go:build !linux && !darwin && !freebsd && !netbsd && !openbsd

package cli

// isTerminal always reports false here; the shell reads lines from stdin.
func isTerminal(uintptr) bool {
	return false
}
