//go:build !dryad_noassert

package assert

// Enabled reports whether precondition checks are compiled in.
const Enabled = true
