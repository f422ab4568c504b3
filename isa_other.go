//go:build !arm64

package smc

import (
	"fmt"
	"runtime"
)

// Native returns the ISA implementation for the build architecture.
// Only aarch64 carries one: the cache-maintenance sequence and the
// encoder probe are architecture-specific by nature, and this module
// does not pretend to portable semantics for them.
func Native() (ISA, error) {
	return nil, fmt.Errorf("unsupported architecture: %s (supported: arm64)", runtime.GOARCH)
}
