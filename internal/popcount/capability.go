package popcount

import (
	"os"
	"runtime"
	"strings"

	"golang.org/x/sys/cpu"
)

// Kernel identifies a popcount implementation.
type Kernel uint8

const (
	// Generic is the reference loop.
	Generic Kernel = iota
	// Unrolled processes four words per iteration.
	Unrolled
)

// String returns the string representation of a Kernel.
func (k Kernel) String() string {
	switch k {
	case Generic:
		return "generic"
	case Unrolled:
		return "unrolled"
	default:
		return "unknown"
	}
}

// ParseKernel parses a string into a Kernel value.
func ParseKernel(s string) (Kernel, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "generic":
		return Generic, true
	case "unrolled":
		return Unrolled, true
	default:
		return Generic, false
	}
}

// Package-level state, initialized once at package init.
var (
	activeKernel Kernel
	hasOverride  bool
)

func init() {
	selectKernel(os.Getenv("BUTINA_POPCOUNT"))
}

func selectKernel(override string) {
	hasOverride = false
	if override != "" {
		if k, ok := ParseKernel(override); ok {
			hasOverride = true
			setKernel(k)
			return
		}
	}
	setKernel(detectKernel())
}

func detectKernel() Kernel {
	switch runtime.GOARCH {
	case "amd64":
		if cpu.X86.HasPOPCNT {
			return Unrolled
		}
	case "arm64":
		if cpu.ARM64.HasASIMD {
			return Unrolled
		}
	}
	return Generic
}

func setKernel(k Kernel) {
	activeKernel = k
	switch k {
	case Unrolled:
		kernelCount = countUnrolled
		kernelAndCount = andCountUnrolled
		kernelOrCount = orCountUnrolled
	default:
		kernelCount = countGeneric
		kernelAndCount = andCountGeneric
		kernelOrCount = orCountGeneric
	}
}

// ActiveKernel returns the kernel selected at init.
func ActiveKernel() Kernel {
	return activeKernel
}

// HasOverride reports whether BUTINA_POPCOUNT selected the kernel.
func HasOverride() bool {
	return hasOverride
}
