package sync

import (
	"strconv"

	"github.com/matzehuels/cratesync/pkg/errors"
	"github.com/matzehuels/cratesync/pkg/registry"
)

// ExpandKind selects how the wanted set grows before archives are fetched.
type ExpandKind int

const (
	// ExpandNone fetches exactly the wanted packages.
	ExpandNone ExpandKind = iota
	// ExpandAll adds every published version of each wanted crate.
	ExpandAll
	// ExpandLastN adds the versions on the last N lines of each crate's index.
	ExpandLastN
)

// ExpandPolicy is None, All, or LastN(n). The zero value is None.
type ExpandPolicy struct {
	Kind ExpandKind
	N    int // Only meaningful for ExpandLastN
}

var (
	// None disables expansion.
	None = ExpandPolicy{Kind: ExpandNone}
	// All expands to every published version.
	All = ExpandPolicy{Kind: ExpandAll}
)

// LastN expands to the last n versions in index order.
func LastN(n int) ExpandPolicy { return ExpandPolicy{Kind: ExpandLastN, N: n} }

// ParsePolicy builds a policy from the CLI surface: --all and
// --max-previous. Zero lastN with all unset means no expansion.
func ParsePolicy(all bool, lastN int) (ExpandPolicy, error) {
	switch {
	case lastN < 0:
		return None, errors.New(errors.ErrCodeInvalidInput, "max previous versions must not be negative, got %d", lastN)
	case all && lastN > 0:
		return None, errors.New(errors.ErrCodeInvalidInput, "all versions and max previous versions are mutually exclusive")
	case all:
		return All, nil
	case lastN > 0:
		return LastN(lastN), nil
	default:
		return None, nil
	}
}

// Enabled reports whether the policy adds anything.
func (p ExpandPolicy) Enabled() bool {
	switch p.Kind {
	case ExpandAll:
		return true
	case ExpandLastN:
		return p.N > 0
	default:
		return false
	}
}

// Max returns the version tail length to request from the registry.
func (p ExpandPolicy) Max() int {
	switch p.Kind {
	case ExpandAll:
		return registry.Unbounded
	case ExpandLastN:
		return p.N
	default:
		return 0
	}
}

func (p ExpandPolicy) String() string {
	switch p.Kind {
	case ExpandAll:
		return "all"
	case ExpandLastN:
		return "last " + strconv.Itoa(p.N)
	default:
		return "none"
	}
}
