package sync

import (
	"time"

	"github.com/matzehuels/cratesync/pkg/crate"
)

// Report describes what a run did.
type Report struct {
	RunID  string
	Policy ExpandPolicy
	DryRun bool

	Requested int             // Size of the wanted set before expansion
	Expanded  int             // Distinct packages returned by version expansion
	Wanted    []crate.Package // Final sorted target list

	Indexed    []string        // Names whose index was fetched (or would be, in a dry run)
	Skipped    []crate.Package // Already cached
	Downloaded []crate.Package // Fetched and persisted this run
	Pending    []crate.Package // Dry run only: would be downloaded

	Bytes    int64
	Duration time.Duration
}

// UpToDate reports whether the run found nothing to download.
func (r *Report) UpToDate() bool {
	return len(r.Downloaded) == 0 && len(r.Pending) == 0 && len(r.Skipped) == len(r.Wanted)
}
