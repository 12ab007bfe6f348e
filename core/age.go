package core

import (
	"time"

	"github.com/huangsam/githeat/internal/contract"
	"github.com/huangsam/githeat/schema"
)

// CommitAgeDays converts a last-change lookup into whole days before now.
// Unresolved lookups and timestamps after now both report 0.
func CommitAgeDays(lookup schema.TimeLookup, now time.Time) int {
	if !lookup.OK() {
		return 0
	}
	elapsed := now.Sub(lookup.Time)
	if elapsed <= 0 {
		return 0
	}
	return int(elapsed / contract.Day)
}
