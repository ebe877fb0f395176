package compiler

import (
	"github.com/alexisbeaulieu97/livepreview/internal/descriptor"
)

// Skip records a field left out of compilation.
type Skip struct {
	Index   int                   `json:"index"`
	Setting string                `json:"setting"`
	Reason  descriptor.SkipReason `json:"reason"`
}

// Scan returns the eligible fields in input order along with the reasons the others were
// skipped.
func Scan(fields []descriptor.Field) ([]descriptor.Field, []Skip) {
	eligible := make([]descriptor.Field, 0, len(fields))
	var skipped []Skip
	for i, f := range fields {
		if reason := f.Eligibility(); reason != descriptor.SkipNone {
			skipped = append(skipped, Skip{Index: i, Setting: f.Settings, Reason: reason})
			continue
		}
		eligible = append(eligible, f)
	}
	return eligible, skipped
}
