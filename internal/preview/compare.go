package preview

import (
	"fmt"
	"sort"
	"strings"

	"github.com/claude/ironcoach/internal/models"
)

// Discrepancy is one field where the local and authoritative computations
// disagree. A structured warning, not an error.
type Discrepancy struct {
	Movement      string `json:"movement"`
	Field         string `json:"field"`
	Local         int    `json:"local"`
	Authoritative int    `json:"authoritative"`
}

func (d Discrepancy) String() string {
	return fmt.Sprintf("%s.%s: local=%d authoritative=%d", d.Movement, d.Field, d.Local, d.Authoritative)
}

// ValidationResult is the outcome of checking a local preview against the
// server. Divergent versions (including a "-fallback" local version) are
// visible here even when the numbers happen to agree.
type ValidationResult struct {
	LocalVersion         string                 `json:"local_version"`
	AuthoritativeVersion string                 `json:"authoritative_version"`
	Authoritative        *models.ProgramPreview `json:"-"`
	Discrepancies        []Discrepancy          `json:"discrepancies"`
}

// Clean reports whether the computations agree and were produced by the same
// constants version without the fallback taint.
func (r *ValidationResult) Clean() bool {
	return len(r.Discrepancies) == 0 &&
		r.LocalVersion == r.AuthoritativeVersion &&
		!strings.HasSuffix(r.LocalVersion, FallbackVersionSuffix)
}

// CompareCalculations diffs two calculated-data maps field by field, in
// deterministic movement order. Movements present on only one side are
// reported with the other side zeroed.
func CompareCalculations(local, authoritative map[string]models.MovementCalculations) []Discrepancy {
	names := make([]string, 0, len(local))
	for name := range local {
		names = append(names, name)
	}
	for name := range authoritative {
		if _, ok := local[name]; !ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	var discrepancies []Discrepancy
	for _, name := range names {
		l := local[name]
		a := authoritative[name]
		fields := []struct {
			name        string
			local, auth int
		}{
			{"eighty_percent_lbs", l.EightyPercentLbs, a.EightyPercentLbs},
			{"weekly_jump_percent", l.WeeklyJumpPercent, a.WeeklyJumpPercent},
			{"weekly_jump_lbs", l.WeeklyJumpLbs, a.WeeklyJumpLbs},
			{"ramp_up_percent", l.RampUpPercent, a.RampUpPercent},
			{"ramp_up_base_lbs", l.RampUpBaseLbs, a.RampUpBaseLbs},
		}
		for _, f := range fields {
			if f.local != f.auth {
				discrepancies = append(discrepancies, Discrepancy{
					Movement:      name,
					Field:         f.name,
					Local:         f.local,
					Authoritative: f.auth,
				})
			}
		}
	}
	return discrepancies
}
