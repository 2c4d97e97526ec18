package builder

import (
	"errors"
	"fmt"
	"sync"
)

// BuilderTypeStrengthLinear5x5 is the linear-progression 5x5 scheme. It is
// currently the only published builder type.
const BuilderTypeStrengthLinear5x5 = "strength_linear_5x5"

// Fallback percentages used when a rep count falls outside the table domain.
// Input validation keeps rep counts in 1-20, so these only fire on tables
// published with gaps.
const (
	DefaultWeeklyJumpPercent = 5
	DefaultRampUpPercent     = 55
)

var (
	// ErrUnsupportedBuilderType is returned for builder types with no
	// published constants. Not retryable without changing the request.
	ErrUnsupportedBuilderType = errors.New("unsupported builder type")

	// ErrVersionNotFound is returned when a specific constants version was
	// never published for the builder type.
	ErrVersionNotFound = errors.New("constants version not found")
)

// Protocol is the sets/reps prescription for one week.
type Protocol struct {
	Sets int `json:"sets"`
	Reps int `json:"reps"`
}

// Constants is one immutable, versioned set of lookup tables. Every generated
// program records the version that produced it, so a published Constants value
// must never be mutated.
type Constants struct {
	Version     string `json:"version"`
	BuilderType string `json:"builder_type"`

	// WeeklyJumpTable maps max reps at 80% of 1RM to the weekly progression
	// percentage of 1RM. Fewer reps at 80% means less work capacity and a
	// bigger jump to reach the target.
	WeeklyJumpTable map[int]int `json:"weekly_jump_table"`

	// RampUpTable maps max reps at 80% of 1RM to the starting percentage for
	// the guided 5RM ramp-up test.
	RampUpTable map[int]int `json:"ramp_up_table"`

	// ProtocolByWeek maps week number (1-8) to sets and reps.
	ProtocolByWeek map[int]Protocol `json:"protocol_by_week"`
}

// WeeklyJumpPercent looks up the weekly jump for a rep count, falling back to
// the documented default so a gap never propagates as a zero value.
func (c *Constants) WeeklyJumpPercent(reps int) int {
	if pct, ok := c.WeeklyJumpTable[reps]; ok {
		return pct
	}
	return DefaultWeeklyJumpPercent
}

// RampUpPercent looks up the ramp-up start percentage for a rep count.
func (c *Constants) RampUpPercent(reps int) int {
	if pct, ok := c.RampUpTable[reps]; ok {
		return pct
	}
	return DefaultRampUpPercent
}

// DefaultConstants returns the v1.0.0 strength_linear_5x5 tables. The preview
// side also compiles these in as its degraded-mode fallback.
func DefaultConstants() *Constants {
	return &Constants{
		Version:     "v1.0.0",
		BuilderType: BuilderTypeStrengthLinear5x5,
		WeeklyJumpTable: map[int]int{
			20: 2, 19: 2, 18: 2, 17: 2, 16: 2,
			15: 3, 14: 3, 13: 3, 12: 3, 11: 3,
			10: 4, 9: 4, 8: 4, 7: 4, 6: 4,
			5: 5, 4: 5, 3: 5, 2: 5, 1: 5,
		},
		RampUpTable: map[int]int{
			20: 70, 19: 69, 18: 68, 17: 67, 16: 66,
			15: 65, 14: 64, 13: 63, 12: 62, 11: 61,
			10: 60, 9: 59, 8: 58, 7: 57, 6: 56,
			5: 55, 4: 54, 3: 53, 2: 52, 1: 51,
		},
		ProtocolByWeek: map[int]Protocol{
			1: {Sets: 5, Reps: 5},
			2: {Sets: 5, Reps: 5},
			3: {Sets: 5, Reps: 5},
			4: {Sets: 5, Reps: 5},
			5: {Sets: 5, Reps: 5},
			6: {Sets: 3, Reps: 3},
			7: {Sets: 2, Reps: 2},
			8: {Sets: 1, Reps: 1}, // testing week
		},
	}
}

// Registry holds published constants per builder type and serves the active
// version. It is injected into callers rather than accessed as a package
// global so tests can exercise multiple versions side by side.
//
// Publishing swaps the active pointer atomically under the lock; readers that
// grabbed a snapshot before a swap keep computing with it and stamp that exact
// version into their output.
type Registry struct {
	mu       sync.RWMutex
	versions map[string]map[string]*Constants // builder type -> version -> constants
	active   map[string]*Constants            // builder type -> active constants
}

// NewRegistry creates a registry pre-seeded with the default v1.0.0
// strength_linear_5x5 constants.
func NewRegistry() *Registry {
	r := &Registry{
		versions: make(map[string]map[string]*Constants),
		active:   make(map[string]*Constants),
	}
	// Seeding cannot fail: the default constants are well-formed.
	if err := r.Publish(DefaultConstants()); err != nil {
		panic(err)
	}
	return r
}

// Publish registers a new constants version and makes it active. The version
// must be strictly greater than the current active version for the builder
// type; already-published versions are never replaced.
func (r *Registry) Publish(c *Constants) error {
	if c.BuilderType == "" {
		return fmt.Errorf("publish: builder type is required")
	}
	if c.Version == "" {
		return fmt.Errorf("publish: version is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	byVersion, ok := r.versions[c.BuilderType]
	if !ok {
		byVersion = make(map[string]*Constants)
		r.versions[c.BuilderType] = byVersion
	}
	if _, exists := byVersion[c.Version]; exists {
		return fmt.Errorf("publish: version %s already published for %s", c.Version, c.BuilderType)
	}
	if cur := r.active[c.BuilderType]; cur != nil && compareVersions(c.Version, cur.Version) <= 0 {
		return fmt.Errorf("publish: version %s does not increase on active %s", c.Version, cur.Version)
	}

	byVersion[c.Version] = c
	r.active[c.BuilderType] = c
	return nil
}

// Active returns the currently active constants for a builder type.
func (r *Registry) Active(builderType string) (*Constants, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.active[builderType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedBuilderType, builderType)
	}
	return c, nil
}

// Get returns a specific published version, used to recompute or validate
// historical programs.
func (r *Registry) Get(builderType, version string) (*Constants, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byVersion, ok := r.versions[builderType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedBuilderType, builderType)
	}
	c, ok := byVersion[version]
	if !ok {
		return nil, fmt.Errorf("%w: %s %s", ErrVersionNotFound, builderType, version)
	}
	return c, nil
}

// compareVersions orders semantic version strings of the form vMAJOR.MINOR.PATCH.
// Malformed components compare as zero.
func compareVersions(a, b string) int {
	pa, pb := parseVersion(a), parseVersion(b)
	for i := 0; i < 3; i++ {
		if pa[i] != pb[i] {
			if pa[i] < pb[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

func parseVersion(v string) [3]int {
	var parts [3]int
	if len(v) > 0 && v[0] == 'v' {
		v = v[1:]
	}
	idx := 0
	for i := 0; i < len(v) && idx < 3; i++ {
		ch := v[i]
		switch {
		case ch >= '0' && ch <= '9':
			parts[idx] = parts[idx]*10 + int(ch-'0')
		case ch == '.':
			idx++
		default:
			return parts
		}
	}
	return parts
}
