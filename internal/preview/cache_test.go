package preview

import (
	"testing"

	"github.com/claude/ironcoach/internal/builder"
)

// TestCacheRoundTrip verifies a snapshot survives Put/Get with its tables
// intact.
func TestCacheRoundTrip(t *testing.T) {
	cache, err := OpenCache(t.TempDir())
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	defer cache.Close()

	if err := cache.Put(builder.DefaultConstants()); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := cache.Get(builder.BuilderTypeStrengthLinear5x5)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("expected cached snapshot")
	}
	if got.Version != "v1.0.0" {
		t.Errorf("version = %q, want v1.0.0", got.Version)
	}
	if got.WeeklyJumpTable[12] != 3 {
		t.Errorf("weekly jump [12] = %d, want 3", got.WeeklyJumpTable[12])
	}
	if got.ProtocolByWeek[6].Sets != 3 {
		t.Errorf("week 6 sets = %d, want 3", got.ProtocolByWeek[6].Sets)
	}
}

// TestCacheMiss verifies an unknown builder type returns nil without error.
func TestCacheMiss(t *testing.T) {
	cache, err := OpenCache(t.TempDir())
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	defer cache.Close()

	got, err := cache.Get("conditioning_emom")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for cache miss, got %+v", got)
	}
}

// TestCacheReplace verifies a newer snapshot replaces the old one for the
// same builder type.
func TestCacheReplace(t *testing.T) {
	cache, err := OpenCache(t.TempDir())
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	defer cache.Close()

	if err := cache.Put(builder.DefaultConstants()); err != nil {
		t.Fatalf("put v1.0.0: %v", err)
	}
	next := builder.DefaultConstants()
	next.Version = "v1.1.0"
	if err := cache.Put(next); err != nil {
		t.Fatalf("put v1.1.0: %v", err)
	}

	got, err := cache.Get(builder.BuilderTypeStrengthLinear5x5)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Version != "v1.1.0" {
		t.Errorf("version = %q, want v1.1.0", got.Version)
	}
}
