// Package office defines the core domain entities for the simulated office.
// This package is PURE and must NOT import any infrastructure packages (network, events, platform).
package office

// Counter bounds. These are invariants of the simulation, not tunables:
// every reachable state keeps both counters inside them.
const (
	MinStressLevel = 0
	MaxStressLevel = 100

	MinBossAlertLevel = 0
	MaxBossAlertLevel = 5

	MinBossAlertness = 0
	MaxBossAlertness = 100
)

// Starting values for a freshly constructed office.
const (
	DefaultStressLevel    = 50
	DefaultBossAlertLevel = 0
)

// ChillState is a point-in-time snapshot of the office counters.
// It is always a copy, never a reference into live state.
type ChillState struct {
	StressLevel    int `json:"stress_level"`
	BossAlertLevel int `json:"boss_alert_level"`
}

// AtMaxAlert reports whether the boss is watching as closely as possible.
func (s ChillState) AtMaxAlert() bool {
	return s.BossAlertLevel >= MaxBossAlertLevel
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampStress bounds a stress level to its legal range.
func ClampStress(v int) int {
	return Clamp(v, MinStressLevel, MaxStressLevel)
}

// ClampBossAlert bounds a boss alert level to its legal range.
func ClampBossAlert(v int) int {
	return Clamp(v, MinBossAlertLevel, MaxBossAlertLevel)
}

// ClampBossAlertness bounds a boss alertness percentage to its legal range.
func ClampBossAlertness(v int) int {
	return Clamp(v, MinBossAlertness, MaxBossAlertness)
}
