// Package rules contains the pure calculation logic for break mechanics.
// This package is PURE and must NOT import any infrastructure packages.
package rules

import "github.com/chillmcp/server/internal/domain/office"

// BreakParams holds the randomized draws feeding a single break.
// Both draws are uniform integers in [1, 100]; the engine supplies them
// so that this package stays deterministic.
type BreakParams struct {
	StressRelief  int // subtracted from the stress level
	AlertRoll     int // compared against BossAlertness
	BossAlertness int // percent chance the boss notices
}

// BreakOutcome is the result of applying a single break to the counters.
type BreakOutcome struct {
	State       office.ChillState
	BossNoticed bool // the alert roll succeeded (level may still be clamped)
}

// ApplyBreak computes the next counter pair for one break.
// Stress drops by the relief draw; the boss alert level rises by one when
// the roll lands at or under the alertness percentage. Both counters are
// clamped to their legal ranges.
func ApplyBreak(current office.ChillState, p BreakParams) BreakOutcome {
	next := office.ChillState{
		StressLevel:    office.ClampStress(current.StressLevel - p.StressRelief),
		BossAlertLevel: current.BossAlertLevel,
	}

	noticed := p.AlertRoll <= p.BossAlertness
	if noticed {
		next.BossAlertLevel = office.ClampBossAlert(next.BossAlertLevel + 1)
	}

	return BreakOutcome{State: next, BossNoticed: noticed}
}

// NextStress advances the stress level by one ticker firing.
func NextStress(current int) int {
	return office.ClampStress(current + 1)
}

// NextBossAlert relaxes the boss alert level by one cooldown firing.
func NextBossAlert(current int) int {
	return office.ClampBossAlert(current - 1)
}
