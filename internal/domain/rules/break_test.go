package rules

import (
	"testing"

	"github.com/chillmcp/server/internal/domain/office"
)

func TestApplyBreakReliefAndClamp(t *testing.T) {
	cases := []struct {
		name       string
		stress     int
		relief     int
		wantStress int
	}{
		{"partial relief", 50, 30, 20},
		{"exact floor", 50, 50, 0},
		{"clamped at floor", 10, 100, 0},
		{"minimal relief", 100, 1, 99},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := ApplyBreak(
				office.ChillState{StressLevel: tc.stress, BossAlertLevel: 0},
				BreakParams{StressRelief: tc.relief, AlertRoll: 100, BossAlertness: 0},
			)
			if out.State.StressLevel != tc.wantStress {
				t.Errorf("Expected stress %d, got %d", tc.wantStress, out.State.StressLevel)
			}
		})
	}
}

func TestApplyBreakAlertRoll(t *testing.T) {
	// Roll at or under the alertness means the boss noticed.
	noticed := ApplyBreak(
		office.ChillState{StressLevel: 50, BossAlertLevel: 2},
		BreakParams{StressRelief: 10, AlertRoll: 50, BossAlertness: 50},
	)
	if !noticed.BossNoticed || noticed.State.BossAlertLevel != 3 {
		t.Errorf("Expected escalation to 3, got noticed=%v level=%d",
			noticed.BossNoticed, noticed.State.BossAlertLevel)
	}

	missed := ApplyBreak(
		office.ChillState{StressLevel: 50, BossAlertLevel: 2},
		BreakParams{StressRelief: 10, AlertRoll: 51, BossAlertness: 50},
	)
	if missed.BossNoticed || missed.State.BossAlertLevel != 2 {
		t.Errorf("Expected no escalation, got noticed=%v level=%d",
			missed.BossNoticed, missed.State.BossAlertLevel)
	}
}

func TestApplyBreakAlertClampedAtMax(t *testing.T) {
	out := ApplyBreak(
		office.ChillState{StressLevel: 50, BossAlertLevel: office.MaxBossAlertLevel},
		BreakParams{StressRelief: 10, AlertRoll: 1, BossAlertness: 100},
	)
	if out.State.BossAlertLevel != office.MaxBossAlertLevel {
		t.Errorf("Expected boss alert clamped at %d, got %d",
			office.MaxBossAlertLevel, out.State.BossAlertLevel)
	}
	if !out.BossNoticed {
		t.Error("Expected the roll to count as noticed even at the clamp")
	}
}

func TestNextStress(t *testing.T) {
	if got := NextStress(50); got != 51 {
		t.Errorf("Expected 51, got %d", got)
	}
	if got := NextStress(office.MaxStressLevel); got != office.MaxStressLevel {
		t.Errorf("Expected clamp at %d, got %d", office.MaxStressLevel, got)
	}
}

func TestNextBossAlert(t *testing.T) {
	if got := NextBossAlert(3); got != 2 {
		t.Errorf("Expected 2, got %d", got)
	}
	if got := NextBossAlert(office.MinBossAlertLevel); got != office.MinBossAlertLevel {
		t.Errorf("Expected clamp at %d, got %d", office.MinBossAlertLevel, got)
	}
}
