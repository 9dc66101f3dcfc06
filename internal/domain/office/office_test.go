package office

import "testing"

func TestClamp(t *testing.T) {
	cases := []struct {
		v, lo, hi, want int
	}{
		{5, 0, 10, 5},
		{-1, 0, 10, 0},
		{11, 0, 10, 10},
		{0, 0, 10, 0},
		{10, 0, 10, 10},
	}
	for _, tc := range cases {
		if got := Clamp(tc.v, tc.lo, tc.hi); got != tc.want {
			t.Errorf("Clamp(%d, %d, %d) = %d, want %d", tc.v, tc.lo, tc.hi, got, tc.want)
		}
	}
}

func TestAtMaxAlert(t *testing.T) {
	if (ChillState{BossAlertLevel: MaxBossAlertLevel - 1}).AtMaxAlert() {
		t.Error("Expected AtMaxAlert false below the cap")
	}
	if !(ChillState{BossAlertLevel: MaxBossAlertLevel}).AtMaxAlert() {
		t.Error("Expected AtMaxAlert true at the cap")
	}
}
