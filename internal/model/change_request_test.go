package model

import "testing"

func intp(v int) *int       { return &v }
func strp(v string) *string { return &v }

func TestApplyOverrides(t *testing.T) {
	base := Job{Days: 5, Wage: "400/day", StayInfo: "no stay"}

	t.Run("all present", func(t *testing.T) {
		j := base
		cr := ChangeRequest{
			RequestedDays: intp(10),
			RequestedWage: strp("600/day"),
			RequestedStay: strp("room provided"),
		}
		cr.ApplyOverrides(&j)
		if j.Days != 10 || j.Wage != "600/day" || j.StayInfo != "room provided" {
			t.Errorf("got days=%d wage=%q stay=%q", j.Days, j.Wage, j.StayInfo)
		}
	})

	t.Run("absent fields untouched", func(t *testing.T) {
		j := base
		cr := ChangeRequest{RequestedWage: strp("700/day")}
		cr.ApplyOverrides(&j)
		if j.Days != 5 || j.StayInfo != "no stay" {
			t.Errorf("untouched fields changed: days=%d stay=%q", j.Days, j.StayInfo)
		}
		if j.Wage != "700/day" {
			t.Errorf("wage = %q, want 700/day", j.Wage)
		}
	})

	t.Run("no overrides is a no-op", func(t *testing.T) {
		j := base
		var cr ChangeRequest
		cr.ApplyOverrides(&j)
		if j != base {
			t.Errorf("job changed: %+v", j)
		}
	})

	t.Run("days coerced to minimum", func(t *testing.T) {
		j := base
		cr := ChangeRequest{RequestedDays: intp(0)}
		cr.ApplyOverrides(&j)
		if j.Days != 1 {
			t.Errorf("days = %d, want 1", j.Days)
		}
	})

	t.Run("status never touched", func(t *testing.T) {
		j := base
		j.Status = JobStatusOpen
		cr := ChangeRequest{RequestedDays: intp(3)}
		cr.ApplyOverrides(&j)
		if j.Status != JobStatusOpen {
			t.Errorf("status = %q, want OPEN", j.Status)
		}
	})
}

func TestResolved(t *testing.T) {
	cases := []struct {
		status string
		want   bool
	}{
		{ChangeStatusPending, false},
		{ChangeStatusAccepted, true},
		{ChangeStatusRejected, true},
	}
	for _, tc := range cases {
		cr := ChangeRequest{Status: tc.status}
		if got := cr.Resolved(); got != tc.want {
			t.Errorf("Resolved() with status %q = %v, want %v", tc.status, got, tc.want)
		}
	}
}
