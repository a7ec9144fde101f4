package model

import "testing"

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{JobStatusOpen, JobStatusAssigned, true},
		{JobStatusOpen, JobStatusClosed, true},
		{JobStatusOpen, JobStatusConfirmed, false},
		{JobStatusOpen, JobStatusOpen, false},

		// accepting a second labourer re-applies ASSIGNED
		{JobStatusAssigned, JobStatusAssigned, true},
		{JobStatusAssigned, JobStatusConfirmed, true},
		{JobStatusAssigned, JobStatusClosed, true},
		{JobStatusAssigned, JobStatusOpen, false},

		{JobStatusConfirmed, JobStatusClosed, true},
		{JobStatusConfirmed, JobStatusAssigned, false},
		{JobStatusConfirmed, JobStatusConfirmed, false},

		// nothing leaves CLOSED
		{JobStatusClosed, JobStatusOpen, false},
		{JobStatusClosed, JobStatusAssigned, false},
		{JobStatusClosed, JobStatusConfirmed, false},
		{JobStatusClosed, JobStatusClosed, false},

		{"BOGUS", JobStatusClosed, false},
		{JobStatusOpen, "BOGUS", false},
		{"", "", false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%q, %q) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestValidJobStatus(t *testing.T) {
	for _, s := range []string{JobStatusOpen, JobStatusAssigned, JobStatusConfirmed, JobStatusClosed} {
		if !ValidJobStatus(s) {
			t.Errorf("ValidJobStatus(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"", "open", "DONE"} {
		if ValidJobStatus(s) {
			t.Errorf("ValidJobStatus(%q) = true, want false", s)
		}
	}
}

func TestNormalizeDays(t *testing.T) {
	cases := []struct{ in, want int }{
		{-5, 1},
		{0, 1},
		{1, 1},
		{7, 7},
	}
	for _, tc := range cases {
		if got := NormalizeDays(tc.in); got != tc.want {
			t.Errorf("NormalizeDays(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
