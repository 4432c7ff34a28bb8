package model

import "testing"

func TestGigCloneIsDeep(t *testing.T) {
	gig := &Gig{
		ID:    "g1",
		Date:  "2026-09-12",
		Dates: []string{"2026-09-13"},
		MemberAvailability: map[string]MemberAvailability{
			"u1": {
				Status:   StatusAvailable,
				CanDrive: Bool(true),
				DateAvailability: map[string]DateAvailability{
					"2026-09-12": {Status: StatusAvailable, CanDrive: Bool(true)},
				},
			},
		},
	}

	clone := gig.Clone()

	clone.Dates[0] = "2026-12-31"
	entry := clone.MemberAvailability["u1"]
	*entry.CanDrive = false
	da := entry.DateAvailability["2026-09-12"]
	da.Status = StatusUnavailable
	*da.CanDrive = false
	entry.DateAvailability["2026-09-12"] = da
	clone.MemberAvailability["u1"] = entry

	if gig.Dates[0] != "2026-09-13" {
		t.Error("clone shares the dates slice")
	}
	orig := gig.MemberAvailability["u1"]
	if orig.CanDrive == nil || !*orig.CanDrive {
		t.Error("clone shares the member canDrive pointer")
	}
	origDA := orig.DateAvailability["2026-09-12"]
	if origDA.Status != StatusAvailable {
		t.Error("clone shares the date availability map")
	}
	if origDA.CanDrive == nil || !*origDA.CanDrive {
		t.Error("clone shares the per-date canDrive pointer")
	}
}

func TestAllDates(t *testing.T) {
	gig := &Gig{Date: "2026-09-12", Dates: []string{"2026-09-13", "2026-09-14"}}
	got := gig.AllDates()
	want := []string{"2026-09-12", "2026-09-13", "2026-09-14"}
	if len(got) != len(want) {
		t.Fatalf("AllDates() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("AllDates() = %v, want %v", got, want)
		}
	}
}

func TestDefaultBuilders(t *testing.T) {
	ma := NewMemberAvailability()
	if ma.Status != StatusMaybe || ma.Note != "" || ma.CanDrive == nil || *ma.CanDrive {
		t.Errorf("NewMemberAvailability() = %+v, want maybe/empty/not-driving", ma)
	}
	if ma.DateAvailability == nil {
		t.Error("NewMemberAvailability() must initialise the date map")
	}

	da := NewDateAvailability()
	if da.Status != StatusMaybe || da.Note != "" || da.CanDrive == nil || *da.CanDrive {
		t.Errorf("NewDateAvailability() = %+v, want maybe/empty/not-driving", da)
	}
}
