package availability

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/bandpraxis/gig-scheduler/internal/model"
)

func singleDayGig() *model.Gig {
	return &model.Gig{
		ID:                 "g1",
		Name:               "Club night",
		Date:               "2026-09-12",
		Status:             model.GigPending,
		MemberAvailability: map[string]model.MemberAvailability{},
	}
}

func multiDayGig() *model.Gig {
	return &model.Gig{
		ID:                 "g2",
		Name:               "Festival weekend",
		Date:               "2026-09-12",
		Dates:              []string{"2026-09-13"},
		IsMultiDay:         true,
		Status:             model.GigPending,
		MemberAvailability: map[string]model.MemberAvailability{},
	}
}

func statusPtr(s model.AvailabilityStatus) *model.AvailabilityStatus { return &s }
func strPtr(s string) *string { return &s }

func TestSetMemberAvailabilitySingleDay(t *testing.T) {
	gig := singleDayGig()

	got := SetMemberAvailability(gig, "u1", Patch{Status: statusPtr(model.StatusAvailable)}, "")

	entry, ok := got.MemberAvailability["u1"]
	if !ok {
		t.Fatal("expected an entry for u1")
	}
	if entry.Status != model.StatusAvailable {
		t.Errorf("status = %q, want available", entry.Status)
	}
	if entry.CanDrive == nil || *entry.CanDrive {
		t.Error("new entry should default to canDrive=false")
	}
	if len(gig.MemberAvailability) != 0 {
		t.Error("input gig was mutated")
	}
}

func TestSetMemberAvailabilitySingleDayPreservesUnpatchedFields(t *testing.T) {
	gig := singleDayGig()
	gig.MemberAvailability["u1"] = model.MemberAvailability{
		Status:   model.StatusAvailable,
		Note:     "can bring the PA",
		CanDrive: model.Bool(true),
	}

	got := SetMemberAvailability(gig, "u1", Patch{Note: strPtr("running late")}, "")

	entry := got.MemberAvailability["u1"]
	if entry.Status != model.StatusAvailable {
		t.Errorf("status = %q, want available (preserved)", entry.Status)
	}
	if entry.Note != "running late" {
		t.Errorf("note = %q, want the patched note", entry.Note)
	}
	if entry.CanDrive == nil || !*entry.CanDrive {
		t.Error("canDrive should be preserved from the existing entry")
	}
	if gig.MemberAvailability["u1"].Note != "can bring the PA" {
		t.Error("input gig was mutated")
	}
}

func TestSetMemberAvailabilityMultiDayFillsMissingDates(t *testing.T) {
	gig := multiDayGig() // dates: 2026-09-12 (anchor) + 2026-09-13

	got := SetMemberAvailability(gig, "u1",
		Patch{Status: statusPtr(model.StatusAvailable)}, "2026-09-13")

	entry := got.MemberAvailability["u1"]
	d1, ok := entry.DateAvailability["2026-09-12"]
	if !ok {
		t.Fatal("anchor date was not auto-filled")
	}
	if d1.Status != model.StatusMaybe {
		t.Errorf("auto-filled date status = %q, want maybe", d1.Status)
	}
	if entry.DateAvailability["2026-09-13"].Status != model.StatusAvailable {
		t.Error("target date was not updated")
	}
	// One maybe and one available tie; the aggregate must land on maybe.
	if entry.Status != model.StatusMaybe {
		t.Errorf("aggregate status = %q, want maybe", entry.Status)
	}
}

func TestSetMemberAvailabilityMultiDayRecomputesAggregate(t *testing.T) {
	gig := multiDayGig()
	gig = SetMemberAvailability(gig, "u1", Patch{Status: statusPtr(model.StatusAvailable)}, "2026-09-12")
	gig = SetMemberAvailability(gig, "u1", Patch{Status: statusPtr(model.StatusAvailable)}, "2026-09-13")

	if got := gig.MemberAvailability["u1"].Status; got != model.StatusAvailable {
		t.Errorf("aggregate status = %q, want available after both dates answered", got)
	}

	gig = SetMemberAvailability(gig, "u1", Patch{Status: statusPtr(model.StatusUnavailable)}, "2026-09-13")
	if got := gig.MemberAvailability["u1"].Status; got != model.StatusUnavailable {
		t.Errorf("aggregate status = %q, want unavailable after conservative tie-break", got)
	}
}

func TestSetMemberAvailabilityMultiDayPerDateNote(t *testing.T) {
	gig := multiDayGig()
	gig = SetMemberAvailability(gig, "u1", Patch{
		Status: statusPtr(model.StatusAvailable),
		Note:   strPtr("only after 18:00"),
	}, "2026-09-12")

	da := gig.MemberAvailability["u1"].DateAvailability["2026-09-12"]
	if da.Note != "only after 18:00" {
		t.Errorf("per-date note = %q, want the submitted note", da.Note)
	}
	if other := gig.MemberAvailability["u1"].DateAvailability["2026-09-13"]; other.Note != "" {
		t.Errorf("note leaked onto another date: %q", other.Note)
	}
}

func TestSetDrivingStatus(t *testing.T) {
	gig := multiDayGig()

	if got := SetDrivingStatus(gig, "u1", "2026-09-12", true); got != nil {
		t.Error("expected nil for a member with no availability entry")
	}

	gig = SetMemberAvailability(gig, "u1", Patch{Status: statusPtr(model.StatusAvailable)}, "2026-09-12")

	if got := SetDrivingStatus(gig, "u1", "2026-10-01", true); got != nil {
		t.Error("expected nil for a date the member never answered")
	}

	got := SetDrivingStatus(gig, "u1", "2026-09-12", true)
	if got == nil {
		t.Fatal("expected an updated gig")
	}
	da := got.MemberAvailability["u1"].DateAvailability["2026-09-12"]
	if da.CanDrive == nil || !*da.CanDrive {
		t.Error("canDrive was not set")
	}
	if da.Status != model.StatusAvailable {
		t.Errorf("status changed to %q, want available untouched", da.Status)
	}
	if prev := gig.MemberAvailability["u1"].DateAvailability["2026-09-12"]; prev.CanDrive != nil && *prev.CanDrive {
		t.Error("input gig was mutated")
	}
}

func TestToggleDriving(t *testing.T) {
	gig := singleDayGig()

	got := ToggleDriving(gig, "u1")
	entry := got.MemberAvailability["u1"]
	if entry.Status != model.StatusMaybe {
		t.Errorf("toggle-from-absent status = %q, want maybe", entry.Status)
	}
	if entry.CanDrive == nil || !*entry.CanDrive {
		t.Error("toggle-from-absent should switch driving on")
	}

	got.MemberAvailability["u1"] = model.MemberAvailability{
		Status:   model.StatusAvailable,
		Note:     "own van",
		CanDrive: model.Bool(true),
	}
	again := ToggleDriving(got, "u1")
	entry = again.MemberAvailability["u1"]
	if entry.CanDrive == nil || *entry.CanDrive {
		t.Error("second toggle should switch driving off")
	}
	if entry.Status != model.StatusAvailable || entry.Note != "own van" {
		t.Error("toggle must preserve status and note")
	}
}

func TestConvertToSingleDate(t *testing.T) {
	gig := multiDayGig()
	gig = SetMemberAvailability(gig, "u1", Patch{
		Status:   statusPtr(model.StatusAvailable),
		Note:     strPtr("need a lift"),
		CanDrive: model.Bool(true),
	}, "2026-09-13")
	gig = SetMemberAvailability(gig, "u2", Patch{Status: statusPtr(model.StatusMaybe)}, "2026-09-13")
	// u3 answered only the anchor date and must be dropped.
	gig.MemberAvailability["u3"] = model.MemberAvailability{
		Status: model.StatusAvailable,
		DateAvailability: map[string]model.DateAvailability{
			"2026-09-12": {Status: model.StatusAvailable},
		},
	}

	got := ConvertToSingleDate(gig, "2026-09-13")

	if got.IsMultiDay || len(got.Dates) != 0 || got.Date != "2026-09-13" {
		t.Errorf("gig shape after convert = multiDay:%v dates:%v date:%q", got.IsMultiDay, got.Dates, got.Date)
	}
	if _, ok := got.MemberAvailability["u3"]; ok {
		t.Error("member without an answer for the selected date must be dropped")
	}

	u1 := got.MemberAvailability["u1"]
	if u1.Status != model.StatusAvailable || u1.Note != "need a lift" {
		t.Errorf("u1 carried over as %+v", u1)
	}
	if u1.CanDrive == nil || !*u1.CanDrive {
		t.Error("truthy canDrive must carry over")
	}
}

func TestConvertToSingleDateOmitsFalsyFields(t *testing.T) {
	gig := multiDayGig()
	gig.MemberAvailability["u1"] = model.MemberAvailability{
		Status: model.StatusMaybe,
		DateAvailability: map[string]model.DateAvailability{
			"2026-09-12": {Status: model.StatusAvailable, Note: "", CanDrive: model.Bool(false)},
		},
	}

	got := ConvertToSingleDate(gig, "2026-09-12")

	raw, err := json.Marshal(got.MemberAvailability["u1"])
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	doc := string(raw)
	if strings.Contains(doc, "note") || strings.Contains(doc, "can_drive") {
		t.Errorf("falsy fields must be omitted from the document, got %s", doc)
	}
}
