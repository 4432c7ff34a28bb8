package availability

import "github.com/bandpraxis/gig-scheduler/internal/model"

// Patch is a partial availability update for one member. Nil fields leave
// the corresponding value on the existing entry untouched.
type Patch struct {
	Status   *model.AvailabilityStatus
	Note     *string
	CanDrive *bool
}

// SetMemberAvailability applies a member's availability patch and returns a
// new gig; the input gig is never modified. For multi-day gigs date selects
// the date being answered and must be one of the gig's dates.
func SetMemberAvailability(gig *model.Gig, memberID string, patch Patch, date string) *model.Gig {
	out := gig.Clone()
	if out.IsMultiDay {
		setMultiDay(out, memberID, patch, date)
	} else {
		setSingleDay(out, memberID, patch)
	}
	return out
}

func setSingleDay(gig *model.Gig, memberID string, patch Patch) {
	entry, ok := gig.MemberAvailability[memberID]
	if !ok {
		entry = model.NewMemberAvailability()
	}
	if patch.Status != nil {
		entry.Status = *patch.Status
	}
	if patch.Note != nil {
		entry.Note = *patch.Note
	}
	if patch.CanDrive != nil {
		entry.CanDrive = model.Bool(*patch.CanDrive)
	}
	gig.MemberAvailability[memberID] = entry
}

func setMultiDay(gig *model.Gig, memberID string, patch Patch, date string) {
	entry, ok := gig.MemberAvailability[memberID]
	if !ok {
		entry = model.NewMemberAvailability()
	}
	if entry.DateAvailability == nil {
		entry.DateAvailability = make(map[string]model.DateAvailability)
	}

	// Fill every gig date with a default answer before touching the target
	// date, so a partially populated structure never persists.
	dates := gig.AllDates()
	for _, d := range dates {
		if _, ok := entry.DateAvailability[d]; !ok {
			entry.DateAvailability[d] = model.NewDateAvailability()
		}
	}

	da := entry.DateAvailability[date]
	if patch.Status != nil {
		da.Status = *patch.Status
	}
	if patch.Note != nil {
		da.Note = *patch.Note
	}
	if patch.CanDrive != nil {
		da.CanDrive = model.Bool(*patch.CanDrive)
	}
	entry.DateAvailability[date] = da

	// The overall status is derived, never set directly: recompute it from
	// the per-date answers after every update.
	statuses := make([]model.AvailabilityStatus, 0, len(dates))
	for _, d := range dates {
		statuses = append(statuses, entry.DateAvailability[d].Status)
	}
	entry.Status = DominantStatus(statuses)

	gig.MemberAvailability[memberID] = entry
}

// SetDrivingStatus updates a member's per-date driving answer and returns a
// new gig. It returns nil when the member has no availability entry for that
// date: driving cannot be answered before availability, and the caller's UI
// should not offer the action in that state.
func SetDrivingStatus(gig *model.Gig, memberID, date string, canDrive bool) *model.Gig {
	entry, ok := gig.MemberAvailability[memberID]
	if !ok {
		return nil
	}
	if _, ok := entry.DateAvailability[date]; !ok {
		return nil
	}

	out := gig.Clone()
	e := out.MemberAvailability[memberID]
	da := e.DateAvailability[date]
	da.CanDrive = model.Bool(canDrive)
	e.DateAvailability[date] = da
	out.MemberAvailability[memberID] = e
	return out
}

// ToggleDriving flips a member's gig-level driving answer (single-day
// semantics). Toggling a member with no entry creates one that is tentative
// but driving; status and note of an existing entry are preserved.
func ToggleDriving(gig *model.Gig, memberID string) *model.Gig {
	out := gig.Clone()
	entry, ok := out.MemberAvailability[memberID]
	if !ok {
		entry = model.NewMemberAvailability()
		entry.CanDrive = model.Bool(true)
		out.MemberAvailability[memberID] = entry
		return out
	}

	current := entry.CanDrive != nil && *entry.CanDrive
	entry.CanDrive = model.Bool(!current)
	out.MemberAvailability[memberID] = entry
	return out
}

// ConvertToSingleDate locks a multi-day gig to one of its dates. Each
// member's answer for the selected date becomes their gig-level answer;
// members who never answered that date are dropped entirely. Note and
// canDrive carry over only when truthy so the persisted document never
// grows keys holding empty values.
func ConvertToSingleDate(gig *model.Gig, selectedDate string) *model.Gig {
	out := gig.Clone()

	converted := make(map[string]model.MemberAvailability)
	for id, entry := range gig.MemberAvailability {
		da, ok := entry.DateAvailability[selectedDate]
		if !ok {
			continue
		}
		ma := model.MemberAvailability{Status: da.Status}
		if da.Note != "" {
			ma.Note = da.Note
		}
		if da.CanDrive != nil && *da.CanDrive {
			ma.CanDrive = model.Bool(true)
		}
		converted[id] = ma
	}

	out.MemberAvailability = converted
	out.IsMultiDay = false
	out.Dates = []string{}
	out.Date = selectedDate
	return out
}
