// Package model defines the core domain types for the band gig scheduler.
package model

import "time"

// AvailabilityStatus is a band member's answer for a gig or a single date of it.
type AvailabilityStatus string

const (
	StatusAvailable   AvailabilityStatus = "available"
	StatusMaybe       AvailabilityStatus = "maybe"
	StatusUnavailable AvailabilityStatus = "unavailable"
)

// IsValid reports whether s is one of the three known answers.
func (s AvailabilityStatus) IsValid() bool {
	switch s {
	case StatusAvailable, StatusMaybe, StatusUnavailable:
		return true
	}
	return false
}

// GigStatus is the coarse lifecycle state of a gig, set by managers.
type GigStatus string

const (
	GigPending   GigStatus = "pending"
	GigConfirmed GigStatus = "confirmed"
	GigDeclined  GigStatus = "declined"
	GigCompleted GigStatus = "completed"
)

// IsValid reports whether s is a known lifecycle state.
func (s GigStatus) IsValid() bool {
	switch s {
	case GigPending, GigConfirmed, GigDeclined, GigCompleted:
		return true
	}
	return false
}

// DateAvailability is one member's answer for one date of a multi-day gig.
// CanDrive is a pointer so an absent answer stays distinguishable from an
// explicit "no" and omitted keys never reach the store.
type DateAvailability struct {
	Status   AvailabilityStatus `json:"status"`
	Note     string             `json:"note,omitempty"`
	CanDrive *bool              `json:"can_drive,omitempty"`
}

// MemberAvailability is one member's full response to a gig. For multi-day
// gigs Status is derived from DateAvailability and must never be set directly.
type MemberAvailability struct {
	Status           AvailabilityStatus          `json:"status"`
	Note             string                      `json:"note,omitempty"`
	CanDrive         *bool                       `json:"can_drive,omitempty"`
	DateAvailability map[string]DateAvailability `json:"date_availability,omitempty"`
}

// Gig represents one scheduled engagement, single- or multi-date.
// Date and the entries of Dates are ISO dates (YYYY-MM-DD); StartTime and
// EndTime are HH:MM strings, empty when unset.
type Gig struct {
	ID                 string                        `json:"id"`
	Name               string                        `json:"name"`
	Date               string                        `json:"date"`
	Dates              []string                      `json:"dates,omitempty"`
	IsWholeDay         bool                          `json:"is_whole_day"`
	IsMultiDay         bool                          `json:"is_multi_day"`
	StartTime          string                        `json:"start_time,omitempty"`
	EndTime            string                        `json:"end_time,omitempty"`
	Status             GigStatus                     `json:"status"`
	Location           string                        `json:"location,omitempty"`
	Distance           float64                       `json:"distance,omitempty"`
	Pay                string                        `json:"pay,omitempty"`
	Description        string                        `json:"description,omitempty"`
	MemberAvailability map[string]MemberAvailability `json:"member_availability"`
	CreatedBy          string                        `json:"created_by"`
	CreatedAt          time.Time                     `json:"created_at"`
	UpdatedAt          time.Time                     `json:"updated_at"`
}

// AllDates returns the anchor date followed by the additional dates.
func (g *Gig) AllDates() []string {
	dates := make([]string, 0, 1+len(g.Dates))
	dates = append(dates, g.Date)
	dates = append(dates, g.Dates...)
	return dates
}

// Clone returns a deep copy of the gig. The mutator functions operate on
// clones so callers never observe a half-applied update.
func (g *Gig) Clone() *Gig {
	out := *g

	if g.Dates != nil {
		out.Dates = make([]string, len(g.Dates))
		copy(out.Dates, g.Dates)
	}

	out.MemberAvailability = make(map[string]MemberAvailability, len(g.MemberAvailability))
	for id, ma := range g.MemberAvailability {
		out.MemberAvailability[id] = ma.clone()
	}
	return &out
}

func (ma MemberAvailability) clone() MemberAvailability {
	out := ma
	if ma.CanDrive != nil {
		out.CanDrive = Bool(*ma.CanDrive)
	}
	if ma.DateAvailability != nil {
		out.DateAvailability = make(map[string]DateAvailability, len(ma.DateAvailability))
		for date, da := range ma.DateAvailability {
			if da.CanDrive != nil {
				da.CanDrive = Bool(*da.CanDrive)
			}
			out.DateAvailability[date] = da
		}
	}
	return out
}

// NewMemberAvailability builds the default entry for a member who has not
// answered yet: tentative, no note, explicitly not driving.
func NewMemberAvailability() MemberAvailability {
	return MemberAvailability{
		Status:           StatusMaybe,
		Note:             "",
		CanDrive:         Bool(false),
		DateAvailability: map[string]DateAvailability{},
	}
}

// NewDateAvailability builds the default per-date entry used to fill out a
// multi-day structure before a member has answered every date.
func NewDateAvailability() DateAvailability {
	return DateAvailability{
		Status:   StatusMaybe,
		Note:     "",
		CanDrive: Bool(false),
	}
}

// Bool returns a pointer to b.
func Bool(b bool) *bool {
	return &b
}

// BandMember is one roster entry. Availability maps may reference member ids
// that were since removed from the roster; historical answers are kept.
type BandMember struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Instrument string    `json:"instrument"`
	CreatedAt  time.Time `json:"created_at"`
}

// CreateGigRequest is the payload for creating a new gig.
type CreateGigRequest struct {
	Name        string   `json:"name"`
	Date        string   `json:"date"`
	Dates       []string `json:"dates,omitempty"`
	IsWholeDay  bool     `json:"is_whole_day"`
	IsMultiDay  bool     `json:"is_multi_day"`
	StartTime   string   `json:"start_time,omitempty"`
	EndTime     string   `json:"end_time,omitempty"`
	Location    string   `json:"location,omitempty"`
	Distance    float64  `json:"distance,omitempty"`
	Pay         string   `json:"pay,omitempty"`
	Description string   `json:"description,omitempty"`
}

// UpdateGigRequest is the payload for editing an existing gig. It carries the
// same fields as creation; the stored date is the edit baseline.
type UpdateGigRequest = CreateGigRequest

// AvailabilityRequest is one member's availability submission. Nil fields
// leave the existing entry untouched. Date is required for multi-day gigs.
type AvailabilityRequest struct {
	Status   *AvailabilityStatus `json:"status,omitempty"`
	Note     *string             `json:"note,omitempty"`
	CanDrive *bool               `json:"can_drive,omitempty"`
	Date     string              `json:"date,omitempty"`
}

// DrivingRequest sets a member's per-date driving answer.
type DrivingRequest struct {
	Date     string `json:"date"`
	CanDrive bool   `json:"can_drive"`
}

// ConvertRequest locks a multi-day gig to a single date.
type ConvertRequest struct {
	Date string `json:"date"`
}

// UpdateStatusRequest is the manager payload for lifecycle changes.
type UpdateStatusRequest struct {
	Status GigStatus `json:"status"`
}

// CreateMemberRequest is the payload for adding a roster member.
type CreateMemberRequest struct {
	Name       string `json:"name"`
	Instrument string `json:"instrument"`
}

// ErrorResponse is a standard JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}
