// Package service implements business logic, validation, and orchestration
// between HTTP handlers and the repository layer.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bandpraxis/gig-scheduler/internal/availability"
	"github.com/bandpraxis/gig-scheduler/internal/model"
	"github.com/bandpraxis/gig-scheduler/internal/repository"
	"github.com/bandpraxis/gig-scheduler/internal/validate"
)

// ValidationError wraps a validator failure so handlers can map it to 422.
type ValidationError struct {
	Message string
}

func (e ValidationError) Error() string { return e.Message }

// ErrNoDateEntry signals that driving was answered for a date the member
// never gave availability for. Not an error condition to retry; the action
// simply is not applicable yet.
var ErrNoDateEntry = errors.New("no availability recorded for that date")

// ErrNotMultiDay is returned when a multi-day-only operation is requested
// on a single-date gig.
var ErrNotMultiDay = errors.New("gig is not multi-day")

// ErrUnknownDate is returned when a supplied date is not one of the gig's dates.
var ErrUnknownDate = errors.New("date is not part of this gig")

// DefaultMessages is the English message table handed to the validator.
// Callers needing another locale construct the service with their own table.
var DefaultMessages = validate.Messages{
	NameRequired:   "gig name is required",
	DateRequired:   "gig date is required",
	PastDate:       "gig date cannot be in the past",
	ChangePastDate: "cannot move a gig to a past date",
	EmptyDates:     "every additional date must be filled in",
	TimeRange:      "end time must be after start time",
}

// GigService orchestrates gig and availability operations.
type GigService struct {
	gigs      *repository.GigRepository
	members   *repository.MemberRepository
	validator *validate.Validator
}

// NewGigService constructs a GigService with its dependencies.
func NewGigService(
	gigs *repository.GigRepository,
	members *repository.MemberRepository,
	validator *validate.Validator,
) *GigService {
	return &GigService{gigs: gigs, members: members, validator: validator}
}

// CreateGig validates the request and stores a new pending gig with an
// empty availability map.
func (s *GigService) CreateGig(ctx context.Context, req model.CreateGigRequest, createdBy string) (*model.Gig, error) {
	req.Name = strings.TrimSpace(req.Name)
	normalizeDayFlags(&req)

	result := s.validator.Validate(validate.Input{
		Name:       req.Name,
		Date:       req.Date,
		Dates:      req.Dates,
		IsWholeDay: req.IsWholeDay,
		IsMultiDay: req.IsMultiDay,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
	})
	if !result.Valid {
		return nil, ValidationError{Message: result.Error}
	}

	gig := &model.Gig{
		Name:               req.Name,
		Date:               req.Date,
		Dates:              req.Dates,
		IsWholeDay:         req.IsWholeDay,
		IsMultiDay:         req.IsMultiDay,
		StartTime:          req.StartTime,
		EndTime:            req.EndTime,
		Status:             model.GigPending,
		Location:           req.Location,
		Distance:           req.Distance,
		Pay:                req.Pay,
		Description:        req.Description,
		MemberAvailability: map[string]model.MemberAvailability{},
		CreatedBy:          createdBy,
	}
	return s.gigs.Create(ctx, gig)
}

// UpdateGig validates an edit against the stored gig (so an unchanged past
// date stays editable) and writes the result. Availability is not touched.
func (s *GigService) UpdateGig(ctx context.Context, id string, req model.UpdateGigRequest) (*model.Gig, error) {
	existing, err := s.gigs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	req.Name = strings.TrimSpace(req.Name)
	normalizeDayFlags(&req)

	result := s.validator.Validate(validate.Input{
		Name:         req.Name,
		Date:         req.Date,
		Dates:        req.Dates,
		IsWholeDay:   req.IsWholeDay,
		IsMultiDay:   req.IsMultiDay,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		OriginalDate: existing.Date,
	})
	if !result.Valid {
		return nil, ValidationError{Message: result.Error}
	}

	existing.Name = req.Name
	existing.Date = req.Date
	existing.Dates = req.Dates
	existing.IsWholeDay = req.IsWholeDay
	existing.IsMultiDay = req.IsMultiDay
	existing.StartTime = req.StartTime
	existing.EndTime = req.EndTime
	existing.Location = req.Location
	existing.Distance = req.Distance
	existing.Pay = req.Pay
	existing.Description = req.Description

	return s.gigs.Update(ctx, existing)
}

// normalizeDayFlags enforces the whole-day/multi-day field interactions:
// a multi-day gig carries no top-level times and cannot be whole-day, and a
// whole-day gig carries no times.
func normalizeDayFlags(req *model.CreateGigRequest) {
	if req.IsMultiDay {
		req.IsWholeDay = false
		req.StartTime = ""
		req.EndTime = ""
		return
	}
	if req.IsWholeDay {
		req.StartTime = ""
		req.EndTime = ""
	}
	req.Dates = nil
}

// GetGig returns a single gig by ID.
func (s *GigService) GetGig(ctx context.Context, id string) (*model.Gig, error) {
	if id == "" {
		return nil, fmt.Errorf("gig id is required")
	}
	return s.gigs.GetByID(ctx, id)
}

// ListGigs returns all gigs.
func (s *GigService) ListGigs(ctx context.Context) ([]model.Gig, error) {
	return s.gigs.List(ctx)
}

// UpdateStatus applies a manager lifecycle change.
func (s *GigService) UpdateStatus(ctx context.Context, id string, status model.GigStatus) error {
	if !status.IsValid() {
		return ValidationError{Message: fmt.Sprintf("unknown gig status %q", status)}
	}
	return s.gigs.UpdateStatus(ctx, id, status)
}

// DeleteGig removes a gig.
func (s *GigService) DeleteGig(ctx context.Context, id string) error {
	return s.gigs.Delete(ctx, id)
}

// SetAvailability records one member's availability answer under a row lock.
// For multi-day gigs the request must name one of the gig's dates.
func (s *GigService) SetAvailability(ctx context.Context, gigID, memberID string, req model.AvailabilityRequest) (*model.Gig, error) {
	if req.Status != nil && !req.Status.IsValid() {
		return nil, ValidationError{Message: fmt.Sprintf("unknown availability status %q", *req.Status)}
	}

	patch := availability.Patch{
		Status:   req.Status,
		Note:     req.Note,
		CanDrive: req.CanDrive,
	}

	var dateErr error
	gig, err := s.gigs.UpdateAvailability(ctx, gigID, func(g *model.Gig) *model.Gig {
		if g.IsMultiDay {
			if req.Date == "" {
				dateErr = ValidationError{Message: "date is required for a multi-day gig"}
				return nil
			}
			if !containsDate(g.AllDates(), req.Date) {
				dateErr = ErrUnknownDate
				return nil
			}
		}
		return availability.SetMemberAvailability(g, memberID, patch, req.Date)
	})
	if err != nil {
		return nil, err
	}
	if dateErr != nil {
		return nil, dateErr
	}
	return gig, nil
}

// SetDriving records a member's per-date driving answer. ErrNoDateEntry is
// returned when the member has not answered availability for that date.
func (s *GigService) SetDriving(ctx context.Context, gigID, memberID string, req model.DrivingRequest) (*model.Gig, error) {
	gig, err := s.gigs.UpdateAvailability(ctx, gigID, func(g *model.Gig) *model.Gig {
		return availability.SetDrivingStatus(g, memberID, req.Date, req.CanDrive)
	})
	if err != nil {
		return nil, err
	}
	if gig == nil {
		return nil, ErrNoDateEntry
	}
	return gig, nil
}

// ToggleDriving flips a member's gig-level driving answer (single-day gigs).
func (s *GigService) ToggleDriving(ctx context.Context, gigID, memberID string) (*model.Gig, error) {
	var flagErr error
	gig, err := s.gigs.UpdateAvailability(ctx, gigID, func(g *model.Gig) *model.Gig {
		if g.IsMultiDay {
			flagErr = ValidationError{Message: "use the per-date driving endpoint for multi-day gigs"}
			return nil
		}
		return availability.ToggleDriving(g, memberID)
	})
	if err != nil {
		return nil, err
	}
	if flagErr != nil {
		return nil, flagErr
	}
	return gig, nil
}

// ConvertToSingleDate locks a multi-day gig to one of its dates, flattening
// each member's answer for that date into their gig-level answer.
func (s *GigService) ConvertToSingleDate(ctx context.Context, gigID, date string) (*model.Gig, error) {
	var convErr error
	gig, err := s.gigs.UpdateAvailability(ctx, gigID, func(g *model.Gig) *model.Gig {
		if !g.IsMultiDay {
			convErr = ErrNotMultiDay
			return nil
		}
		if !containsDate(g.AllDates(), date) {
			convErr = ErrUnknownDate
			return nil
		}
		return availability.ConvertToSingleDate(g, date)
	})
	if err != nil {
		return nil, err
	}
	if convErr != nil {
		return nil, convErr
	}
	return gig, nil
}

// GigOverview is the manager view: per-section statistics plus the count of
// available drivers.
type GigOverview struct {
	Gig         *model.Gig                  `json:"gig"`
	Instruments map[string]InstrumentReport `json:"instruments"`
	DriverCount int                         `json:"driver_count"`
	Responses   int                         `json:"responses"`
	RosterSize  int                         `json:"roster_size"`
}

// InstrumentReport pairs a section's raw counts with its combined status.
type InstrumentReport struct {
	availability.InstrumentStats
	Combined model.AvailabilityStatus `json:"combined"`
}

// Overview assembles the aggregate view for one gig against the current roster.
func (s *GigService) Overview(ctx context.Context, gigID string) (*GigOverview, error) {
	gig, err := s.gigs.GetByID(ctx, gigID)
	if err != nil {
		return nil, err
	}
	roster, err := s.members.List(ctx)
	if err != nil {
		return nil, err
	}

	stats := availability.StatsByInstrument(gig.MemberAvailability, roster)
	instruments := make(map[string]InstrumentReport, len(stats))
	for instrument, st := range stats {
		instruments[instrument] = InstrumentReport{
			InstrumentStats: st,
			Combined:        availability.CombinedStatus(st),
		}
	}

	return &GigOverview{
		Gig:         gig,
		Instruments: instruments,
		DriverCount: availability.AvailableDriverCount(gig.MemberAvailability),
		Responses:   len(gig.MemberAvailability),
		RosterSize:  len(roster),
	}, nil
}

// CreateMember adds a roster member after trimming and checking the fields.
func (s *GigService) CreateMember(ctx context.Context, req model.CreateMemberRequest) (*model.BandMember, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Instrument = strings.TrimSpace(req.Instrument)
	if req.Name == "" {
		return nil, ValidationError{Message: "member name is required"}
	}
	if req.Instrument == "" {
		return nil, ValidationError{Message: "member instrument is required"}
	}
	return s.members.Create(ctx, req)
}

// ListMembers returns the roster.
func (s *GigService) ListMembers(ctx context.Context) ([]model.BandMember, error) {
	return s.members.List(ctx)
}

// DeleteMember removes a roster member; availability already recorded on
// gigs keeps referencing the removed id.
func (s *GigService) DeleteMember(ctx context.Context, id string) error {
	return s.members.Delete(ctx, id)
}

func containsDate(dates []string, date string) bool {
	for _, d := range dates {
		if d == date {
			return true
		}
	}
	return false
}
