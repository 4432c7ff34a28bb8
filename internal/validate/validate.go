// Package validate implements the gig validation pipeline: required fields,
// past-date rules, multi-date list integrity, and time-range ordering. The
// validator is pure; the clock and every user-facing message are injected so
// callers control localisation and tests control "now".
package validate

import (
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Messages supplies the user-facing text for each failure. The validator
// carries no text of its own.
type Messages struct {
	NameRequired   string
	DateRequired   string
	PastDate       string
	ChangePastDate string
	EmptyDates     string
	TimeRange      string
}

// Result is the outcome of a validation run. Failures are values, not
// errors: they are expected, user-correctable conditions shown in a form.
type Result struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

func ok() Result             { return Result{Valid: true} }
func fail(msg string) Result { return Result{Valid: false, Error: msg} }

// Input carries the gig fields under validation. OriginalDate is the stored
// date when editing an existing gig and empty when creating a new one.
type Input struct {
	Name         string
	Date         string
	Dates        []string
	IsWholeDay   bool
	IsMultiDay   bool
	StartTime    string
	EndTime      string
	OriginalDate string
}

// Validator runs the staged gig checks with an injected clock.
type Validator struct {
	Now      func() time.Time
	Messages Messages
}

// New constructs a Validator on the real clock.
func New(msgs Messages) *Validator {
	return &Validator{Now: time.Now, Messages: msgs}
}

// Validate runs the stages in order, stopping at the first failure:
// required fields, then date rules, then the time range.
func (v *Validator) Validate(in Input) Result {
	if r := v.checkRequired(in); !r.Valid {
		return r
	}
	if r := v.checkDates(in); !r.Valid {
		return r
	}
	return v.checkTimeRange(in)
}

func (v *Validator) checkRequired(in Input) Result {
	if strings.TrimSpace(in.Name) == "" {
		return fail(v.Messages.NameRequired)
	}
	if in.Date == "" {
		return fail(v.Messages.DateRequired)
	}
	return ok()
}

func (v *Validator) checkDates(in Input) Result {
	now := v.Now()

	if in.IsMultiDay {
		// List integrity comes before any past-date reasoning.
		for _, d := range in.Dates {
			if strings.TrimSpace(d) == "" {
				return fail(v.Messages.EmptyDates)
			}
		}
		all := append([]string{in.Date}, in.Dates...)
		for _, d := range all {
			if beforeStartOfToday(d, now) {
				return fail(v.Messages.PastDate)
			}
		}
		return ok()
	}

	if in.OriginalDate == "" {
		// Creating: today stays valid until midnight. Deliberately more
		// lenient than the multi-date start-of-day rule.
		if beforeEndOfToday(in.Date, now) {
			return fail(v.Messages.PastDate)
		}
		return ok()
	}

	// Editing: a historical gig keeps its date; only changing the date to a
	// new past value is rejected, with its own message.
	if in.Date == in.OriginalDate {
		return ok()
	}
	if beforeEndOfToday(in.Date, now) {
		return fail(v.Messages.ChangePastDate)
	}
	return ok()
}

func (v *Validator) checkTimeRange(in Input) Result {
	// Multi-day gigs carry no top-level times, and whole-day or open-ended
	// slots have nothing to compare.
	if in.IsMultiDay || in.IsWholeDay || in.StartTime == "" || in.EndTime == "" {
		return ok()
	}

	startH, startM, err := parseClock(in.StartTime)
	if err != nil {
		return fail(v.Messages.TimeRange)
	}
	endH, endM, err := parseClock(in.EndTime)
	if err != nil {
		return fail(v.Messages.TimeRange)
	}

	// Zero-length slots are invalid: the end must be strictly later.
	if endH > startH || (endH == startH && endM > startM) {
		return ok()
	}
	return fail(v.Messages.TimeRange)
}

// beforeStartOfToday reports whether the ISO date falls strictly before
// today. Unparseable dates count as past.
func beforeStartOfToday(date string, now time.Time) bool {
	d, err := time.ParseInLocation(dateLayout, date, now.Location())
	if err != nil {
		return true
	}
	y, m, day := now.Date()
	today := time.Date(y, m, day, 0, 0, 0, 0, now.Location())
	return d.Before(today)
}

// beforeEndOfToday reports whether the ISO date's final instant has already
// passed, so today itself remains valid even late at night.
func beforeEndOfToday(date string, now time.Time) bool {
	d, err := time.ParseInLocation(dateLayout, date, now.Location())
	if err != nil {
		return true
	}
	return !d.AddDate(0, 0, 1).After(now)
}

// parseClock splits an HH:MM string into hour and minute.
func parseClock(s string) (hour, minute int, err error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, 0, strconv.ErrSyntax
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, err
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, err
	}
	return hour, minute, nil
}
