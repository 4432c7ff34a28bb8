package availability

import (
	"testing"

	"github.com/bandpraxis/gig-scheduler/internal/model"
)

func TestCombinedStatus(t *testing.T) {
	tests := []struct {
		name  string
		stats InstrumentStats
		want  model.AvailabilityStatus
	}{
		{"clear majority available", InstrumentStats{Total: 4, Available: 3, Tentative: 0}, model.StatusAvailable},
		{"exactly half is not a majority", InstrumentStats{Total: 2, Available: 1, Tentative: 1}, model.StatusMaybe},
		{"tentative does not help availability", InstrumentStats{Total: 4, Available: 1, Tentative: 3}, model.StatusMaybe},
		{"available share alone beats mostly-maybe", InstrumentStats{Total: 5, Available: 3, Tentative: 2}, model.StatusAvailable},
		{"below tentative threshold", InstrumentStats{Total: 10, Available: 1, Tentative: 2}, model.StatusUnavailable},
		{"just above tentative threshold", InstrumentStats{Total: 10, Available: 2, Tentative: 2}, model.StatusMaybe},
		{"nobody answered positively", InstrumentStats{Total: 1, Available: 0, Tentative: 0}, model.StatusUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CombinedStatus(tt.stats); got != tt.want {
				t.Errorf("CombinedStatus(%+v) = %q, want %q", tt.stats, got, tt.want)
			}
		})
	}
}

func TestDominantStatus(t *testing.T) {
	a, m, u := model.StatusAvailable, model.StatusMaybe, model.StatusUnavailable

	tests := []struct {
		name     string
		statuses []model.AvailabilityStatus
		want     model.AvailabilityStatus
	}{
		{"empty defaults to maybe", nil, m},
		{"single value wins", []model.AvailabilityStatus{a}, a},
		{"plain majority", []model.AvailabilityStatus{a, a, u}, a},
		{"tie prefers unavailable over available", []model.AvailabilityStatus{a, u}, u},
		{"tie prefers maybe over available", []model.AvailabilityStatus{a, m}, m},
		{"tie prefers unavailable over maybe", []model.AvailabilityStatus{m, u}, u},
		{"three-way tie is unavailable", []model.AvailabilityStatus{a, m, u}, u},
		{"maybe majority beats lone available", []model.AvailabilityStatus{m, m, a}, m},
		{"maybe majority beats lone unavailable", []model.AvailabilityStatus{u, m, m}, m},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DominantStatus(tt.statuses); got != tt.want {
				t.Errorf("DominantStatus(%v) = %q, want %q", tt.statuses, got, tt.want)
			}
		})
	}
}

func TestStatsByInstrument(t *testing.T) {
	roster := []model.BandMember{
		{ID: "u1", Instrument: "Guitar"},
		{ID: "u2", Instrument: "Guitar"},
		{ID: "u3", Instrument: "Drums"},
	}
	avail := map[string]model.MemberAvailability{
		"u1": {Status: model.StatusAvailable},
		"u2": {Status: model.StatusMaybe},
		"u3": {Status: model.StatusUnavailable},
	}

	stats := StatsByInstrument(avail, roster)

	if got, want := stats["Guitar"], (InstrumentStats{Total: 2, Available: 1, Tentative: 1}); got != want {
		t.Errorf("Guitar stats = %+v, want %+v", got, want)
	}
	if got, want := stats["Drums"], (InstrumentStats{Total: 1, Available: 0, Tentative: 0}); got != want {
		t.Errorf("Drums stats = %+v, want %+v", got, want)
	}
	if got := CombinedStatus(stats["Guitar"]); got != model.StatusMaybe {
		t.Errorf("combined Guitar status = %q, want %q", got, model.StatusMaybe)
	}
	if got := CombinedStatus(stats["Drums"]); got != model.StatusUnavailable {
		t.Errorf("combined Drums status = %q, want %q", got, model.StatusUnavailable)
	}
}

func TestStatsByInstrumentNoResponseCountsTotalOnly(t *testing.T) {
	roster := []model.BandMember{
		{ID: "u1", Instrument: "Bass"},
		{ID: "u2", Instrument: "Bass"},
	}
	avail := map[string]model.MemberAvailability{
		"u1": {Status: model.StatusAvailable},
		// u2 never answered.
	}

	stats := StatsByInstrument(avail, roster)
	if got, want := stats["Bass"], (InstrumentStats{Total: 2, Available: 1, Tentative: 0}); got != want {
		t.Errorf("Bass stats = %+v, want %+v", got, want)
	}
}

func TestAvailableDriverCount(t *testing.T) {
	avail := map[string]model.MemberAvailability{
		"u1": {Status: model.StatusAvailable, CanDrive: model.Bool(true)},
		"u2": {Status: model.StatusAvailable, CanDrive: model.Bool(false)},
		"u3": {Status: model.StatusMaybe, CanDrive: model.Bool(true)},
		"u4": {Status: model.StatusUnavailable, CanDrive: model.Bool(true)},
		"u5": {Status: model.StatusAvailable}, // never answered the driving question
	}

	if got := AvailableDriverCount(avail); got != 1 {
		t.Errorf("AvailableDriverCount = %d, want 1", got)
	}
	if got := AvailableDriverCount(nil); got != 0 {
		t.Errorf("AvailableDriverCount(nil) = %d, want 0", got)
	}
}
