// Package availability implements the pure availability logic for gigs:
// status aggregation, per-instrument statistics, driver counting, and the
// copy-on-write mutators that apply member responses to a gig. Nothing in
// this package performs I/O; every function returns a new value and leaves
// its inputs untouched.
package availability

import "github.com/bandpraxis/gig-scheduler/internal/model"

// Classification thresholds for CombinedStatus. A section counts as
// available when availability alone clears the majority threshold, and as
// tentative when available plus maybe answers clear the inclusion threshold.
const (
	MajorityThreshold           = 0.5
	TentativeInclusionThreshold = 0.3
)

// InstrumentStats holds the availability counts for one instrument section.
type InstrumentStats struct {
	Total     int `json:"total"`
	Available int `json:"available"`
	Tentative int `json:"tentative"`
}

// CombinedStatus classifies a section by percentage thresholds, not by
// majority vote: a section can be mostly "maybe" and still come out
// available if the available share alone exceeds 50%.
//
// Callers must not pass Total == 0; the result is unspecified for empty
// sections.
func CombinedStatus(stats InstrumentStats) model.AvailabilityStatus {
	total := float64(stats.Total)
	if float64(stats.Available)/total > MajorityThreshold {
		return model.StatusAvailable
	}
	if float64(stats.Available+stats.Tentative)/total > TentativeInclusionThreshold {
		return model.StatusMaybe
	}
	return model.StatusUnavailable
}

// dominantOrder ranks statuses for tie-breaking, most conservative first.
// When answers across dates conflict, the band should never be over-committed.
var dominantOrder = []model.AvailabilityStatus{
	model.StatusUnavailable,
	model.StatusMaybe,
	model.StatusAvailable,
}

// DominantStatus collapses a list of statuses into the most frequent one.
// Ties resolve to the more conservative status: unavailable beats maybe,
// maybe beats available. An empty list yields maybe, the unset default.
func DominantStatus(statuses []model.AvailabilityStatus) model.AvailabilityStatus {
	if len(statuses) == 0 {
		return model.StatusMaybe
	}

	counts := make(map[model.AvailabilityStatus]int, 3)
	for _, s := range statuses {
		counts[s]++
	}

	best := dominantOrder[0]
	bestCount := counts[best]
	for _, s := range dominantOrder[1:] {
		if counts[s] > bestCount {
			best, bestCount = s, counts[s]
		}
	}
	return best
}

// StatsByInstrument groups the roster by instrument and counts availability.
// Every roster member counts toward their section's total; members without
// an availability entry contribute to the total only, which makes "no
// response" indistinguishable from an explicit unavailable in the aggregate.
func StatsByInstrument(avail map[string]model.MemberAvailability, roster []model.BandMember) map[string]InstrumentStats {
	stats := make(map[string]InstrumentStats, len(roster))
	for _, m := range roster {
		s := stats[m.Instrument]
		s.Total++
		if ma, ok := avail[m.ID]; ok {
			switch ma.Status {
			case model.StatusAvailable:
				s.Available++
			case model.StatusMaybe:
				s.Tentative++
			}
		}
		stats[m.Instrument] = s
	}
	return stats
}

// AvailableDriverCount counts members who are both available and willing to
// drive. Any other combination, including a driver who answered maybe, does
// not count.
func AvailableDriverCount(avail map[string]model.MemberAvailability) int {
	count := 0
	for _, ma := range avail {
		if ma.Status == model.StatusAvailable && ma.CanDrive != nil && *ma.CanDrive {
			count++
		}
	}
	return count
}
