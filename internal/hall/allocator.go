package hall

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/sirupsen/logrus"
)

// MeritOrder is the direction in which merit position breaks distance ties.
type MeritOrder string

const (
	// MeritAscending prefers the lower merit position (position 1 first).
	MeritAscending MeritOrder = "ascending"
	// MeritDescending prefers the higher merit position.
	MeritDescending MeritOrder = "descending"
)

// DefaultMeritOrder is used when no WithMeritOrder option is given.
const DefaultMeritOrder = MeritAscending

// ParseMeritOrder accepts "ascending"/"asc" and "descending"/"desc".
func ParseMeritOrder(s string) (MeritOrder, error) {
	switch s {
	case "", "ascending", "asc":
		return MeritAscending, nil
	case "descending", "desc":
		return MeritDescending, nil
	}
	return "", fmt.Errorf("unknown merit order %q", s)
}

// Placement is one seat handed out by an allocation batch.
type Placement struct {
	StudentID  string `json:"studentId"`
	RoomNumber string `json:"roomNumber"`
}

// AllocationReport lists the outcome of one allocation batch in priority order.
type AllocationReport struct {
	Placements []Placement `json:"placements"`
	Unplaced   []string    `json:"unplaced"`
}

// comparePriority orders students for allocation: farther first, then merit
// in the given direction, then lower income, then department and ID so that
// the order is total.
func comparePriority(order MeritOrder) func(a, b *Student) int {
	return func(a, b *Student) int {
		if c := cmp.Compare(b.Distance, a.Distance); c != 0 {
			return c
		}
		merit := cmp.Compare(a.Merit, b.Merit)
		if order == MeritDescending {
			merit = -merit
		}
		if merit != 0 {
			return merit
		}
		if c := cmp.Compare(a.Income, b.Income); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Department, b.Department); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	}
}

// RunAllocation seats every unassigned student it can. Students are taken in
// priority order and each gets the first room, in creation order, that still
// has a free seat. Students that fit nowhere stay unassigned; that is not an
// error. Every placement is saved on its own, so an interrupted batch leaves
// a valid partial allocation and a later run picks up the remaining students.
//
// The returned error is non-nil only when saving failed; placements are kept
// in memory regardless.
func (s *Service) RunAllocation(ctx context.Context) (AllocationReport, error) {
	var (
		report  AllocationReport
		events  []Event
		saveErr error
	)

	s.mu.Lock()
	pending := s.students.unassigned()
	slices.SortFunc(pending, comparePriority(s.meritOrder))

	for _, st := range pending {
		placed := false
		for _, room := range s.rooms.order {
			if checkSeat(st, room) != seatOK {
				continue
			}
			events = append(events, s.placeLocked(st, room))
			report.Placements = append(report.Placements, Placement{StudentID: st.ID, RoomNumber: room.Number})
			if err := s.persistLocked(ctx); err != nil && saveErr == nil {
				saveErr = err
			}
			placed = true
			break
		}
		if !placed {
			report.Unplaced = append(report.Unplaced, st.ID)
		}
	}
	s.mu.Unlock()

	s.publish(events)

	logrus.WithFields(logrus.Fields{
		"placed":      len(report.Placements),
		"unplaced":    len(report.Unplaced),
		"merit_order": s.meritOrder,
	}).Info("Allocation batch finished")
	return report, saveErr
}
