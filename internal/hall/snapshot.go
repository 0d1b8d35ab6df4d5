package hall

import (
	"context"
	"fmt"
)

// Gateway loads and stores the complete hall state.
// Load on an empty store returns a zero Snapshot and no error.
type Gateway interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, snap Snapshot) error
}

// Snapshot is the serialisable hall state. Slice order is enumeration order.
type Snapshot struct {
	Students     []Student     `yaml:"students"`
	Rooms        []Room        `yaml:"rooms"`
	Users        []User        `yaml:"users"`
	Complaints   []Complaint   `yaml:"complaints"`
	Appointments []Appointment `yaml:"appointments"`
	Sequences    Sequences     `yaml:"sequences"`
}

// Sequences hold the last issued complaint and appointment numbers.
type Sequences struct {
	Complaint   int `yaml:"complaint"`
	Appointment int `yaml:"appointment"`
}

// Validate checks the room/student cross-reference invariants: every room
// within capacity, every occupant a known student pointing back at the room
// exactly once, and every assigned student listed by its room.
func (s Snapshot) Validate() error {
	students := make(map[string]Student, len(s.Students))
	for _, st := range s.Students {
		if _, dup := students[st.ID]; dup {
			return fmt.Errorf("%w: duplicate student %q", ErrInconsistentState, st.ID)
		}
		students[st.ID] = st
	}

	rooms := make(map[string]Room, len(s.Rooms))
	for _, room := range s.Rooms {
		if _, dup := rooms[room.Number]; dup {
			return fmt.Errorf("%w: duplicate room %q", ErrInconsistentState, room.Number)
		}
		if room.Capacity < 1 {
			return fmt.Errorf("%w: room %q has capacity %d", ErrInconsistentState, room.Number, room.Capacity)
		}
		if len(room.Occupants) > room.Capacity {
			return fmt.Errorf("%w: room %q over capacity: %d/%d occupants",
				ErrInconsistentState, room.Number, len(room.Occupants), room.Capacity)
		}
		seen := make(map[string]struct{}, len(room.Occupants))
		for _, id := range room.Occupants {
			if _, dup := seen[id]; dup {
				return fmt.Errorf("%w: student %q listed twice in room %q", ErrInconsistentState, id, room.Number)
			}
			seen[id] = struct{}{}
			st, ok := students[id]
			if !ok {
				return fmt.Errorf("%w: room %q lists unknown student %q", ErrInconsistentState, room.Number, id)
			}
			if st.RoomNumber != room.Number {
				return fmt.Errorf("%w: room %q lists student %q who holds %q",
					ErrInconsistentState, room.Number, id, st.RoomNumber)
			}
		}
		rooms[room.Number] = room
	}

	for _, st := range s.Students {
		if !st.Assigned() {
			continue
		}
		room, ok := rooms[st.RoomNumber]
		if !ok {
			return fmt.Errorf("%w: student %q holds unknown room %q", ErrInconsistentState, st.ID, st.RoomNumber)
		}
		found := false
		for _, id := range room.Occupants {
			if id == st.ID {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%w: student %q missing from room %q", ErrInconsistentState, st.ID, st.RoomNumber)
		}
	}
	return nil
}
