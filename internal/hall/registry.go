package hall

import "slices"

// Student is a hall resident or applicant.
type Student struct {
	ID         string `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	Contact    string `json:"contact" yaml:"contact"`
	Distance   int    `json:"distance" yaml:"distance"` // km from the institution
	Merit      int    `json:"merit" yaml:"merit"`       // merit position, lower is better
	Income     int    `json:"income" yaml:"income"`     // household monthly income
	Department string `json:"department" yaml:"department"`
	RoomNumber string `json:"roomNumber,omitempty" yaml:"room_number,omitempty"`
}

// Assigned reports whether the student currently holds a seat.
func (s Student) Assigned() bool { return s.RoomNumber != "" }

// Room is a hall room with a fixed number of seats.
type Room struct {
	Number    string   `json:"number" yaml:"number"`
	Capacity  int      `json:"capacity" yaml:"capacity"`
	Occupants []string `json:"occupants" yaml:"occupants"`
}

// HasSpace reports whether at least one seat is free.
func (r Room) HasSpace() bool { return len(r.Occupants) < r.Capacity }

// FreeSeats returns the number of unoccupied seats.
func (r Room) FreeSeats() int { return r.Capacity - len(r.Occupants) }

func (r Room) clone() Room {
	r.Occupants = slices.Clone(r.Occupants)
	if r.Occupants == nil {
		r.Occupants = []string{}
	}
	return r
}

func (r *Room) addOccupant(studentID string) {
	r.Occupants = append(r.Occupants, studentID)
}

func (r *Room) removeOccupant(studentID string) bool {
	i := slices.Index(r.Occupants, studentID)
	if i < 0 {
		return false
	}
	r.Occupants = slices.Delete(r.Occupants, i, i+1)
	return true
}

// roomRegistry keeps rooms in creation order with lookup by number.
type roomRegistry struct {
	order    []*Room
	byNumber map[string]*Room
}

func newRoomRegistry() *roomRegistry {
	return &roomRegistry{byNumber: make(map[string]*Room)}
}

func (r *roomRegistry) get(number string) (*Room, bool) {
	room, ok := r.byNumber[number]
	return room, ok
}

func (r *roomRegistry) add(room Room) bool {
	if _, exists := r.byNumber[room.Number]; exists {
		return false
	}
	stored := room.clone()
	r.order = append(r.order, &stored)
	r.byNumber[room.Number] = &stored
	return true
}

func (r *roomRegistry) remove(number string) {
	if _, ok := r.byNumber[number]; !ok {
		return
	}
	delete(r.byNumber, number)
	r.order = slices.DeleteFunc(r.order, func(room *Room) bool { return room.Number == number })
}

func (r *roomRegistry) len() int { return len(r.order) }

// list returns copies in enumeration order.
func (r *roomRegistry) list() []Room {
	out := make([]Room, len(r.order))
	for i, room := range r.order {
		out[i] = room.clone()
	}
	return out
}

// studentRegistry keeps students in enrollment order with lookup by ID.
type studentRegistry struct {
	order []*Student
	byID  map[string]*Student
}

func newStudentRegistry() *studentRegistry {
	return &studentRegistry{byID: make(map[string]*Student)}
}

func (r *studentRegistry) get(id string) (*Student, bool) {
	st, ok := r.byID[id]
	return st, ok
}

func (r *studentRegistry) add(st Student) bool {
	if _, exists := r.byID[st.ID]; exists {
		return false
	}
	stored := st
	r.order = append(r.order, &stored)
	r.byID[st.ID] = &stored
	return true
}

func (r *studentRegistry) remove(id string) {
	if _, ok := r.byID[id]; !ok {
		return
	}
	delete(r.byID, id)
	r.order = slices.DeleteFunc(r.order, func(st *Student) bool { return st.ID == id })
}

func (r *studentRegistry) len() int { return len(r.order) }

func (r *studentRegistry) list() []Student {
	out := make([]Student, len(r.order))
	for i, st := range r.order {
		out[i] = *st
	}
	return out
}

// unassigned returns pointers to students without a room, in enrollment order.
func (r *studentRegistry) unassigned() []*Student {
	var out []*Student
	for _, st := range r.order {
		if !st.Assigned() {
			out = append(out, st)
		}
	}
	return out
}
