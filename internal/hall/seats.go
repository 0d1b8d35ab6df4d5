package hall

import (
	"context"

	"github.com/sirupsen/logrus"
)

// seatCheck is the outcome of testing whether a student can take a seat.
type seatCheck int

const (
	seatOK seatCheck = iota
	seatRoomFull
	seatAlreadyAssigned
)

func checkSeat(st *Student, room *Room) seatCheck {
	if st.Assigned() {
		return seatAlreadyAssigned
	}
	if !room.HasSpace() {
		return seatRoomFull
	}
	return seatOK
}

func (c seatCheck) err() error {
	switch c {
	case seatRoomFull:
		return ErrRoomFull
	case seatAlreadyAssigned:
		return ErrAlreadyAssigned
	}
	return nil
}

// placeLocked writes both sides of the cross reference. The caller has
// already checked the seat.
func (s *Service) placeLocked(st *Student, room *Room) Event {
	room.addOccupant(st.ID)
	st.RoomNumber = room.Number
	return Event{Kind: EventSeatAssigned, StudentID: st.ID, RoomNumber: room.Number}
}

// releaseLocked clears the student's seat if it holds one.
func (s *Service) releaseLocked(st *Student) (Event, bool) {
	if !st.Assigned() {
		return Event{}, false
	}
	number := st.RoomNumber
	if room, ok := s.rooms.get(number); ok {
		room.removeOccupant(st.ID)
	}
	st.RoomNumber = ""
	return Event{Kind: EventSeatReleased, StudentID: st.ID, RoomNumber: number}, true
}

// AssignSeat gives studentID a seat in roomNumber. It fails without changing
// anything if either is unknown, the room is full or the student already
// holds a room.
func (s *Service) AssignSeat(ctx context.Context, studentID, roomNumber string) error {
	return s.mutate(ctx, func() ([]Event, error) {
		st, ok := s.students.get(studentID)
		if !ok {
			return nil, ErrStudentNotFound
		}
		room, ok := s.rooms.get(roomNumber)
		if !ok {
			return nil, ErrRoomNotFound
		}
		if c := checkSeat(st, room); c != seatOK {
			return nil, c.err()
		}
		ev := s.placeLocked(st, room)
		logrus.WithFields(logrus.Fields{"student_id": studentID, "room": roomNumber}).Info("Seat assigned")
		return []Event{ev}, nil
	})
}

// UnassignSeat releases the student's seat. A student without a room is left
// alone and no error is returned.
func (s *Service) UnassignSeat(ctx context.Context, studentID string) error {
	return s.mutate(ctx, func() ([]Event, error) {
		st, ok := s.students.get(studentID)
		if !ok {
			return nil, ErrStudentNotFound
		}
		ev, released := s.releaseLocked(st)
		if !released {
			return nil, errNoChange
		}
		logrus.WithFields(logrus.Fields{"student_id": studentID, "room": ev.RoomNumber}).Info("Seat released")
		return []Event{ev}, nil
	})
}

// AddStudent enrolls a student. Any room reference on st is ignored; seats
// are only handed out through AssignSeat and RunAllocation.
func (s *Service) AddStudent(ctx context.Context, st Student) error {
	return s.mutate(ctx, func() ([]Event, error) {
		st.RoomNumber = ""
		if !s.students.add(st) {
			return nil, ErrDuplicateStudent
		}
		return []Event{{Kind: EventStudentAdded, StudentID: st.ID}}, nil
	})
}

// UpdateStudent replaces the profile fields of an existing student. The
// student's current room is kept regardless of updated.RoomNumber.
func (s *Service) UpdateStudent(ctx context.Context, id string, updated Student) error {
	return s.mutate(ctx, func() ([]Event, error) {
		st, ok := s.students.get(id)
		if !ok {
			return nil, ErrStudentNotFound
		}
		updated.ID = st.ID
		updated.RoomNumber = st.RoomNumber
		*st = updated
		return []Event{{Kind: EventStudentUpdated, StudentID: id}}, nil
	})
}

// DeleteStudent releases the student's seat, then removes the student and
// its student login. Accounts with other roles are left alone.
func (s *Service) DeleteStudent(ctx context.Context, id string) error {
	return s.mutate(ctx, func() ([]Event, error) {
		st, ok := s.students.get(id)
		if !ok {
			return nil, ErrStudentNotFound
		}
		var events []Event
		if ev, released := s.releaseLocked(st); released {
			events = append(events, ev)
		}
		s.students.remove(id)
		if u, ok := s.users.get(id); ok && u.Role == RoleStudent {
			s.users.remove(id)
		}
		logrus.WithField("student_id", id).Info("Student deleted")
		return append(events, Event{Kind: EventStudentDeleted, StudentID: id}), nil
	})
}

// AddRoom creates an empty room at the end of the enumeration order.
func (s *Service) AddRoom(ctx context.Context, number string, capacity int) error {
	return s.mutate(ctx, func() ([]Event, error) {
		if capacity < 1 {
			return nil, ErrInvalidCapacity
		}
		if !s.rooms.add(Room{Number: number, Capacity: capacity}) {
			return nil, ErrDuplicateRoom
		}
		return []Event{{Kind: EventRoomAdded, RoomNumber: number}}, nil
	})
}

// DeleteRoom removes an empty room.
func (s *Service) DeleteRoom(ctx context.Context, number string) error {
	return s.mutate(ctx, func() ([]Event, error) {
		room, ok := s.rooms.get(number)
		if !ok {
			return nil, ErrRoomNotFound
		}
		if len(room.Occupants) > 0 {
			return nil, ErrRoomNotEmpty
		}
		s.rooms.remove(number)
		return []Event{{Kind: EventRoomDeleted, RoomNumber: number}}, nil
	})
}
