package store

import (
	"hall-management-backend/internal/hall"
	"hall-management-backend/internal/model"
)

const (
	counterComplaint   = "complaint"
	counterAppointment = "appointment"
)

// rows is the table-shaped form of a hall snapshot.
type rows struct {
	students     []model.Student
	rooms        []model.Room
	occupants    []model.RoomOccupant
	users        []model.User
	complaints   []model.Complaint
	appointments []model.Appointment
	counters     []model.Counter
}

// toRows flattens a snapshot. Seq columns carry the slice position so Load
// can restore enumeration order.
func toRows(snap hall.Snapshot) rows {
	var r rows
	for i, st := range snap.Students {
		r.students = append(r.students, model.Student{
			ID:         st.ID,
			Seq:        i,
			Name:       st.Name,
			Contact:    st.Contact,
			Distance:   st.Distance,
			Merit:      st.Merit,
			Income:     st.Income,
			Department: st.Department,
			RoomNumber: st.RoomNumber,
		})
	}
	for i, room := range snap.Rooms {
		r.rooms = append(r.rooms, model.Room{Number: room.Number, Seq: i, Capacity: room.Capacity})
		for pos, id := range room.Occupants {
			r.occupants = append(r.occupants, model.RoomOccupant{RoomNumber: room.Number, StudentID: id, Position: pos})
		}
	}
	for i, u := range snap.Users {
		r.users = append(r.users, model.User{Username: u.Username, Seq: i, PasswordHash: u.PasswordHash, Role: string(u.Role)})
	}
	for i, c := range snap.Complaints {
		r.complaints = append(r.complaints, model.Complaint{
			ID:          c.ID,
			Seq:         i,
			StudentID:   c.StudentID,
			Description: c.Description,
			Resolved:    c.Resolved,
		})
	}
	for i, a := range snap.Appointments {
		r.appointments = append(r.appointments, model.Appointment{
			ID:        a.ID,
			Seq:       i,
			StudentID: a.StudentID,
			Authority: a.Authority,
			Date:      a.Date,
			Time:      a.Time,
			Approved:  a.Approved,
		})
	}
	r.counters = []model.Counter{
		{Name: counterComplaint, Value: snap.Sequences.Complaint},
		{Name: counterAppointment, Value: snap.Sequences.Appointment},
	}
	return r
}

// toSnapshot rebuilds a snapshot from rows already sorted by seq. Occupants
// must be sorted by room and position.
func toSnapshot(r rows) hall.Snapshot {
	var snap hall.Snapshot

	occupants := make(map[string][]string)
	for _, o := range r.occupants {
		occupants[o.RoomNumber] = append(occupants[o.RoomNumber], o.StudentID)
	}
	for _, st := range r.students {
		snap.Students = append(snap.Students, hall.Student{
			ID:         st.ID,
			Name:       st.Name,
			Contact:    st.Contact,
			Distance:   st.Distance,
			Merit:      st.Merit,
			Income:     st.Income,
			Department: st.Department,
			RoomNumber: st.RoomNumber,
		})
	}
	for _, room := range r.rooms {
		snap.Rooms = append(snap.Rooms, hall.Room{
			Number:    room.Number,
			Capacity:  room.Capacity,
			Occupants: occupants[room.Number],
		})
	}
	for _, u := range r.users {
		snap.Users = append(snap.Users, hall.User{Username: u.Username, PasswordHash: u.PasswordHash, Role: hall.Role(u.Role)})
	}
	for _, c := range r.complaints {
		snap.Complaints = append(snap.Complaints, hall.Complaint{
			ID:          c.ID,
			StudentID:   c.StudentID,
			Description: c.Description,
			Resolved:    c.Resolved,
		})
	}
	for _, a := range r.appointments {
		snap.Appointments = append(snap.Appointments, hall.Appointment{
			ID:        a.ID,
			StudentID: a.StudentID,
			Authority: a.Authority,
			Date:      a.Date,
			Time:      a.Time,
			Approved:  a.Approved,
		})
	}
	for _, c := range r.counters {
		switch c.Name {
		case counterComplaint:
			snap.Sequences.Complaint = c.Value
		case counterAppointment:
			snap.Sequences.Appointment = c.Value
		}
	}
	return snap
}
