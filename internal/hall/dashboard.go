package hall

// AdminDashboard summarises the whole hall.
type AdminDashboard struct {
	TotalStudents       int `json:"totalStudents"`
	AssignedStudents    int `json:"assignedStudents"`
	TotalRooms          int `json:"totalRooms"`
	OccupiedRooms       int `json:"occupiedRooms"`
	FreeSeats           int `json:"freeSeats"`
	PendingComplaints   int `json:"pendingComplaints"`
	PendingAppointments int `json:"pendingAppointments"`
}

// StudentDashboard summarises one student's standing.
type StudentDashboard struct {
	Student              Student `json:"student"`
	Complaints           int     `json:"complaints"`
	ApprovedAppointments int     `json:"approvedAppointments"`
	PendingAppointments  int     `json:"pendingAppointments"`
}

// AdminDashboard computes the administrator's overview.
func (s *Service) AdminDashboard() AdminDashboard {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := AdminDashboard{
		TotalStudents: s.students.len(),
		TotalRooms:    s.rooms.len(),
	}
	for _, st := range s.students.order {
		if st.Assigned() {
			d.AssignedStudents++
		}
	}
	for _, room := range s.rooms.order {
		if len(room.Occupants) > 0 {
			d.OccupiedRooms++
		}
		d.FreeSeats += room.FreeSeats()
	}
	for _, c := range s.complaints {
		if !c.Resolved {
			d.PendingComplaints++
		}
	}
	for _, a := range s.appointments {
		if !a.Approved {
			d.PendingAppointments++
		}
	}
	return d
}

// StudentDashboard computes one student's overview.
func (s *Service) StudentDashboard(studentID string) (StudentDashboard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.students.get(studentID)
	if !ok {
		return StudentDashboard{}, ErrStudentNotFound
	}
	d := StudentDashboard{Student: *st}
	for _, c := range s.complaints {
		if c.StudentID == studentID {
			d.Complaints++
		}
	}
	for _, a := range s.appointments {
		if a.StudentID != studentID {
			continue
		}
		if a.Approved {
			d.ApprovedAppointments++
		} else {
			d.PendingAppointments++
		}
	}
	return d, nil
}
